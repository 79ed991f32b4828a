package database

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration is one versioned schema change loaded from the embedded
// migrations directory. Files come in pairs named
// NNNNNN_name.up.sql and NNNNNN_name.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// LoadMigrations parses the embedded SQL files into a set sorted by
// ascending version. A malformed filename or a missing down file is an
// error rather than a skip, so a bad pair cannot silently drop out of
// the schema history.
func LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob embedded migrations: %w", err)
	}

	set := make([]Migration, 0, len(upFiles))
	for _, upPath := range upFiles {
		base := strings.TrimSuffix(strings.TrimPrefix(upPath, "migrations/"), ".up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %q: want NNNNNN_name.up.sql", upPath)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %q: bad version prefix: %w", upPath, err)
		}

		up, err := migrationFS.ReadFile(upPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", upPath, err)
		}
		downPath := "migrations/" + base + ".down.sql"
		down, err := migrationFS.ReadFile(downPath)
		if err != nil {
			return nil, fmt.Errorf("migration %s is missing its down file: %w", base, err)
		}

		set = append(set, Migration{
			Version: version,
			Name:    name,
			Up:      string(up),
			Down:    string(down),
		})
	}

	sort.Slice(set, func(i, j int) bool { return set[i].Version < set[j].Version })
	for i := 1; i < len(set); i++ {
		if set[i].Version == set[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %06d", set[i].Version)
		}
	}
	return set, nil
}
