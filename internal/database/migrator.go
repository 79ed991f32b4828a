package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"learnfromus/internal/middleware"

	"gorm.io/gorm"
)

// appliedMigration is a row in the schema_migrations ledger.
type appliedMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

// Migrator applies and reverts the embedded SQL migrations, tracking
// progress in the schema_migrations table.
type Migrator struct {
	db  *gorm.DB
	set []Migration
}

// NewMigrator loads the embedded migration set for the given connection.
func NewMigrator(db *gorm.DB) (*Migrator, error) {
	set, err := LoadMigrations()
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, set: set}, nil
}

// Migrations returns the loaded set in ascending version order.
func (m *Migrator) Migrations() []Migration {
	return m.set
}

// Applied returns the versions recorded in the ledger, ascending. A
// missing ledger table counts as nothing applied.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := m.db.WithContext(ctx).Model(&appliedMigration{}).Order("version").Pluck("version", &versions).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return versions, nil
}

func isUndefinedTable(err error) bool {
	msg := err.Error()
	// postgres 42P01 and the sqlite equivalent
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such table")
}

// Up applies every pending migration in version order. Each migration
// and its ledger row commit together in one transaction.
func (m *Migrator) Up(ctx context.Context) error {
	if !m.db.WithContext(ctx).Migrator().HasTable(&appliedMigration{}) {
		if err := m.db.WithContext(ctx).Migrator().CreateTable(&appliedMigration{}); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}
	if err := m.checkDrift(applied); err != nil {
		return err
	}

	for _, mig := range m.set {
		if done[mig.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.String("migration", mig.String()))
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Up).Error; err != nil {
			return fmt.Errorf("migration %s: %w", mig, err)
		}
		row := appliedMigration{Version: mig.Version, Name: mig.Name}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", mig, err)
		}
		return nil
	})
}

// checkDrift rejects a ledger that names versions this build does not
// carry. Running an old binary against a newer schema must fail loudly,
// not reapply or half-apply anything.
func (m *Migrator) checkDrift(applied []int) error {
	known := make(map[int]bool, len(m.set))
	for _, mig := range m.set {
		known[mig.Version] = true
	}
	var unknown []string
	for _, v := range applied {
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("schema_migrations lists versions missing from this build: %s", strings.Join(unknown, ", "))
}

// Down reverts a single applied migration by version.
func (m *Migrator) Down(ctx context.Context, version int) error {
	var target *Migration
	for i := range m.set {
		if m.set[i].Version == version {
			target = &m.set[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no migration with version %d", version)
	}

	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	isApplied := false
	for _, v := range applied {
		if v == version {
			isApplied = true
			break
		}
	}
	if !isApplied {
		return fmt.Errorf("migration %s is not applied", target)
	}

	middleware.Logger.Info("Reverting migration", slog.String("migration", target.String()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(target.Down).Error; err != nil {
			return fmt.Errorf("revert migration %s: %w", target, err)
		}
		if err := tx.Where("version = ?", version).Delete(&appliedMigration{}).Error; err != nil {
			return fmt.Errorf("unrecord migration %s: %w", target, err)
		}
		return nil
	})
}

// RunMigrations brings the schema fully up to date. Called on startup.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}
