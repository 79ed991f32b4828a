package validation

import (
	"strconv"
	"strings"
	"time"
)

// MaxPostTags caps the number of tags accepted on a single post.
const MaxPostTags = 8

const maxSlugBase = 80

// NormalizeSlug lowercases s and collapses every run of characters outside
// ascii a-z0-9 into a single hyphen, trimming leading and trailing hyphens.
// Keeping the output ascii-only means byte length equals rune length, so
// callers may truncate by byte index. It never fails; unusable input yields
// an empty string.
func NormalizeSlug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
		} else {
			pendingHyphen = true
		}
	}
	return b.String()
}

// NormalizeSection maps free-text section input to its canonical slug.
// Empty results are rejected by the caller, not here.
func NormalizeSection(s string) string {
	return NormalizeSlug(s)
}

// NormalizeTags slugifies each tag, drops empties, deduplicates preserving
// first occurrence, and caps the result at MaxPostTags. The result is always
// non-nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		name := NormalizeSlug(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == MaxPostTags {
			break
		}
	}
	return out
}

// Slugify derives a unique URL slug from a post title: the normalized title
// capped at 80 characters plus a base36 millisecond suffix to disambiguate
// identical titles.
func Slugify(title string) string {
	return slugifyAt(title, time.Now())
}

func slugifyAt(title string, now time.Time) string {
	base := NormalizeSlug(title)
	if len(base) > maxSlugBase {
		base = strings.TrimRight(base[:maxSlugBase], "-")
	}
	if base == "" {
		base = "post"
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}
