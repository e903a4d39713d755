package store

import (
	"database/sql"
	"strings"
	"time"
)

var dbTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// parseDBTime reads a nullable timestamp column. Unparsable values read as
// nil.
func parseDBTime(v sql.NullString) *time.Time {
	s := strings.TrimSpace(v.String)
	if !v.Valid || s == "" {
		return nil
	}
	for _, layout := range dbTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func timeToDBString(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullIfEmpty(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
