package migrate

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var fileNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var requiredMarkers = []string{"-- +goose Up", "-- +goose Down"}

// Validate checks every .sql file in fsys for a versioned name, a unique
// version and both goose markers. All problems are reported together.
func Validate(fsys fs.FS) error {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no migrations found")
	}

	var errs error
	versions := make(map[string]string, len(names))
	for _, name := range names {
		m := fileNameRe.FindStringSubmatch(path.Base(name))
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected YYYYMMDDHHMMSS_name.sql", name))
			continue
		}
		if prev, dup := versions[m[1]]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: version %s already used by %s", name, m[1], prev))
		}
		versions[m[1]] = name

		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		for _, marker := range requiredMarkers {
			if !strings.Contains(string(body), marker) {
				errs = multierr.Append(errs, fmt.Errorf("%s: missing %q", name, marker))
			}
		}
	}
	return errs
}
