package migrate

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	markerUp             = "-- +goose Up"
	markerDown           = "-- +goose Down"
	markerStatementBegin = "-- +goose StatementBegin"
	markerStatementEnd   = "-- +goose StatementEnd"
)

// Validate checks migration filenames, version uniqueness and goose
// annotations for every .sql file directly under dir in fsys.
func Validate(fsys fs.FS, dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		if err := validateBody(string(b)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

// validateBody requires Up before Down and balanced statement blocks in
// each section.
func validateBody(txt string) error {
	up := strings.Index(txt, markerUp)
	if up < 0 {
		return fmt.Errorf("missing %q", markerUp)
	}
	down := strings.Index(txt, markerDown)
	if down < 0 {
		return fmt.Errorf("missing %q", markerDown)
	}
	if down < up {
		return fmt.Errorf("%q must come before %q", markerUp, markerDown)
	}

	for section, body := range map[string]string{"up": txt[up:down], "down": txt[down:]} {
		begins := strings.Count(body, markerStatementBegin)
		ends := strings.Count(body, markerStatementEnd)
		if begins != ends {
			return fmt.Errorf("%s section has %d StatementBegin and %d StatementEnd", section, begins, ends)
		}
	}
	return nil
}

// ValidateEmbedded validates the migrations compiled into the binary.
func ValidateEmbedded() error {
	return Validate(embedded, embeddedDir)
}
