package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every SQL migration in dir for a well-formed
// versioned filename, unique versions, and goose Up/Down sections.
// All problems are reported at once.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var problems []string
	versions := map[string]string{}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := migrationFileRe.FindStringSubmatch(name)
		if m == nil {
			problems = append(problems, fmt.Sprintf("%s: filename must match YYYYMMDDHHMMSS_name.sql", name))
			continue
		}
		if prev, dup := versions[m[1]]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate version with %s", name, prev))
		}
		versions[m[1]] = name

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		content := string(data)
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(content, marker) {
				problems = append(problems, fmt.Sprintf("%s: missing %q", name, marker))
			}
		}
		if strings.Count(content, "-- +goose StatementBegin") != strings.Count(content, "-- +goose StatementEnd") {
			problems = append(problems, fmt.Sprintf("%s: unbalanced StatementBegin/StatementEnd", name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid migrations:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
