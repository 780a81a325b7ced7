package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var migrationNameRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationStub = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty timestamped goose migration,
// <dir>/<YYYYMMDDHHMMSS>_<name>.sql, and returns its path. The name is
// lowercased and reduced to [a-z0-9_] so it stays a valid goose filename.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}

	safe := sanitizeMigrationName(name)
	if safe == "" {
		return "", fmt.Errorf("migration name %q sanitizes to nothing", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	stamp := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", stamp, safe))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration already exists: %s", path)
	}

	if err := os.WriteFile(path, fmt.Appendf(nil, migrationStub, safe), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

func sanitizeMigrationName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = migrationNameRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
