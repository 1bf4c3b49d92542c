// Package dbmigrate reads the numbered SQL migrations embedded by the
// Postgres and SQLite stores. Applying them is left to each store.
package dbmigrate

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// File is one migration, e.g. 001_init.sql is version 1.
type File struct {
	Version int
	Name    string
	SQL     string
}

// ParseVersion returns the numeric prefix of a migration file name.
func ParseVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	if version <= 0 {
		return 0, fmt.Errorf("migration %q: version must be positive", filename)
	}
	return version, nil
}

// Load returns the .sql files in dir, ordered by version. Two files with
// the same version are an error.
func Load(fsys fs.FS, dir string) ([]File, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var files []File
	seen := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, err := ParseVersion(entry.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, entry.Name(), version)
		}
		seen[version] = entry.Name()

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		files = append(files, File{Version: version, Name: entry.Name(), SQL: string(content)})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}
