package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/moodlog/internal/config"
	"github.com/hpungsan/moodlog/internal/errors"
)

// PathCheckMode says whether a backup file is about to be read or written.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import
	PathCheckWrite                      // export
)

// backupExtensions lists accepted backup file extensions per mode. Exports
// are always JSONL; imports also take a diary saved as one JSON array.
var backupExtensions = map[PathCheckMode][]string{
	PathCheckRead:  {".jsonl", ".json"},
	PathCheckWrite: {".jsonl"},
}

// ValidatePath checks a backup file path before export or import.
//
// The file must sit directly in ~/.moodlog/exports or in one of the
// configured allowed_paths, carry a backup extension, and be neither a
// symlink nor inside a symlinked directory. allow_unsafe_paths lifts the
// directory rule only. Reads additionally require the file to exist.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	exts := backupExtensions[mode]
	if !slices.Contains(exts, strings.ToLower(filepath.Ext(cleaned))) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have one of the extensions %s", strings.Join(exts, ", ")))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if cfg == nil || !cfg.AllowUnsafePaths {
		dirs, err := backupDirs(cfg)
		if err != nil {
			return err
		}
		parent := filepath.Dir(absPath)
		if !slices.Contains(dirs, parent) {
			return errors.NewInvalidRequest(fmt.Sprintf(
				"backup file must be directly in one of %v (no subdirectories)", dirs))
		}
		if isSymlink(parent) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}
	if isSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// backupDirs returns the exports directory plus absolute allowed_paths,
// cleaned, with symlinked entries replaced by their targets.
func backupDirs(cfg *config.Config) ([]string, error) {
	exports, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	candidates := []string{exports}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				candidates = append(candidates, p)
			}
		}
	}

	dirs := make([]string, 0, len(candidates))
	for _, d := range candidates {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if isSymlink(abs) {
			if abs, err = filepath.EvalSymlinks(abs); err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
		}
		dirs = append(dirs, abs)
	}
	return dirs, nil
}

// isSymlink reports whether path exists and is itself a symlink.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DefaultExportsDir returns ~/.moodlog/exports.
func DefaultExportsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(home, config.DirName, "exports"), nil
}

// containsTraversal reports whether any component of path is "..". Forward
// slashes count as separators on every platform.
func containsTraversal(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}
