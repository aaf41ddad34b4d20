package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
)

// ExportSchemaVersion is written in the header line of every export.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.moodlog/exports/diary-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	MoodlogExport bool   `json:"_moodlog_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
	Count         int    `json:"count"`
}

// Export writes every stored entry, oldest first, to a JSONL file preceded by
// a header line. The file is written to a temp name and renamed into place.
func Export(ctx context.Context, deps Deps, input ExportInput) (*ExportOutput, error) {
	now := deps.now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, fmt.Sprintf("diary-%s.jsonl", now.Format("2006-01-02T150405")))
	}

	if err := ValidatePath(exportPath, PathCheckWrite, deps.cfg()); err != nil {
		return nil, err
	}

	entries := deps.Store.ListAll(ctx)
	entry.SortOldestFirst(entries)

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// The original file is preserved unless the rename succeeds.
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	header := ExportHeader{
		MoodlogExport: true,
		SchemaVersion: ExportSchemaVersion,
		ExportedAt:    exportedAt,
		Count:         len(entries),
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("export")
		}
		if err := enc.Encode(e); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination.
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("export path is a symlink")
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	deps.log().Info("diary exported", zap.String("path", exportPath), zap.Int("count", len(entries)))
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(entries),
		ExportedAt: exportedAt,
	}, nil
}
