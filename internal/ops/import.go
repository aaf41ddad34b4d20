package ops

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/store"
)

// ImportMode controls what happens to bad or already-stored records.
type ImportMode string

const (
	ImportModeError ImportMode = "error" // import nothing if any record fails (atomic)
	ImportModeSkip  ImportMode = "skip"  // import what can be imported, report the rest
)

// maxImportLine bounds a single JSONL line.
const maxImportLine = 1 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     `validate:"required"`
	Mode ImportMode `validate:"omitempty,oneof=error skip"` // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported  int           `json:"imported"`
	Skipped   int           `json:"skipped"`
	Converted int           `json:"converted"`
	Errors    []ImportError `json:"errors"`
}

// ImportError describes one record that was not imported.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// importRecord is a parsed record and where it came from.
type importRecord struct {
	line      int
	entry     entry.Entry
	converted bool
}

// Import reads entries from a JSONL export, or from a diary saved as a single
// JSON array, and appends them. Records without a ULID id are converted: they
// get a new id derived from their creation time, or noon local time of their
// date when that is unknown.
func Import(ctx context.Context, deps Deps, input ImportInput) (*ImportOutput, error) {
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := ValidatePath(input.Path, PathCheckRead, deps.cfg()); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if errors.Is(err, errors.ErrFileNotFound) || errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	raws, parseErrors := parseImport(file)
	records, recordErrors := convertRecords(raws, deps)
	bad := append(parseErrors, recordErrors...)

	out := &ImportOutput{Errors: []ImportError{}}
	if input.Mode == ImportModeError && len(bad) > 0 {
		out.Errors = bad
		return out, nil
	}

	entries := make([]entry.Entry, len(records))
	lines := make(map[string]int, len(records))
	for i, r := range records {
		entries[i] = r.entry
		lines[r.entry.ID] = r.line
		if r.converted {
			out.Converted++
		}
	}

	dup := store.DuplicateError
	if input.Mode == ImportModeSkip {
		dup = store.DuplicateSkip
	}
	result, err := deps.Store.AppendMany(ctx, entries, dup)
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			id, _ := errors.As(err).Details["id"].(string)
			out.Converted = 0
			out.Errors = append(bad, ImportError{
				Line:    lines[id],
				ID:      id,
				Code:    "ID_COLLISION",
				Message: errors.As(err).Message,
			})
			return out, nil
		}
		return nil, err
	}

	out.Imported = result.Added
	out.Errors = append(out.Errors, bad...)
	for _, id := range result.Skipped {
		out.Errors = append(out.Errors, ImportError{
			Line:    lines[id],
			ID:      id,
			Code:    "ID_COLLISION",
			Message: fmt.Sprintf("entry with id %q already exists", id),
		})
	}
	out.Skipped = len(out.Errors)

	deps.log().Info("diary imported",
		zap.String("path", input.Path),
		zap.Int("imported", out.Imported),
		zap.Int("skipped", out.Skipped),
		zap.Int("converted", out.Converted))
	return out, nil
}

type rawRecord struct {
	line int
	data json.RawMessage
}

// parseImport splits the input into raw records. A leading '[' means a JSON
// array, numbered by position; anything else is JSONL, numbered by line.
// Export header lines are dropped.
func parseImport(r io.Reader) ([]rawRecord, []ImportError) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, []ImportError{{Code: "READ_ERROR", Message: fmt.Sprintf("failed to read file: %v", err)}}
	}

	if first == '[' {
		var items []json.RawMessage
		if err := json.NewDecoder(br).Decode(&items); err != nil {
			return nil, []ImportError{{Code: "PARSE_ERROR", Message: fmt.Sprintf("invalid JSON array: %v", err)}}
		}
		raws := make([]rawRecord, len(items))
		for i, item := range items {
			raws[i] = rawRecord{line: i + 1, data: item}
		}
		return raws, nil
	}

	var raws []rawRecord
	var parseErrors []ImportError
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var header struct {
			MoodlogExport bool `json:"_moodlog_export"`
		}
		if err := json.Unmarshal(line, &header); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if header.MoodlogExport {
			continue
		}
		raws = append(raws, rawRecord{line: lineNum, data: append(json.RawMessage(nil), line...)})
	}
	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}
	return raws, parseErrors
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n', 0xEF, 0xBB, 0xBF: // whitespace and a UTF-8 BOM
			continue
		}
		return b, br.UnreadByte()
	}
}

// convertRecords decodes raw records into entries that satisfy the catalog.
func convertRecords(raws []rawRecord, deps Deps) ([]importRecord, []ImportError) {
	catalog := deps.catalog()
	boundary := deps.cfg().BoundaryHour()

	var records []importRecord
	var recordErrors []ImportError
	for _, raw := range raws {
		var e entry.Entry
		if err := json.Unmarshal(raw.data, &e); err != nil {
			recordErrors = append(recordErrors, ImportError{
				Line:    raw.line,
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			continue
		}

		converted := false
		if !entry.IsID(e.ID) {
			if e.CreatedAt.IsZero() && e.Date.IsZero() {
				recordErrors = append(recordErrors, ImportError{
					Line:    raw.line,
					ID:      e.ID,
					Code:    "INVALID_RECORD",
					Message: "record has neither a usable id nor a date",
				})
				continue
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = e.CreationTime()
			}
			if e.Date.IsZero() {
				e.Date = entry.LogicalDateOf(e.CreatedAt, boundary)
			}
			id, err := entry.NewID(e.CreatedAt)
			if err != nil {
				recordErrors = append(recordErrors, ImportError{
					Line:    raw.line,
					ID:      e.ID,
					Code:    "INVALID_RECORD",
					Message: fmt.Sprintf("cannot assign id: %v", err),
				})
				continue
			}
			e.ID = id
			converted = true
		}

		// Older records may predate an emotion; they get the default rating.
		ratings, err := catalog.Resolve(e.Ratings)
		if err == nil {
			e.Ratings = ratings
			err = entry.Validate(e, catalog)
		}
		if err != nil {
			recordErrors = append(recordErrors, ImportError{
				Line:    raw.line,
				ID:      e.ID,
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			continue
		}

		records = append(records, importRecord{line: raw.line, entry: e, converted: converted})
	}
	return records, recordErrors
}
