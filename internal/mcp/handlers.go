package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps ops.Deps
	log  *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps ops.Deps) *Handlers {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{deps: deps, log: log.Named("mcp")}
}

// Request types for each tool

// SaveRequest represents the arguments for diary_save.
type SaveRequest struct {
	Ratings map[string]int `json:"ratings,omitempty"`
	Notes   string         `json:"notes,omitempty"`
}

// GetRequest represents the arguments for diary_get.
type GetRequest struct {
	ID string `json:"id"`
}

// PageRequest represents the arguments for diary_list and diary_weeks.
type PageRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// RecentRequest represents the arguments for diary_recent.
type RecentRequest struct {
	Count int `json:"count,omitempty"`
}

// ReportRequest represents the arguments for diary_report.
type ReportRequest struct {
	Count          int    `json:"count,omitempty"`
	Recipient      string `json:"recipient,omitempty"`
	RecipientLabel string `json:"recipient_label,omitempty"`
}

// ExportRequest represents the arguments for diary_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for diary_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// HandleSave handles the diary_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return h.errorResult("diary_save", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.deps, ops.SaveInput{
		Ratings: input.Ratings,
		Notes:   input.Notes,
	})
	if err != nil {
		return h.errorResult("diary_save", err), nil
	}

	return successResult(result)
}

// HandleGet handles the diary_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return h.errorResult("diary_get", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.deps, ops.GetInput{ID: input.ID})
	if err != nil {
		return h.errorResult("diary_get", err), nil
	}

	return successResult(result)
}

// HandleList handles the diary_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PageRequest](req)
	if err != nil {
		return h.errorResult("diary_list", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.deps, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return h.errorResult("diary_list", err), nil
	}

	return successResult(result)
}

// HandleWeeks handles the diary_weeks tool call.
func (h *Handlers) HandleWeeks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PageRequest](req)
	if err != nil {
		return h.errorResult("diary_weeks", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Weeks(ctx, h.deps, ops.WeeksInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return h.errorResult("diary_weeks", err), nil
	}

	return successResult(result)
}

// HandleRecent handles the diary_recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return h.errorResult("diary_recent", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(ctx, h.deps, ops.RecentInput{Count: input.Count})
	if err != nil {
		return h.errorResult("diary_recent", err), nil
	}

	return successResult(result)
}

// HandleReport handles the diary_report tool call.
func (h *Handlers) HandleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReportRequest](req)
	if err != nil {
		return h.errorResult("diary_report", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Report(ctx, h.deps, ops.ReportInput{
		Count:          input.Count,
		Recipient:      input.Recipient,
		RecipientLabel: input.RecipientLabel,
	})
	if err != nil {
		return h.errorResult("diary_report", err), nil
	}

	return successResult(result)
}

// HandleEmotions handles the diary_emotions tool call.
func (h *Handlers) HandleEmotions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Emotions(h.deps))
}

// HandleDebug handles the diary_debug tool call.
func (h *Handlers) HandleDebug(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Debug(ctx, h.deps)
	if err != nil {
		return h.errorResult("diary_debug", err), nil
	}

	return successResult(result)
}

// HandleExport handles the diary_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return h.errorResult("diary_export", errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.deps, ops.ExportInput{Path: input.Path})
	if err != nil {
		return h.errorResult("diary_export", err), nil
	}

	return successResult(result)
}

// HandleImport handles the diary_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return h.errorResult("diary_import", errors.NewInvalidRequest(err.Error())), nil
	}

	mode := ops.ImportModeError
	if input.Mode != "" {
		mode = ops.ImportMode(input.Mode)
	}

	result, err := ops.Import(ctx, h.deps, ops.ImportInput{
		Path: input.Path,
		Mode: mode,
	})
	if err != nil {
		return h.errorResult("diary_import", err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult logs the failure and converts it into an MCP error result.
func (h *Handlers) errorResult(tool string, err error) *mcp.CallToolResult {
	result := errorResult(err)
	if dErr := errors.As(err); dErr.Status >= 500 {
		h.log.Error("tool failed", zap.String("tool", tool), zap.Error(err))
	} else {
		h.log.Debug("tool rejected", zap.String("tool", tool), zap.String("code", string(dErr.Code)))
	}
	return result
}

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var dErr *errors.DiaryError
	if stderrors.As(err, &dErr) {
		message := dErr.Message
		// Keep context added by wrapping, e.g. "import: entry not found".
		if prefix, ok := strings.CutSuffix(err.Error(), dErr.Error()); ok && prefix != "" {
			message = prefix + message
		}
		errorObj := map[string]any{
			"code":    dErr.Code,
			"message": message,
			"status":  dErr.Status,
		}
		if dErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if dErr.Details != nil {
			errorObj["details"] = dErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
