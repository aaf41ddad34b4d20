package mcp

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"diary_save": {
		def:     saveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
	},
	"diary_get": {
		def:     getToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"diary_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"diary_weeks": {
		def:     weeksToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWeeks },
	},
	"diary_recent": {
		def:     recentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecent },
	},
	"diary_report": {
		def:     reportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReport },
	},
	"diary_emotions": {
		def:     emotionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleEmotions },
	},
	"diary_debug": {
		def:     debugToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDebug },
	},
	"diary_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"diary_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the diary tools registered.
// Tools listed in deps.Config.DisabledTools are excluded.
func NewServer(deps ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"moodlog",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	disabled := make(map[string]bool)
	if deps.Config != nil {
		for _, name := range deps.Config.DisabledTools {
			disabled[name] = true
		}
		if unknown := ValidateDisabledTools(deps.Config.DisabledTools); len(unknown) > 0 {
			h.log.Warn("unknown tools in disabled_tools", zap.Strings("tools", unknown))
		}
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps ops.Deps, version string) error {
	return server.ServeStdio(NewServer(deps, version))
}
