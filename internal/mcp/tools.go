package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var saveToolDef = mcp.NewTool("diary_save",
	mcp.WithDescription("Save a new mood diary entry stamped with the current time. "+
		"Each configured emotion is rated 1-10; emotions left out are rated 5. "+
		"Entries made before 5am count toward the previous day. Saving never overwrites an earlier entry."),
	mcp.WithObject("ratings",
		mcp.Description(`Map of emotion name to rating 1-10, e.g. {"Grief": 3, "Hopefulness": 8}. Names are case-insensitive.`)),
	mcp.WithString("notes",
		mcp.Description("Optional free-text notes.")),
)

var getToolDef = mcp.NewTool("diary_get",
	mcp.WithDescription("Fetch one diary entry by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
)

var listToolDef = mcp.NewTool("diary_list",
	mcp.WithDescription("List diary entries, newest first."),
	mcp.WithNumber("limit", mcp.Description("Entries per page (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Entries to skip.")),
)

var weeksToolDef = mcp.NewTool("diary_weeks",
	mcp.WithDescription("Diary entries grouped by Monday-to-Sunday week, newest week first, "+
		"with the average rating of each emotion per week."),
	mcp.WithNumber("limit", mcp.Description("Weeks per page (default 8, max 104).")),
	mcp.WithNumber("offset", mcp.Description("Weeks to skip.")),
)

var recentToolDef = mcp.NewTool("diary_recent",
	mcp.WithDescription("The most recently created entries, newest first. "+
		"This is a count of entries, not a calendar window."),
	mcp.WithNumber("count", mcp.Description("Number of entries (default: report_count, usually 7).")),
)

var reportToolDef = mcp.NewTool("diary_report",
	mcp.WithDescription("Format the most recent entries, oldest first, as an email report "+
		"and return its subject, body and a mailto: link. Fails with EMPTY_SELECTION when the diary is empty."),
	mcp.WithNumber("count", mcp.Description("Number of entries (default: report_count, usually 7).")),
	mcp.WithString("recipient", mcp.Description("Email address; defaults to report_recipient.")),
	mcp.WithString("recipient_label", mcp.Description("Name used in the greeting; defaults to report_recipient_label.")),
)

var emotionsToolDef = mcp.NewTool("diary_emotions",
	mcp.WithDescription("List the configured emotions and the labels of the 1-10 rating scale."),
)

var debugToolDef = mcp.NewTool("diary_debug",
	mcp.WithDescription("Show the raw stored diary payload and how many entries it holds."),
)

var exportToolDef = mcp.NewTool("diary_export",
	mcp.WithDescription("Export all entries to a JSONL file (default ~/.moodlog/exports)."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path; must be directly in an allowed directory.")),
)

var importToolDef = mcp.NewTool("diary_import",
	mcp.WithDescription("Import entries from a JSONL export or a diary saved as a JSON array."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl or .json path.")),
	mcp.WithString("mode",
		mcp.Description("error (default): import nothing if any record fails. skip: import what can be imported."),
		mcp.Enum("error", "skip")),
)
