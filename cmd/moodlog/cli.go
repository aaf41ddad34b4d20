package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/ops"
	"github.com/hpungsan/moodlog/internal/web"
)

// maxStdinBytes caps notes read from stdin.
const maxStdinBytes = 4 * ops.MaxNotesChars

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "moodlog",
		Usage:   "Daily mood diary",
		Version: Version,
		Commands: []*cli.Command{
			saveCmd(deps),
			getCmd(deps),
			listCmd(deps),
			weeksCmd(deps),
			recentCmd(deps),
			reportCmd(deps),
			emotionsCmd(deps),
			debugCmd(deps),
			exportCmd(deps),
			importCmd(deps),
			webCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// saveCmd creates the save command.
func saveCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:    "save",
		Aliases: []string{"log"},
		Usage:   "Save a diary entry (unrated emotions default to 5)",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Emotion rating as Name=1..10 (repeatable)"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Free-text notes; \"-\" reads them from stdin"},
		},
		Action: func(c *cli.Context) error {
			ratings, err := parseRatings(c.StringSlice("rating"))
			if err != nil {
				return outputError(err)
			}

			notes := c.String("notes")
			if notes == "-" {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("--notes - requires notes piped via stdin"))
				}
				notes, err = readStdin(maxStdinBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
			}

			output, err := ops.Save(c.Context, deps, ops.SaveInput{
				Ratings: ratings,
				Notes:   notes,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one entry by id",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Get(c.Context, deps, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum entries to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Entries to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, deps, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// weeksCmd creates the weeks command.
func weeksCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "weeks",
		Usage: "Entries grouped by Monday-to-Sunday week with weekly averages",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultWeeksLimit, Usage: "Maximum weeks to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Weeks to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Weeks(c.Context, deps, ops.WeeksInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "The most recently created entries",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Usage: "Number of entries (default: report_count)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Recent(c.Context, deps, ops.RecentInput{Count: c.Int("count")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Report output formats.
const (
	reportFormatJSON   = "json"
	reportFormatText   = "text"
	reportFormatMailto = "mailto"
)

// reportCmd creates the report command.
func reportCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Format the most recent entries as an email report",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Usage: "Number of entries (default: report_count)"},
			&cli.StringFlag{Name: "to", Usage: "Recipient email (default: report_recipient)"},
			&cli.StringFlag{Name: "label", Usage: "Name used in the greeting (default: report_recipient_label)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: reportFormatJSON, Usage: "Output: json|text|mailto"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			switch format {
			case reportFormatJSON, reportFormatText, reportFormatMailto:
			default:
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown format %q (want json, text or mailto)", format)))
			}

			output, err := ops.Report(c.Context, deps, ops.ReportInput{
				Count:          c.Int("count"),
				Recipient:      c.String("to"),
				RecipientLabel: c.String("label"),
			})
			if err != nil {
				return outputError(err)
			}

			switch format {
			case reportFormatText:
				_, err = fmt.Fprintf(os.Stdout, "Subject: %s\n\n%s\n", output.Subject, output.Body)
				return err
			case reportFormatMailto:
				_, err = fmt.Fprintln(os.Stdout, output.MailtoURI)
				return err
			}
			return outputJSON(output)
		},
	}
}

// emotionsCmd creates the emotions command.
func emotionsCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "emotions",
		Usage: "List the configured emotions and the rating scale",
		Action: func(_ *cli.Context) error {
			return outputJSON(ops.Emotions(deps))
		},
	}
}

// debugCmd creates the debug command.
func debugCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "debug",
		Usage: "Show the raw stored payload",
		Action: func(c *cli.Context) error {
			output, err := ops.Debug(c.Context, deps)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all entries to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.moodlog/exports/diary-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, deps, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import entries from a JSONL export or a JSON array",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Failure mode: error|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, deps, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the diary web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8420, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
			}

			srv, err := web.NewServer(deps, Version, c.String("bind"), port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, deps.Log)
		},
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	dErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
}

// parseRatings parses repeated Name=value flags.
func parseRatings(pairs []string) (map[string]int, error) {
	ratings := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("rating %q must look like Name=value", pair))
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("rating for %q must be a whole number", name))
		}
		ratings[name] = v
	}
	return ratings, nil
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin, up to limit bytes.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
