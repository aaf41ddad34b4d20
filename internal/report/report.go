// Package report renders a selection of entries as a plain-text email report.
package report

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/hpungsan/moodlog/internal/entry"
)

const (
	timestampLayout = "Monday, January 2, 2006 at 3:04 PM"
	dayLayout       = "Monday, January 2, 2006"
	rangeLayout     = "Jan 2, 2006"
)

// Report is a rendered email subject and body.
type Report struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Format renders entries, given newest first, as a report listing them oldest
// first. Emotions are listed in catalog order. Callers handle the empty case;
// Format still returns a well-formed report for zero entries.
func Format(entries []entry.Entry, recipientLabel string, catalog entry.Catalog) Report {
	ordered := slices.Clone(entries)
	entry.SortOldestFirst(ordered)

	var b strings.Builder
	if label := strings.TrimSpace(recipientLabel); label != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", label)
	} else {
		b.WriteString("Hi,\n\n")
	}
	fmt.Fprintf(&b, "Here %s my last %s from my mood diary.\n", verb(len(ordered)), countNoun(len(ordered)))

	for _, e := range ordered {
		b.WriteString("\n")
		b.WriteString(heading(e))
		b.WriteString("\n")
		for _, name := range ratingNames(e, catalog) {
			fmt.Fprintf(&b, "  %s: %d/10\n", name, e.Ratings[name])
		}
		if notes := strings.TrimSpace(e.Notes); notes != "" {
			b.WriteString("  Notes:\n")
			for _, line := range strings.Split(notes, "\n") {
				fmt.Fprintf(&b, "    %s\n", strings.TrimRight(line, "\r"))
			}
		}
	}

	return Report{
		Subject: subject(ordered),
		Body:    b.String(),
	}
}

// MailtoURI builds a mailto: URI with percent-encoded subject and body.
// Line breaks are encoded as CRLF.
func MailtoURI(to string, r Report) string {
	body := strings.ReplaceAll(strings.ReplaceAll(r.Body, "\r\n", "\n"), "\n", "\r\n")
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		url.PathEscape(strings.TrimSpace(to)), escape(r.Subject), escape(body))
}

// escape percent-encodes s for a mailto query value, with spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func subject(ordered []entry.Entry) string {
	s := fmt.Sprintf("Mood diary: last %s", countNoun(len(ordered)))
	if len(ordered) == 0 {
		return s
	}
	first, last := ordered[0].Date, ordered[len(ordered)-1].Date
	if first == last {
		return fmt.Sprintf("%s (%s)", s, first.In(time.UTC).Format(rangeLayout))
	}
	return fmt.Sprintf("%s (%s - %s)", s, first.In(time.UTC).Format(rangeLayout), last.In(time.UTC).Format(rangeLayout))
}

// heading is the human-readable timestamp line of one entry. When the logical
// day differs from the calendar day of creation, the logical day is noted.
func heading(e entry.Entry) string {
	if e.CreatedAt.IsZero() {
		return e.Date.In(time.UTC).Format(dayLayout)
	}
	h := e.CreatedAt.Format(timestampLayout)
	if !e.Date.IsZero() && entry.DayOf(e.CreatedAt) != e.Date {
		h += fmt.Sprintf(" (counted toward %s)", e.Date.In(time.UTC).Format(dayLayout))
	}
	return h
}

// ratingNames returns the names rated in e: catalog order first, then any
// names the catalog no longer knows, alphabetically.
func ratingNames(e entry.Entry, catalog entry.Catalog) []string {
	names := make([]string, 0, len(e.Ratings))
	known := make(map[string]bool, catalog.Len())
	for _, name := range catalog.Names() {
		known[name] = true
		if _, ok := e.Ratings[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range e.Ratings {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

func countNoun(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

func verb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
