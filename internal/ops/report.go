package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/report"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	// Count is the number of most recent entries to include. Zero means report_count.
	Count int `validate:"min=0,max=365"`

	// Recipient overrides the configured report_recipient.
	Recipient string `validate:"omitempty,email"`

	// RecipientLabel overrides the configured report_recipient_label.
	RecipientLabel string `validate:"max=64"`
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURI string `json:"mailto_uri"`
	Recipient string `json:"recipient,omitempty"`
	Count     int    `json:"count"`
}

// Report formats the N most recent entries, oldest first, as an email report
// with a pre-filled mailto: URI. Returns EMPTY_SELECTION if there are no entries.
func Report(ctx context.Context, deps Deps, input ReportInput) (*ReportOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	selected := selectRecent(ctx, deps, input.Count)
	if len(selected) == 0 {
		return nil, errors.NewEmptySelection()
	}

	cfg := deps.cfg()
	recipient := firstNonEmpty(input.Recipient, cfg.ReportRecipient)
	label := firstNonEmpty(input.RecipientLabel, cfg.ReportRecipientLabel)

	r := report.Format(selected, label, deps.catalog())
	return &ReportOutput{
		Subject:   r.Subject,
		Body:      r.Body,
		MailtoURI: report.MailtoURI(recipient, r),
		Recipient: recipient,
		Count:     len(selected),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
