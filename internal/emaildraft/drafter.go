package emaildraft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/hours-portal/internal/submission"
)

const (
	missingKeyBody = "API Key missing. Please copy the data from the dashboard manually."
	errorBody      = "Error generating AI summary. Please attach the hours report manually."
	emptyBody      = "Could not generate email body."
)

// TextGenerator turns a prompt into free text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Drafter writes the submission email. It never returns an error: a
// missing generator or a failed call yields fixed fallback content.
type Drafter struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewDrafter accepts a nil generator, meaning no API key is configured.
func NewDrafter(generator TextGenerator, logger *slog.Logger) *Drafter {
	return &Drafter{generator: generator, logger: logger}
}

func (d *Drafter) Draft(ctx context.Context, req submission.DraftRequest) submission.Draft {
	label := req.WeekLabel
	if d.generator == nil {
		d.logger.Warn("email drafting is not configured, using fallback")
		return submission.Draft{
			Subject: fmt.Sprintf("Hours Submission - Week of %s", label),
			Body:    missingKeyBody,
		}
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		d.logger.Warn("failed to build drafting prompt", "error", err)
		return errorDraft(label)
	}

	text, err := d.generator.GenerateText(ctx, prompt)
	if err != nil {
		d.logger.Warn("email drafting failed", "error", err)
		return errorDraft(label)
	}

	body := strings.TrimSpace(text)
	if body == "" {
		body = emptyBody
	}
	return submission.Draft{
		Subject:   fmt.Sprintf("Weekly Hours Submission - %s - %s", label, req.Supervisor.FullName()),
		Body:      body,
		Generated: true,
	}
}

func errorDraft(label string) submission.Draft {
	return submission.Draft{
		Subject: fmt.Sprintf("Weekly Hours Submission - %s", label),
		Body:    errorBody,
	}
}

// BuildPrompt embeds the records as indented JSON.
func BuildPrompt(req submission.DraftRequest) (string, error) {
	data, err := json.MarshalIndent(req.Records, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an administrative assistant for Finantx, Inc.\n")
	b.WriteString("Create a professional email draft for submitting weekly contractor hours.\n\n")
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Supervisor: %s\n", req.Supervisor.FullName())
	fmt.Fprintf(&b, "- Week Starting: %s\n", req.WeekLabel)
	b.WriteString("- Recipient: Super Admin\n\n")
	b.WriteString("Data to summarize:\n")
	b.Write(data)
	b.WriteString("\n\nRequirements:\n")
	b.WriteString("1. Subject Line: Professional, including \"Week of [Date]\" and Department names.\n")
	b.WriteString("2. Body: Polite, concise. Include a summary table in plain text format (using | for columns or careful spacing) showing Employee Name, Department, and Total Hours.\n")
	b.WriteString("3. Mention that the full data has been recorded in the company records.\n")
	b.WriteString("4. Do not include placeholders like \"[Your Name]\". Use the supervisor's name provided.\n")
	return b.String(), nil
}
