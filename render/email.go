package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ruralbankph/loan_inquiry_relay/models"
)

var grouped = message.NewPrinter(language.English)

// GroupDigits formats a whole-number string with thousands separators.
// Anything that does not parse as an integer passes through unchanged, so a
// free-text amount never breaks composition.
func GroupDigits(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return grouped.Sprintf("%d", n)
}

// SizeLabel renders a byte count for display: whole kilobytes below 1 MiB,
// megabytes to two decimals at or above it.
func SizeLabel(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	}
	return fmt.Sprintf("%d KB", int64(math.Round(float64(n)/1024)))
}

// escape HTML-escapes the five characters that matter for markup injection.
func escape(s string) string {
	return html.EscapeString(s)
}

// multiline escapes first and only then turns newlines into <br/>, so an
// injected tag in user input can never survive the substitution.
func multiline(s string) string {
	out := escape(s)
	out = strings.ReplaceAll(out, "\r\n", "<br/>")
	out = strings.ReplaceAll(out, "\n", "<br/>")
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// HTMLBody renders the inquiry as the primary email body. Every
// user-supplied value is entity-escaped before insertion.
func HTMLBody(p models.SubmissionPayload, att *models.Attachment) string {
	var b strings.Builder
	b.WriteString("<h2>New Loan Application Inquiry</h2>\n")
	b.WriteString(`<table cellpadding="6" cellspacing="0" border="0">` + "\n")

	row := func(label, value string) {
		b.WriteString("<tr><td><strong>" + label + "</strong></td><td>" + value + "</td></tr>\n")
	}

	row("Reference No.", escape(orDash(p.ReferenceNo)))
	row("Full Name", escape(p.FullName))
	row("Email", escape(p.Email))
	row("Mobile", escape(p.Mobile))
	row("School", escape(p.School))
	row("Station", escape(orDash(p.Station)))
	row("Loan Amount", escape(GroupDigits(p.LoanAmount)))
	row("Term (months)", escape(p.TermMonths))
	row("Remarks", multiline(orDash(p.Remarks)))
	row("Submitted At", escape(orDash(p.SubmittedAt)))
	if att != nil {
		row("Attachment", escape(att.Name)+" ("+escape(att.SizeLabel)+")")
	}

	b.WriteString("</table>\n")
	return b.String()
}

// TextBody renders the same inquiry as plain text, unescaped and
// newline-preserving, for use as the recovery fallback.
func TextBody(p models.SubmissionPayload, att *models.Attachment) string {
	var b strings.Builder
	b.WriteString("New Loan Application Inquiry\n\n")

	line := func(label, value string) {
		b.WriteString(label + ": " + value + "\n")
	}

	line("Reference No.", orDash(p.ReferenceNo))
	line("Full Name", p.FullName)
	line("Email", p.Email)
	line("Mobile", p.Mobile)
	line("School", p.School)
	line("Station", orDash(p.Station))
	line("Loan Amount", GroupDigits(p.LoanAmount))
	line("Term (months)", p.TermMonths)
	line("Remarks", orDash(p.Remarks))
	line("Submitted At", orDash(p.SubmittedAt))
	if att != nil {
		line("Attachment", att.Name+" ("+att.SizeLabel+")")
	}

	return b.String()
}
