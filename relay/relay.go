// Package relay implements the submission pipeline: normalize, reject spam,
// validate, compose, and forward one loan inquiry as an email. It is
// transport-agnostic; handler.go adapts it to HTTP.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ruralbankph/loan_inquiry_relay/graph"
	"github.com/ruralbankph/loan_inquiry_relay/inits"
	"github.com/ruralbankph/loan_inquiry_relay/models"
	"github.com/ruralbankph/loan_inquiry_relay/operations"
	"github.com/ruralbankph/loan_inquiry_relay/render"
	"github.com/ruralbankph/loan_inquiry_relay/validators"
)

// Result is the relay's terminal state for one submission, ready to be
// written as an HTTP response.
type Result struct {
	Status int
	Body   interface{}
}

type Relay struct {
	cfg    *inits.Config
	mailer graph.Mailer
}

func New(cfg *inits.Config, mailer graph.Mailer) *Relay {
	return &Relay{cfg: cfg, mailer: mailer}
}

func ok() Result {
	return Result{Status: http.StatusOK, Body: models.Ack{OK: true}}
}

func clientError(msg string) Result {
	return Result{Status: http.StatusBadRequest, Body: models.ErrorResponse{Message: msg}}
}

func serverError(msg string, err error, fallback string) Result {
	return Result{
		Status: http.StatusInternalServerError,
		Body:   models.SendFailure{Message: msg, Error: err.Error(), Fallback: fallback},
	}
}

// Handle runs one submission through the pipeline. Every outcome is a
// single Result; nothing is retried or queued.
func (r *Relay) Handle(ctx context.Context, form models.FormData) Result {
	payload := validators.BuildPayload(form.Fields)

	// Bots that fill the hidden field get the same acknowledgment as a
	// real applicant so the trap stays invisible.
	if payload.Website != "" {
		slog.Info("honeypot tripped, submission dropped", "ip", form.RemoteIP)
		return ok()
	}

	if err := validators.CheckRequired(payload); err != nil {
		return clientError(validators.ErrMissingFields.Error())
	}

	// Captcha verification costs an upstream call, so it runs only after
	// the free checks have passed.
	if r.cfg.TurnstileSecret != "" {
		token := form.Fields["cf-turnstile-response"]
		if err := validators.ValidateTurnstileToken(ctx, r.cfg, token, form.RemoteIP); err != nil {
			if errors.Is(err, validators.ErrCaptchaFailed) {
				return clientError(validators.ErrCaptchaFailed.Error())
			}
			return serverError("Captcha verification unavailable.", err, render.TextBody(payload, nil))
		}
	}

	if seen, err := operations.SeenRecently(payload.Email); err != nil {
		slog.Error("ledger lookup failed", "error", err)
	} else if seen {
		slog.Info("duplicate submission dropped", "email", payload.Email)
		return ok()
	}

	var att *models.Attachment
	if form.File != nil {
		var err error
		att, err = validators.ValidateProcessAttachment(form.File, r.cfg.AllowedMimeSet(), r.cfg.MaxAttachmentBytes)
		if err != nil {
			switch {
			case errors.Is(err, validators.ErrInvalidAttachmentType):
				return clientError(validators.ErrInvalidAttachmentType.Error())
			case errors.Is(err, validators.ErrAttachmentTooLarge):
				return clientError(validators.ErrAttachmentTooLarge.Error())
			default:
				return serverError("Could not process the attachment.", err, render.TextBody(payload, nil))
			}
		}
	}

	htmlBody := render.HTMLBody(payload, att)
	textBody := render.TextBody(payload, att)

	msg := graph.Message{
		Subject:    r.cfg.Subject,
		HTMLBody:   htmlBody,
		ReplyTo:    payload.Email,
		Attachment: att,
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		slog.Error("mail send failed", "email", payload.Email, "error", err)
		return serverError("Failed to send the application email.", err, textBody)
	}

	if err := operations.RecordSubmission(payload.Email, r.cfg.DuplicateCooldown); err != nil {
		slog.Error("ledger insert failed", "error", err)
	}

	slog.Info("submission relayed", "email", payload.Email, "attachment", att != nil)
	return ok()
}
