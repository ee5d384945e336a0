package validators

import (
	"context"
	"errors"
	"log/slog"

	"github.com/9ssi7/turnstile"

	"github.com/ruralbankph/loan_inquiry_relay/inits"
)

var ErrCaptchaFailed = errors.New("Captcha verification failed.")

// ValidateTurnstileToken verifies a Cloudflare Turnstile token. Callers
// skip this entirely when no secret is configured, so the bare honeypot
// contract is unchanged by default.
func ValidateTurnstileToken(ctx context.Context, cfg *inits.Config, token, ip string) error {
	if token == "" {
		return ErrCaptchaFailed
	}
	if cfg.TurnstileTestToken != "" && token == cfg.TurnstileTestToken {
		slog.Debug("turnstile test token used")
		return nil
	}

	srv := turnstile.New(turnstile.Config{Secret: cfg.TurnstileSecret})
	ok, err := srv.Verify(ctx, token, ip)
	if err != nil {
		slog.Error("turnstile verification error", "error", err)
		return err
	}
	if !ok {
		return ErrCaptchaFailed
	}
	return nil
}
