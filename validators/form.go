package validators

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ruralbankph/loan_inquiry_relay/models"
	"github.com/ruralbankph/loan_inquiry_relay/render"
)

var (
	ErrMissingFields         = errors.New("Missing required fields.")
	ErrInvalidAttachmentType = errors.New("Invalid attachment type. Only PDF/JPG/PNG allowed.")
	ErrAttachmentTooLarge    = errors.New("Attachment exceeds the maximum allowed size.")
)

var validate = validator.New()

// BuildPayload lifts raw form values into the typed payload: missing keys
// become empty strings, everything is whitespace-trimmed, and the result is
// never mutated afterwards.
func BuildPayload(fields map[string]string) models.SubmissionPayload {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}
	return models.SubmissionPayload{
		ReferenceNo: get("referenceNo"),
		FullName:    get("fullName"),
		Email:       get("email"),
		Mobile:      get("mobile"),
		School:      get("school"),
		Station:     get("station"),
		LoanAmount:  get("loanAmount"),
		TermMonths:  get("termMonths"),
		Remarks:     get("remarks"),
		SubmittedAt: get("submittedAt"),
		Website:     get("website"),
	}
}

// CheckRequired enforces the all-or-nothing rule over the payload's
// required fields.
func CheckRequired(p models.SubmissionPayload) error {
	if err := validate.Struct(p); err != nil {
		return ErrMissingFields
	}
	return nil
}

// ValidateProcessAttachment checks the declared MIME type against the
// allow-list and the size against the ceiling, then reads the part fully
// into memory. MIME and size violations are client errors; a failed read is
// not and is reported as-is.
func ValidateProcessAttachment(fh *multipart.FileHeader, allowed map[string]bool, maxSize int64) (*models.Attachment, error) {
	if !allowed[declaredMimeType(fh)] {
		return nil, ErrInvalidAttachmentType
	}
	if fh.Size > maxSize {
		return nil, ErrAttachmentTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	name := fh.Filename
	if name == "" {
		name = "attachment"
	}
	return &models.Attachment{
		Name:        name,
		ContentType: declaredMimeType(fh),
		SizeLabel:   render.SizeLabel(int64(len(data))),
		Content:     data,
	}, nil
}

// declaredMimeType prefers the part's Content-Type header, falling back to
// the filename extension when the header is absent or generic.
func declaredMimeType(fh *multipart.FileHeader) string {
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(filepath.Ext(fh.Filename)); detected != "" {
			mimeType = detected
		}
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
