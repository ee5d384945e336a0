package models

import "mime/multipart"

// SubmissionPayload holds the normalized loan inquiry form values. Fields
// tagged required must be non-empty after trimming for the submission to be
// relayed; the rest are optional display fields.
type SubmissionPayload struct {
	ReferenceNo string
	FullName    string `validate:"required"`
	Email       string `validate:"required"`
	Mobile      string `validate:"required"`
	School      string `validate:"required"`
	Station     string
	LoanAmount  string `validate:"required"`
	TermMonths  string `validate:"required"`
	Remarks     string
	SubmittedAt string
	Website     string // honeypot, must stay empty
}

// Attachment is the processed file part of a submission. Content is held
// only until it is base64-encoded into the outbound message.
type Attachment struct {
	Name        string
	ContentType string
	SizeLabel   string
	Content     []byte
}

// FormData is the transport-agnostic input to the relay: raw form values
// plus the optional file part. The JSON deployment produces one with a nil
// File.
type FormData struct {
	Fields   map[string]string
	File     *multipart.FileHeader
	RemoteIP string
}

// SubmissionBody is the JSON variant of the inbound contract.
type SubmissionBody struct {
	ReferenceNo string `json:"referenceNo"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	School      string `json:"school"`
	Station     string `json:"station"`
	LoanAmount  string `json:"loanAmount"`
	TermMonths  string `json:"termMonths"`
	Remarks     string `json:"remarks"`
	SubmittedAt string `json:"submittedAt"`
	Website     string `json:"website"`
}

// Fields flattens the JSON body into the same map shape the multipart
// deployment produces.
func (b SubmissionBody) Fields() map[string]string {
	return map[string]string{
		"referenceNo": b.ReferenceNo,
		"fullName":    b.FullName,
		"email":       b.Email,
		"mobile":      b.Mobile,
		"school":      b.School,
		"station":     b.Station,
		"loanAmount":  b.LoanAmount,
		"termMonths":  b.TermMonths,
		"remarks":     b.Remarks,
		"submittedAt": b.SubmittedAt,
		"website":     b.Website,
	}
}

// Submission is a ledger record of a relayed inquiry, kept in memory only
// long enough to suppress rapid duplicates.
type Submission struct {
	Email  string
	Expiry string
}
