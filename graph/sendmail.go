// Package graph sends mail through the Microsoft Graph API, authenticating
// with the OAuth2 client-credentials flow against Azure AD.
package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ruralbankph/loan_inquiry_relay/inits"
	"github.com/ruralbankph/loan_inquiry_relay/models"
)

// Message is one outbound email. ReplyTo carries the applicant's address so
// staff can answer the inquiry directly.
type Message struct {
	Subject    string
	HTMLBody   string
	ReplyTo    string
	Attachment *models.Attachment
}

// Mailer abstracts the upstream so the relay core and its tests do not
// depend on Graph being reachable.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// UpstreamError is a non-2xx answer from the Graph sendMail endpoint. Body
// is surfaced verbatim for operator debugging.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("graph sendMail failed (%d): %s", e.StatusCode, e.Body)
}

// Client sends mail as the configured sender to the configured recipient.
type Client struct {
	cfg        *inits.Config
	httpClient *http.Client
	tokens     oauth2.TokenSource
}

func NewClient(cfg *inits.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		tokens:     newTokenSource(cfg),
	}
}

type sendMailRequest struct {
	Message         messagePayload `json:"message"`
	SaveToSentItems bool           `json:"saveToSentItems"`
}

type messagePayload struct {
	Subject      string           `json:"subject"`
	Body         itemBody         `json:"body"`
	ToRecipients []recipient      `json:"toRecipients"`
	ReplyTo      []recipient      `json:"replyTo,omitempty"`
	Attachments  []fileAttachment `json:"attachments,omitempty"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type fileAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

// Send delivers one message. One attempt, no retry: a failure is the
// caller's to report.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c.cfg.TenantID == "" || c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return ErrMissingCredentials
	}

	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("acquiring graph token: %w", err)
	}

	payload := sendMailRequest{
		Message: messagePayload{
			Subject: msg.Subject,
			Body:    itemBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients: []recipient{
				{EmailAddress: emailAddress{Address: c.cfg.Recipient}},
			},
		},
		SaveToSentItems: false,
	}
	if msg.ReplyTo != "" {
		payload.Message.ReplyTo = []recipient{
			{EmailAddress: emailAddress{Address: msg.ReplyTo}},
		}
	}
	if msg.Attachment != nil {
		payload.Message.Attachments = []fileAttachment{{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         msg.Attachment.Name,
			ContentType:  msg.Attachment.ContentType,
			ContentBytes: base64.StdEncoding.EncodeToString(msg.Attachment.Content),
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1.0/users/%s/sendMail", c.cfg.GraphBaseURL, c.cfg.Sender)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream, _ := io.ReadAll(resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(upstream)}
	}
	return nil
}
