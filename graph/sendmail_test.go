package graph

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralbankph/loan_inquiry_relay/inits"
	"github.com/ruralbankph/loan_inquiry_relay/models"
)

func tokenServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"bad secret"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}))
}

func testConfig(loginURL, graphURL string) *inits.Config {
	return &inits.Config{
		TenantID:     "tenant-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Sender:       "loans@bank.example",
		Recipient:    "applications@bank.example",
		LoginBaseURL: loginURL,
		GraphBaseURL: graphURL,
	}
}

func TestSendPostsGraphMessage(t *testing.T) {
	login := tokenServer(t, http.StatusOK)
	defer login.Close()

	var got sendMailRequest
	var gotAuth, gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer upstream.Close()

	client := NewClient(testConfig(login.URL, upstream.URL))
	content := []byte("%PDF-1.4 fake")
	err := client.Send(context.Background(), Message{
		Subject:  "New Loan Application Inquiry",
		HTMLBody: "<h2>hello</h2>",
		ReplyTo:  "juan@example.com",
		Attachment: &models.Attachment{
			Name:        "payslip.pdf",
			ContentType: "application/pdf",
			Content:     content,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/v1.0/users/loans@bank.example/sendMail", gotPath)

	assert.Equal(t, "New Loan Application Inquiry", got.Message.Subject)
	assert.Equal(t, "HTML", got.Message.Body.ContentType)
	assert.Equal(t, "<h2>hello</h2>", got.Message.Body.Content)
	require.Len(t, got.Message.ToRecipients, 1)
	assert.Equal(t, "applications@bank.example", got.Message.ToRecipients[0].EmailAddress.Address)
	require.Len(t, got.Message.ReplyTo, 1)
	assert.Equal(t, "juan@example.com", got.Message.ReplyTo[0].EmailAddress.Address)
	assert.False(t, got.SaveToSentItems)

	require.Len(t, got.Message.Attachments, 1)
	att := got.Message.Attachments[0]
	assert.Equal(t, "#microsoft.graph.fileAttachment", att.ODataType)
	assert.Equal(t, "payslip.pdf", att.Name)
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), att.ContentBytes)
}

func TestSendOmitsAttachmentsWhenAbsent(t *testing.T) {
	login := tokenServer(t, http.StatusOK)
	defer login.Close()

	var raw map[string]json.RawMessage
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Message map[string]json.RawMessage `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		raw = envelope.Message
		w.WriteHeader(http.StatusAccepted)
	}))
	defer upstream.Close()

	client := NewClient(testConfig(login.URL, upstream.URL))
	require.NoError(t, client.Send(context.Background(), Message{Subject: "s", HTMLBody: "<p>b</p>"}))

	_, present := raw["attachments"]
	assert.False(t, present)
}

func TestSendFailsWhenTokenEndpointErrors(t *testing.T) {
	login := tokenServer(t, http.StatusInternalServerError)
	defer login.Close()

	client := NewClient(testConfig(login.URL, "http://graph.invalid"))
	err := client.Send(context.Background(), Message{Subject: "s", HTMLBody: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring graph token")
}

func TestSendSurfacesUpstreamErrorBody(t *testing.T) {
	login := tokenServer(t, http.StatusOK)
	defer login.Close()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorAccessDenied"}}`))
	}))
	defer upstream.Close()

	client := NewClient(testConfig(login.URL, upstream.URL))
	err := client.Send(context.Background(), Message{Subject: "s", HTMLBody: "b"})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusForbidden, upstreamErr.StatusCode)
	assert.Equal(t, `{"error":{"code":"ErrorAccessDenied"}}`, upstreamErr.Body)
}

func TestSendRequiresCredentials(t *testing.T) {
	cfg := testConfig("http://login.invalid", "http://graph.invalid")
	cfg.ClientSecret = ""

	client := NewClient(cfg)
	err := client.Send(context.Background(), Message{Subject: "s", HTMLBody: "b"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestTokenIsReusedAcrossSends(t *testing.T) {
	tokenCalls := 0
	login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer login.Close()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer upstream.Close()

	client := NewClient(testConfig(login.URL, upstream.URL))
	for i := 0; i < 3; i++ {
		require.NoError(t, client.Send(context.Background(), Message{Subject: "s", HTMLBody: "b"}))
	}
	assert.Equal(t, 1, tokenCalls)
}
