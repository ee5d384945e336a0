package relay

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruralbankph/loan_inquiry_relay/models"
	"github.com/ruralbankph/loan_inquiry_relay/validators"
)

// makeTestFile builds a FileHeader by round-tripping a multipart body
// through the stdlib parser, the same way a real upload arrives.
func makeTestFile(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="attachment"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	headers := req.MultipartForm.File["attachment"]
	require.Len(t, headers, 1)
	return headers[0]
}

// unreadableTestFile has neither in-memory content nor a backing temp
// file, so opening it fails.
func unreadableTestFile(filename, contentType string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
		Size:     10,
	}
}

func payloadFromFields(fields map[string]string) models.SubmissionPayload {
	return validators.BuildPayload(fields)
}
