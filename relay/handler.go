package relay

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ruralbankph/loan_inquiry_relay/models"
)

var formKeys = []string{
	"referenceNo", "fullName", "email", "mobile", "school", "station",
	"loanAmount", "termMonths", "remarks", "submittedAt", "website",
	"cf-turnstile-response",
}

// Handler adapts HTTP to the pipeline. Both inbound encodings land in the
// same FormData: multipart when an attachment may be present, bare JSON for
// the attachment-less deployment.
func Handler(r *Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, parseErr := decode(c, r.cfg.MaxRequestBytes())
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Malformed request body."})
			return
		}

		res := r.Handle(c.Request.Context(), form)
		c.JSON(res.Status, res.Body)
	}
}

func decode(c *gin.Context, maxBytes int64) (models.FormData, error) {
	form := models.FormData{RemoteIP: c.ClientIP()}

	// Cap the whole body independently of the attachment ceiling before
	// anything reads it.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body models.SubmissionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			return form, err
		}
		form.Fields = body.Fields()
		return form, nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return form, err
	}

	fields := make(map[string]string, len(formKeys))
	for _, key := range formKeys {
		fields[key] = c.PostForm(key)
	}
	form.Fields = fields

	if headers := mf.File["attachment"]; len(headers) > 0 {
		form.File = headers[0]
	}
	return form, nil
}
