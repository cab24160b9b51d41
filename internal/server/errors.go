package server

import (
	"context"
	"errors"
	"net/http"

	"postergen/internal/form"
	"postergen/internal/gemini"
	"postergen/internal/logging"
	"postergen/internal/session"

	"github.com/gin-gonic/gin"
)

// errBadRequest marks malformed request bodies and uploads.
var errBadRequest = errors.New("bad request")

// errTooLarge marks request bodies over the upload limit.
var errTooLarge = errors.New("upload too large")

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, form.ErrNotFound), errors.Is(err, session.ErrNoPoster):
		return http.StatusNotFound
	case errors.Is(err, gemini.ErrGeneration),
		errors.Is(err, gemini.ErrExtraction),
		errors.Is(err, gemini.ErrBackgroundClean):
		return http.StatusBadGateway
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errBadRequest),
		errors.Is(err, form.ErrSpeakerLimit),
		errors.Is(err, form.ErrTopicLimit),
		errors.Is(err, form.ErrDuplicateTopic),
		errors.Is(err, form.ErrUnknownLogoSlot),
		errors.Is(err, form.ErrInvalidAspectRatio),
		errors.Is(err, session.ErrNoUpload),
		errors.Is(err, session.ErrNotImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes {"error": msg} with the status mapped from err.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= 500 {
		logging.APIError("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
