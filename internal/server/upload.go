package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"postergen/internal/form"
	"postergen/internal/session"

	"github.com/gin-gonic/gin"
)

// readUpload reads the multipart field "file" into a blob. With imageOnly
// set, non-image content is rejected.
func (s *Server) readUpload(c *gin.Context, imageOnly bool) (*form.Blob, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: multipart field \"file\": %v", errBadRequest, err)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", errBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", errBadRequest, err)
	}

	// Browsers send octet-stream for unknown types; let the blob sniff it.
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	b := form.NewBlob(fh.Filename, data, mimeType)
	if imageOnly && !strings.HasPrefix(b.MimeType(), "image/") {
		return nil, fmt.Errorf("%w: %s is %s", session.ErrNotImage, fh.Filename, b.MimeType())
	}
	return b, nil
}
