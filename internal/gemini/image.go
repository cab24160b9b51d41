package gemini

import (
	"mime"
	"strings"

	"postergen/internal/form"

	"google.golang.org/genai"
)

// Image is an image returned by a model.
type Image struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"-"`
}

// DataURL encodes the image for display or download.
func (i *Image) DataURL() string {
	return form.DataURL(i.MimeType, i.Data)
}

// Extension returns a file extension for the image type, ".png" if unknown.
func (i *Image) Extension() string {
	switch strings.ToLower(i.MimeType) {
	case "image/png", "":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(i.MimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

// Blob wraps the image as a form blob, e.g. to use it as a background.
func (i *Image) Blob(name string) *form.Blob {
	return form.NewBlob(name, i.Data, i.MimeType)
}

// firstImage returns the first inline image part of the first candidate.
func firstImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mt := part.InlineData.MIMEType
			if mt == "" {
				mt = "image/png"
			}
			return &Image{MimeType: mt, Data: part.InlineData.Data}, nil
		}
	}
	return nil, ErrNoImage
}
