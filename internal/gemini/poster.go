package gemini

import (
	"context"
	"fmt"

	"postergen/internal/form"
	"postergen/internal/logging"
	"postergen/internal/prompt"
	"postergen/internal/usage"

	"google.golang.org/genai"
)

// GeneratePoster sends the compiled parts to the poster model and returns
// the first image in the response. Every failure wraps ErrGeneration.
func (c *Client) GeneratePoster(ctx context.Context, compiled *prompt.Compiled, ratio form.AspectRatio) (*Image, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	timer := logging.StartTimer(logging.CategoryAPI, "generate poster")
	defer timer.Stop()

	logging.API("generate poster: model=%s ratio=%s size=%s attachments=%d", c.models.Poster, ratio, c.models.ImageSize, len(compiled.Attachments))

	resp, err := c.gen.GenerateContent(ctx, c.models.Poster, contents(compiled.Parts()), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(ratio),
			ImageSize:   c.models.ImageSize,
		},
	})
	if err != nil {
		logging.APIError("generate poster failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	c.track(c.models.Poster, usage.OperationPoster, resp)

	img, err := firstImage(resp)
	if err != nil {
		logging.APIError("generate poster returned no image")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	logging.API("poster generated: %s, %d bytes", img.MimeType, len(img.Data))
	return img, nil
}
