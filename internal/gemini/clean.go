package gemini

import (
	"context"
	"fmt"

	"postergen/internal/logging"
	"postergen/internal/prompt"
	"postergen/internal/usage"
)

const cleanInstruction = `I provide an event poster or design.
Please recreate the **BACKGROUND ONLY** of this image.
1. Keep the abstract shapes, colors, gradients, and layout style exactly as they are.
2. REMOVE ALL TEXT, LOGOS, PEOPLE, and FOREGROUND OBJECTS.
3. The output should be a clean, high-quality background texture ready for new text to be overlaid.
`

// CleanBackground asks the image model to recreate a design without its
// text, logos or people.
func (c *Client) CleanBackground(ctx context.Context, img prompt.Attachment) (*Image, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	timer := logging.StartTimer(logging.CategoryAPI, "clean background")
	defer timer.Stop()

	logging.API("clean background: model=%s input=%s (%d bytes)", c.models.Clean, img.MimeType, len(img.Data))

	resp, err := c.gen.GenerateContent(ctx, c.models.Clean, single(img, cleanInstruction), nil)
	if err != nil {
		logging.APIError("clean background failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrBackgroundClean, err)
	}
	c.track(c.models.Clean, usage.OperationClean, resp)

	out, err := firstImage(resp)
	if err != nil {
		logging.APIError("clean background returned no image")
		return nil, fmt.Errorf("%w: %w", ErrBackgroundClean, err)
	}
	return out, nil
}
