// Package gemini wraps the Gemini models that render posters, read event
// details off invitation documents and clean up background images.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"postergen/internal/config"
	"postergen/internal/prompt"
	"postergen/internal/usage"

	"google.golang.org/genai"
)

var (
	// ErrGeneration prefixes every poster generation failure.
	ErrGeneration = errors.New("poster generation failed")

	// ErrNoImage means the model answered without an inline image part.
	ErrNoImage = errors.New("no image generated")

	// ErrExtraction is the single user-facing extraction failure.
	ErrExtraction = errors.New("failed to extract information from file")

	// ErrBackgroundClean is the single user-facing background cleaning failure.
	ErrBackgroundClean = errors.New("không thể xử lý nền ảnh, vui lòng thử lại")
)

// Generator is the subset of the genai Models service used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Models names the model used for each operation.
type Models struct {
	Poster    string
	Extract   string
	Clean     string
	ImageSize string
}

// Client issues the three model calls. No call is retried.
type Client struct {
	gen     Generator
	models  Models
	timeout time.Duration
	usage   *usage.Tracker
}

// New creates a client backed by the Gemini API.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return NewWithGenerator(client.Models, Models{
		Poster:    cfg.PosterModel,
		Extract:   cfg.ExtractModel,
		Clean:     cfg.CleanModel,
		ImageSize: cfg.ImageSize,
	}, cfg.GetTimeout()), nil
}

// NewWithGenerator creates a client around any Generator. Empty model names
// fall back to the defaults.
func NewWithGenerator(gen Generator, models Models, timeout time.Duration) *Client {
	def := config.DefaultGeminiConfig()
	if models.Poster == "" {
		models.Poster = def.PosterModel
	}
	if models.Extract == "" {
		models.Extract = def.ExtractModel
	}
	if models.Clean == "" {
		models.Clean = def.CleanModel
	}
	if models.ImageSize == "" {
		models.ImageSize = def.ImageSize
	}
	return &Client{gen: gen, models: models, timeout: timeout}
}

// SetUsage records token usage of every successful call in t.
func (c *Client) SetUsage(t *usage.Tracker) {
	c.usage = t
}

// track records the usage metadata of a response, when the model sent any.
func (c *Client) track(model string, op usage.Operation, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	m := resp.UsageMetadata
	c.usage.Track(model, op, int(m.PromptTokenCount), int(m.CandidatesTokenCount))
}

// Models returns the configured model names.
func (c *Client) Models() Models {
	return c.models
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// contents converts prompt parts into a single user turn.
func contents(parts []prompt.Part) []*genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Attachment != nil {
			out = append(out, genai.NewPartFromBytes(p.Attachment.Data, p.Attachment.MimeType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}
}

// single builds the one-attachment-then-instruction request used by
// extraction and cleaning.
func single(a prompt.Attachment, instruction string) []*genai.Content {
	return contents([]prompt.Part{{Attachment: &a}, {Text: instruction}})
}
