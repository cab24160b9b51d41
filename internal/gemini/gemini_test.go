package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"postergen/internal/config"
	"postergen/internal/form"
	"postergen/internal/prompt"
	"postergen/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type call struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool
}

type fakeGenerator struct {
	mu    sync.Mutex
	resp  *genai.GenerateContentResponse
	err   error
	calls []call
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, call{model: model, contents: contents, config: config, deadline: hasDeadline})
	return f.resp, f.err
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Here is your poster"},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			}},
		}},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(gen Generator) *Client {
	return NewWithGenerator(gen, Models{}, time.Minute)
}

func TestGeneratePoster(t *testing.T) {
	gen := &fakeGenerator{resp: imageResponse("image/png", []byte("poster"))}
	c := newTestClient(gen)

	compiled := &prompt.Compiled{
		Attachments: []prompt.Attachment{
			{Label: "organizer logo", MimeType: "image/png", Data: []byte("a")},
			{Label: "speaker 1 image", MimeType: "image/jpeg", Data: []byte("b")},
		},
		Instruction: "make a poster",
	}

	img, err := c.GeneratePoster(context.Background(), compiled, form.Portrait)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, []byte("poster"), img.Data)

	require.Len(t, gen.calls, 1)
	got := gen.calls[0]
	assert.Equal(t, "gemini-3-pro-image-preview", got.model)
	assert.True(t, got.deadline)
	require.NotNil(t, got.config.ImageConfig)
	assert.Equal(t, "3:4", got.config.ImageConfig.AspectRatio)
	assert.Equal(t, "2K", got.config.ImageConfig.ImageSize)

	require.Len(t, got.contents, 1)
	parts := got.contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "image/png", parts[0].InlineData.MIMEType)
	assert.Equal(t, "image/jpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, "make a poster", parts[2].Text, "instruction text is the last part")
}

func TestGeneratePosterFailures(t *testing.T) {
	compiled := &prompt.Compiled{Instruction: "x"}

	t.Run("request error", func(t *testing.T) {
		c := newTestClient(&fakeGenerator{err: errors.New("429 quota exceeded")})
		img, err := c.GeneratePoster(context.Background(), compiled, form.Landscape)
		assert.Nil(t, img)
		assert.ErrorIs(t, err, ErrGeneration)
		assert.EqualError(t, err, "poster generation failed: 429 quota exceeded")
	})

	t.Run("no image part", func(t *testing.T) {
		c := newTestClient(&fakeGenerator{resp: textResponse("I cannot draw that")})
		_, err := c.GeneratePoster(context.Background(), compiled, form.Landscape)
		assert.ErrorIs(t, err, ErrNoImage)
		assert.ErrorIs(t, err, ErrGeneration)
	})

	t.Run("no candidates", func(t *testing.T) {
		c := newTestClient(&fakeGenerator{resp: &genai.GenerateContentResponse{}})
		_, err := c.GeneratePoster(context.Background(), compiled, form.Landscape)
		assert.ErrorIs(t, err, ErrNoImage)
	})
}

func TestExtractEventInfo(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"eventName":"Hội thảo AI","date":"20/11/2025","isOnline":true,"contactPhone":"0901234567"}`)}
	c := newTestClient(gen)

	ext, err := c.ExtractEventInfo(context.Background(), prompt.Attachment{MimeType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, form.Extraction{
		EventName:    "Hội thảo AI",
		Date:         "20/11/2025",
		IsOnline:     true,
		ContactPhone: "0901234567",
	}, ext)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "gemini-2.5-flash", gen.calls[0].model)
	assert.Equal(t, "application/json", gen.calls[0].config.ResponseMIMEType)
	parts := gen.calls[0].contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	assert.Contains(t, parts[1].Text, "trích xuất thông tin sự kiện")
}

func TestExtractEventInfoFailures(t *testing.T) {
	doc := prompt.Attachment{MimeType: "image/png", Data: []byte("x")}

	for name, gen := range map[string]*fakeGenerator{
		"request error": {err: errors.New("boom")},
		"empty text":    {resp: textResponse("")},
		"not json":      {resp: textResponse("Sorry, no event here.")},
		"broken json":   {resp: textResponse(`{"eventName": "x",`)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestClient(gen).ExtractEventInfo(context.Background(), doc)
			assert.ErrorIs(t, err, ErrExtraction)
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Run("wrong types default", func(t *testing.T) {
		ext, err := ParseExtraction(`{"eventName": 42, "isOnline": "yes", "date": null, "time": "08:00 - 11:30"}`)
		require.NoError(t, err)
		assert.Equal(t, form.Extraction{Time: "08:00 - 11:30"}, ext)
	})

	t.Run("fenced and surrounded", func(t *testing.T) {
		ext, err := ParseExtraction("```json\n{\"eventName\": \"Tiệc {cuối năm}\", \"isOnline\": false}\n```\ntrailing")
		require.NoError(t, err)
		assert.Equal(t, "Tiệc {cuối năm}", ext.EventName)
		assert.False(t, ext.IsOnline)
	})

	t.Run("escaped quotes", func(t *testing.T) {
		ext, err := ParseExtraction(`{"eventName": "Ra mắt \"AMIS\" }", "contactName": "Lan"}`)
		require.NoError(t, err)
		assert.Equal(t, `Ra mắt "AMIS" }`, ext.EventName)
		assert.Equal(t, "Lan", ext.ContactName)
	})

	t.Run("empty object", func(t *testing.T) {
		ext, err := ParseExtraction(`{}`)
		require.NoError(t, err)
		assert.Equal(t, form.Extraction{}, ext)
	})
}

func TestCleanBackground(t *testing.T) {
	gen := &fakeGenerator{resp: imageResponse("image/jpeg", []byte("clean"))}
	c := newTestClient(gen)

	img, err := c.CleanBackground(context.Background(), prompt.Attachment{MimeType: "image/png", Data: []byte("poster")})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", img.Extension())
	assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/jpeg;base64,"))

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "gemini-2.5-flash-image", gen.calls[0].model)
	assert.Contains(t, gen.calls[0].contents[0].Parts[1].Text, "**BACKGROUND ONLY**")

	t.Run("no image", func(t *testing.T) {
		_, err := newTestClient(&fakeGenerator{resp: textResponse("no")}).CleanBackground(context.Background(), prompt.Attachment{})
		assert.ErrorIs(t, err, ErrBackgroundClean)
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("request error", func(t *testing.T) {
		_, err := newTestClient(&fakeGenerator{err: errors.New("500")}).CleanBackground(context.Background(), prompt.Attachment{})
		assert.ErrorIs(t, err, ErrBackgroundClean)
	})
}

func TestImage(t *testing.T) {
	assert.Equal(t, ".png", (&Image{MimeType: "image/png"}).Extension())
	assert.Equal(t, ".webp", (&Image{MimeType: "image/webp"}).Extension())
	assert.Equal(t, ".png", (&Image{MimeType: "application/x-unknown-thing"}).Extension())

	img := &Image{MimeType: "image/png", Data: []byte("abc")}
	b := img.Blob("bg.png")
	data, mt, err := b.Load()
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)
	assert.Equal(t, []byte("abc"), data)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.GeminiConfig{})
	assert.ErrorContains(t, err, "API key")
}

func TestModelsDefaults(t *testing.T) {
	c := NewWithGenerator(&fakeGenerator{}, Models{Poster: "custom-model"}, 0)
	m := c.Models()
	assert.Equal(t, "custom-model", m.Poster)
	assert.Equal(t, "gemini-2.5-flash", m.Extract)
	assert.Equal(t, "gemini-2.5-flash-image", m.Clean)
	assert.Equal(t, "2K", m.ImageSize)
}

func TestUsageTracking(t *testing.T) {
	resp := imageResponse("image/png", []byte("poster"))
	resp.UsageMetadata = &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     1500,
		CandidatesTokenCount: 1290,
		TotalTokenCount:      2790,
	}
	gen := &fakeGenerator{resp: resp}
	c := newTestClient(gen)
	tracker := usage.NewTracker()
	c.SetUsage(tracker)

	_, err := c.GeneratePoster(context.Background(), &prompt.Compiled{Instruction: "x"}, form.Landscape)
	require.NoError(t, err)
	_, err = c.CleanBackground(context.Background(), prompt.Attachment{MimeType: "image/png", Data: []byte("bg")})
	require.NoError(t, err)

	stats := tracker.Stats()
	assert.Equal(t, int64(2), stats.Calls)
	assert.Equal(t, int64(1500), stats.ByModel[c.Models().Poster].Input)
	assert.Equal(t, int64(1290), stats.ByOperation[string(usage.OperationClean)].Output)

	// Failed calls and responses without metadata are not counted.
	gen.resp, gen.err = nil, errors.New("boom")
	_, err = c.GeneratePoster(context.Background(), &prompt.Compiled{Instruction: "x"}, form.Landscape)
	require.Error(t, err)
	gen.resp, gen.err = textResponse(`{"eventName":"A"}`), nil
	_, err = c.ExtractEventInfo(context.Background(), prompt.Attachment{MimeType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tracker.Stats().Calls)
}
