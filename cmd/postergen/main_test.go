package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"postergen/internal/form"
	"postergen/internal/prompt"
	"postergen/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleForm = `aspect_ratio: "3:4"
event_type: Hội thảo
event_name: Chuyển đổi số 2025
date: 20/11/2025
time: 08:30
target_audience: Doanh nghiệp SME
online: false
location: Khách sạn Melia, Hà Nội
agenda:
  - time: 08:30-09:00
    activity: Đón khách
theme_topics: [AI, Marketing]
background_path: bg.png
speakers:
  - name: Nguyễn Văn A
    title: CEO
    company: MISA
    image:
      path: speaker.png
  - name: Trần Thị B
    remove_background: false
contact:
  name: Chị Lan
  phone: "0900000000"
  email: lan@misa.vn
include_qr_code: true
`

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	tpl, err := templates.Get("template-0")
	require.NoError(t, err)
	png, err := tpl.PNG()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bg.png"), png, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "speaker.png"), png, 0644))
	path := filepath.Join(dir, "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleForm), 0644))
	return path
}

// execute runs the root command with a config that disables the default
// logo download.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile := filepath.Join(t.TempDir(), "postergen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("branding:\n  default_logo_url: \"\"\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadForm(t *testing.T) {
	dir := t.TempDir()
	f, err := loadForm(writeFixture(t, dir))
	require.NoError(t, err)

	assert.Equal(t, form.Portrait, f.AspectRatio)
	assert.Equal(t, "Chuyển đổi số 2025", f.EventName)
	assert.False(t, f.IsOnline)
	assert.Equal(t, "Khách sạn Melia, Hà Nội", f.LocationOrPlatform)
	assert.Equal(t, []string{"AI", "Marketing"}, f.ThemeTopics)
	assert.Equal(t, "lan@misa.vn", f.ContactEmail)
	assert.True(t, f.IncludeQRCode)
	assert.Nil(t, f.QRCode)

	require.Len(t, f.Agenda, 1)
	assert.NotEmpty(t, f.Agenda[0].ID)
	assert.Equal(t, "Đón khách", f.Agenda[0].Activity)

	require.Len(t, f.Speakers, 2)
	assert.NotEqual(t, f.Speakers[0].ID, f.Speakers[1].ID)
	assert.True(t, f.Speakers[0].RemoveBackground)
	assert.False(t, f.Speakers[1].RemoveBackground)
	require.NotNil(t, f.Speakers[0].Image)
	assert.Equal(t, filepath.Join(dir, "speaker.png"), f.Speakers[0].Image.Path())
	assert.Equal(t, "image/png", f.Speakers[0].Image.MimeType())

	assert.True(t, f.UseUploadedBackground)
	assert.True(t, strings.HasPrefix(f.SelectedBackground, "data:image/png;base64,"))
}

func TestLoadFormDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_name: X\n"), 0644))

	f, err := loadForm(path)
	require.NoError(t, err)
	assert.Equal(t, form.Landscape, f.AspectRatio)
	assert.True(t, f.IsOnline)
	assert.Equal(t, form.DefaultOnlineLocation, f.LocationOrPlatform)
	assert.Equal(t, form.Initial().ThemeTopics, f.ThemeTopics)
	assert.False(t, f.UseUploadedBackground)
}

func TestLoadFormErrors(t *testing.T) {
	dir := t.TempDir()

	tooMany := filepath.Join(dir, "speakers.yaml")
	require.NoError(t, os.WriteFile(tooMany, []byte("speakers: [{name: a}, {name: b}, {name: c}, {name: d}]\n"), 0644))
	_, err := loadForm(tooMany)
	assert.ErrorIs(t, err, form.ErrSpeakerLimit)

	badRatio := filepath.Join(dir, "ratio.yaml")
	require.NoError(t, os.WriteFile(badRatio, []byte("aspect_ratio: \"1:1\"\n"), 0644))
	_, err = loadForm(badRatio)
	assert.ErrorIs(t, err, form.ErrInvalidAspectRatio)

	missingBg := filepath.Join(dir, "bg.yaml")
	require.NoError(t, os.WriteFile(missingBg, []byte("background_path: nope.png\n"), 0644))
	_, err = loadForm(missingBg)
	assert.ErrorContains(t, err, "read background")

	_, err = loadForm(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyExtractionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	ff, err := readFormFile(path)
	require.NoError(t, err)
	ff.applyExtraction(form.Extraction{
		EventName:          "Ngày hội khách hàng",
		IsOnline:           true,
		LocationOrPlatform: "Zoom Online",
		ContactPhone:       "0911111111",
	})
	require.NoError(t, writeFormFile(path, ff))

	f, err := loadForm(path)
	require.NoError(t, err)
	assert.Equal(t, "Ngày hội khách hàng", f.EventName)
	assert.True(t, f.IsOnline)
	assert.Equal(t, "Zoom Online", f.LocationOrPlatform)
	assert.Empty(t, f.ContactName)
	assert.Equal(t, "0911111111", f.ContactPhone)
	assert.Empty(t, f.Date)
	// Fields outside the extraction survive.
	assert.Len(t, f.Speakers, 2)
	assert.Equal(t, form.Portrait, f.AspectRatio)
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "MISA-Event-Poster.png", outputPath("", "MISA-Event-Poster.png"))
	assert.Equal(t, filepath.Join(dir, "MISA-Event-Poster.png"), outputPath(dir, "MISA-Event-Poster.png"))
	assert.Equal(t, "out.png", outputPath("out.png", "MISA-Event-Poster.png"))
}

func TestRenderPrompt(t *testing.T) {
	compiled := &prompt.Compiled{
		Attachments: []prompt.Attachment{{Label: "organizer logo", MimeType: "image/png", Data: make([]byte, 2048)}},
		Instruction: "**Poster** for MISA",
	}

	var raw bytes.Buffer
	require.NoError(t, renderPrompt(&raw, compiled, true))
	assert.Contains(t, raw.String(), "Image 1\torganizer logo\timage/png")
	assert.True(t, strings.HasSuffix(raw.String(), "**Poster** for MISA"))

	table := renderAttachments(compiled)
	assert.Contains(t, table, "organizer logo")
	assert.Contains(t, table, "2.0 KB")

	assert.Contains(t, renderAttachments(&prompt.Compiled{}), "no images attached")
}

func TestPromptCommand(t *testing.T) {
	path := writeFixture(t, t.TempDir())

	promptRaw, promptWatch = false, false
	out, err := execute(t, "prompt", "--raw", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Image 1\tbackground")
	assert.Contains(t, out, "speaker 1 image")
	assert.Contains(t, out, `"Chuyển đổi số 2025"`)
	assert.Contains(t, out, "Create a clean white square placeholder box for a QR Code.")
}

func TestTemplatesCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tpl")
	_, err := execute(t, "templates", "-o", dir)
	require.NoError(t, err)
	templatesOut = ""

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 8)
	assert.FileExists(t, filepath.Join(dir, "template-0.png"))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "postergen.toml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, rootCmd.Execute())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "poster_model")

	rootCmd.SetArgs([]string{"--config", path, "config", "init"})
	assert.ErrorContains(t, rootCmd.Execute(), "already exists")
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	path := writeFixture(t, t.TempDir())

	_, err := execute(t, "generate", path)
	assert.ErrorContains(t, err, "API key")
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_name: A\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("event_name: B\n"), 0644)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
