package prompt

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"postergen/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLogos struct {
	logo  Attachment
	err   error
	calls int
}

func (s *stubLogos) FetchLogo(context.Context) (Attachment, error) {
	s.calls++
	return s.logo, s.err
}

func failingLogos() *stubLogos {
	return &stubLogos{err: errors.New("dial tcp: no route to host")}
}

func okLogos() *stubLogos {
	return &stubLogos{logo: Attachment{Label: "default logo", MimeType: "image/png", Data: []byte("misa")}}
}

func blob(name string) *form.Blob {
	return form.NewBlob(name, []byte(name), "image/png")
}

func compile(t *testing.T, logos LogoFetcher, f form.EventForm) *Compiled {
	t.Helper()
	out, err := NewCompiler(logos, DefaultBranding).Compile(context.Background(), f)
	require.NoError(t, err)
	return out
}

func labels(c *Compiled) []string {
	var out []string
	for _, a := range c.Attachments {
		out = append(out, a.Label)
	}
	return out
}

func TestDefaultLogoFetchFailureFallsBackToText(t *testing.T) {
	f := form.Initial()
	out := compile(t, failingLogos(), f)

	assert.Empty(t, out.Attachments, "no logo image attached")
	assert.Contains(t, out.Instruction, `Place the "MISA" logo at the top center.`)
	assert.Contains(t, out.Instruction, `Slogan "Tin cậy - Tiện ích - Tận tình"`)
	assert.NotContains(t, out.Instruction, "See Image")
}

func TestDefaultLogoAttachedOnSuccess(t *testing.T) {
	logos := okLogos()
	out := compile(t, logos, form.Initial())

	assert.Equal(t, []string{"default logo"}, labels(out))
	assert.Contains(t, out.Instruction, "Use the MISA Logo (See Image 1)")
	assert.Equal(t, 1, logos.calls)
}

func TestCustomBrandingSkipsDefaultLogo(t *testing.T) {
	t.Run("with logos", func(t *testing.T) {
		logos := okLogos()
		f := form.Initial()
		f.UseBrandLogo = true
		f.OrganizerLogo = blob("org")
		f.CoOrganizerLogo = blob("co")

		out := compile(t, logos, f)
		assert.Equal(t, 0, logos.calls)
		assert.Equal(t, []string{"organizer logo", "co-organizer logo"}, labels(out))
		assert.Contains(t, out.Instruction, `**Organizer Logo**: See Image 1. Add the small text "Đơn vị tổ chức" ABOVE this logo.`)
		assert.Contains(t, out.Instruction, `**Co-Organizer Logo**: See Image 2. Add the small text "Đơn vị phối hợp" ABOVE this logo.`)
		assert.NotContains(t, out.Instruction, "Partner Product Logo")
		assert.NotContains(t, out.Instruction, "DEFAULT BRANDING")
	})

	t.Run("without logos", func(t *testing.T) {
		f := form.Initial()
		f.UseBrandLogo = true

		out := compile(t, okLogos(), f)
		assert.Empty(t, out.Attachments)
		assert.Contains(t, out.Instruction, "- Place any provided text logos at the top.")
		assert.NotContains(t, out.Instruction, "DEFAULT BRANDING")
	})

	t.Run("logos ignored when custom branding is off", func(t *testing.T) {
		f := form.Initial()
		f.OrganizerLogo = blob("org")

		out := compile(t, failingLogos(), f)
		assert.Empty(t, out.Attachments)
	})
}

func TestOnlineOmitsLocation(t *testing.T) {
	f := form.Initial()
	f.LocationOrPlatform = "Zoom ID 123"
	out := compile(t, nil, f)

	assert.NotContains(t, out.Instruction, "**Location:**")
	assert.Contains(t, out.Instruction, "- **Format:** TRỰC TUYẾN (ZOOM ONLINE).")

	f.IsOnline = false
	f.LocationOrPlatform = "Tầng 9, Technosoft, Hà Nội"
	out = compile(t, nil, f)
	assert.Contains(t, out.Instruction, "- **Location:** Tầng 9, Technosoft, Hà Nội.")
	assert.Contains(t, out.Instruction, "- **Format:** OFFLINE.")
}

func TestAgenda(t *testing.T) {
	f := form.Initial()
	out := compile(t, nil, f)
	assert.NotContains(t, out.Instruction, "CHƯƠNG TRÌNH")

	f.Agenda = []form.AgendaItem{{ID: "1", Time: "08:00-08:30", Activity: "Check-in"}}
	out = compile(t, nil, f)
	assert.Contains(t, out.Instruction, "  - 08:00-08:30 : **Check-in**\n")
	assert.Empty(t, out.Attachments, "agenda adds no attachments")

	f.QRCode = blob("qr")
	f.IncludeQRCode = true
	out = compile(t, nil, f)
	assert.Contains(t, out.Instruction, "See Image 1. Place this QR code")
}

func TestQRCodeTriState(t *testing.T) {
	tests := []struct {
		name     string
		include  bool
		image    *form.Blob
		want     string
		attached int
	}{
		{"disabled", false, blob("qr"), "Do NOT include any QR code", 0},
		{"placeholder", true, nil, "Create a clean white square placeholder box", 0},
		{"attached", true, blob("qr"), "See Image 1. Place this QR code clearly", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.Initial()
			f.IncludeQRCode = tt.include
			f.QRCode = tt.image

			out := compile(t, nil, f)
			assert.Contains(t, out.Instruction, tt.want)
			assert.Len(t, out.Attachments, tt.attached)
			assert.Equal(t, 1, strings.Count(out.Instruction, "**QR Code:**"))
		})
	}
}

func TestSpeakerImageIndexAccountsForEarlierAttachments(t *testing.T) {
	f := form.Initial()
	f.UseUploadedBackground = true
	f.SelectedBackground = form.DataURL("image/png", []byte("bg"))
	f.UseBrandLogo = true
	f.OrganizerLogo = blob("org")
	f.ProductLogo = blob("prod")
	f.IncludeQRCode = true
	f.QRCode = blob("qr")
	f.Speakers = []form.Speaker{
		{ID: "1", Name: "A", Title: "CEO", RemoveBackground: true},
		{ID: "2", Name: "B", Title: "CTO", Company: "MISA", Image: blob("b"), RemoveBackground: true},
		{ID: "3", Name: "C", Title: "CFO", RemoveBackground: false},
	}

	out := compile(t, nil, f)

	assert.Equal(t, []string{"background", "organizer logo", "product logo", "qr code", "speaker 2 image"}, labels(out))
	assert.Equal(t, 1, strings.Count(out.Instruction, "Remove background"))
	assert.Contains(t, out.Instruction,
		`- Speaker 2: Name "B", Title "CTO", Company "MISA". [See Image 5 for Speaker 2 reference]. Preserve the face and identity of this speaker exactly. Remove background, integrate seamlessly.`)
	assert.Contains(t, out.Instruction,
		`- Speaker 1: Name "A", Title "CEO". (No reference image provided, generate a generic professional avatar).`)
	assert.Contains(t, out.Instruction, "(Image 1) as the **STRICT BACKGROUND REFERENCE**")
	assert.Contains(t, out.Instruction, "**Organizer Logo**: See Image 2.")
	assert.Contains(t, out.Instruction, "**Partner Product Logo**: See Image 3.")
	assert.Contains(t, out.Instruction, "See Image 4. Place this QR code")
}

func TestImageReferencesMatchAttachments(t *testing.T) {
	f := form.Initial()
	f.UseBrandLogo = true
	f.ProductLogo = blob("prod")
	f.Speakers = []form.Speaker{
		{ID: "1", Name: "A", Image: blob("a"), EditPrompt: "wear a vest"},
		{ID: "2", Name: "B", Image: blob("b")},
	}
	out := compile(t, nil, f)

	re := regexp.MustCompile(`Image (\d+)`)
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatch(out.Instruction, -1) {
		seen[m[1]] = true
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, seen)
	assert.Len(t, out.Attachments, 3)
	assert.Contains(t, out.Instruction, "EDIT INSTRUCTION: Strictly preserve face/identity. Modify attire/pose to: wear a vest.")
}

func TestBackgroundGating(t *testing.T) {
	t.Run("not forced", func(t *testing.T) {
		f := form.Initial()
		f.SelectedBackground = form.DataURL("image/png", []byte("bg"))
		out := compile(t, nil, f)
		assert.Empty(t, out.Attachments)
		assert.NotContains(t, out.Instruction, "BACKGROUND INSTRUCTION")
	})

	t.Run("not an image data URL", func(t *testing.T) {
		f := form.Initial()
		f.UseUploadedBackground = true
		f.SelectedBackground = "color:hsl(0, 70%, 90%)"
		out := compile(t, nil, f)
		assert.Empty(t, out.Attachments)
	})

	t.Run("mimetype from data URL", func(t *testing.T) {
		f := form.Initial()
		f.UseUploadedBackground = true
		f.SelectedBackground = form.DataURL("image/jpeg", []byte("bg"))
		out := compile(t, nil, f)
		require.Len(t, out.Attachments, 1)
		assert.Equal(t, "image/jpeg", out.Attachments[0].MimeType)
		assert.Equal(t, []byte("bg"), out.Attachments[0].Data)
	})

	t.Run("undecodable data URL is fatal", func(t *testing.T) {
		f := form.Initial()
		f.UseUploadedBackground = true
		f.SelectedBackground = "data:image/png;base64,***"
		_, err := NewCompiler(nil, DefaultBranding).Compile(context.Background(), f)
		assert.ErrorContains(t, err, "read background")
	})
}

func TestAttachmentReadFailureIsFatal(t *testing.T) {
	f := form.Initial()
	f.Speakers = []form.Speaker{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B", Image: form.FileBlob(filepath.Join(t.TempDir(), "missing.jpg"), "")},
	}

	out, err := NewCompiler(okLogos(), DefaultBranding).Compile(context.Background(), f)
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "read speaker 2 image")
}

func TestTopics(t *testing.T) {
	tests := []struct {
		name   string
		topics []string
		custom string
		want   string
	}{
		{"single", []string{"AI"}, "", "AI"},
		{"combined", []string{"AI", "Marketing"}, "", "AI combined with Marketing"},
		{"custom", []string{"AI", form.CustomLabel}, "Chuyển đổi số", "Chuyển đổi số"},
		{"blank custom falls back", []string{"AI", form.CustomLabel}, "  ", "AI"},
		{"none", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := form.Initial()
			f.ThemeTopics = tt.topics
			f.CustomTopicPrompt = tt.custom
			assert.Equal(t, tt.want, Topics(f))
		})
	}
}

func TestHeader(t *testing.T) {
	f := form.Initial()
	f.AspectRatio = form.Portrait
	f.ThemeTone = form.CustomLabel
	f.CustomThemePrompt = "tím và bạc"
	f.EventName = "Ra mắt AMIS"

	out := compile(t, nil, f)
	assert.True(t, strings.HasPrefix(out.Instruction, "Create a high-quality, professional event invitation poster for MISA (Vietnam)."))
	assert.Contains(t, out.Instruction, "- Aspect Ratio: Portrait (3:4).")
	assert.Contains(t, out.Instruction, "- **Color Palette:** Tùy chỉnh (tím và bạc).")
	assert.Contains(t, out.Instruction, `- **Event Title:** "Ra mắt AMIS".`)
}

func TestCompileIsDeterministic(t *testing.T) {
	f := form.Initial()
	f.UseBrandLogo = true
	f.OrganizerLogo = blob("org")
	f.Speakers = []form.Speaker{{ID: "1", Name: "A", Image: blob("a")}, {ID: "2", Name: "B", Image: blob("b")}}

	first := compile(t, nil, f)
	for i := 0; i < 10; i++ {
		again := compile(t, nil, f)
		assert.Equal(t, first.Instruction, again.Instruction)
		assert.Equal(t, labels(first), labels(again))
	}
}
