package prompt

import (
	"context"
	"fmt"
	"strings"

	"postergen/internal/form"
	"postergen/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Branding names the organization a poster is made for. Its logo is fetched
// when the form does not opt into custom logos.
type Branding struct {
	Organization string
	Country      string
	Slogan       string
}

// DefaultBranding is MISA, the organization the templates were written for.
var DefaultBranding = Branding{
	Organization: "MISA",
	Country:      "Vietnam",
	Slogan:       "Tin cậy - Tiện ích - Tận tình",
}

// Compiler turns a form snapshot into a Compiled request.
type Compiler struct {
	logos LogoFetcher
	brand Branding
}

// NewCompiler creates a compiler. A nil fetcher always takes the text-only
// default branding branch.
func NewCompiler(logos LogoFetcher, brand Branding) *Compiler {
	return &Compiler{logos: logos, brand: brand}
}

// loaded holds every attachment the form gates in, read ahead of assembly.
// Nil entries are skipped.
type loaded struct {
	background  *Attachment
	organizer   *Attachment
	product     *Attachment
	coOrganizer *Attachment
	defaultLogo *Attachment
	qr          *Attachment
	speakers    []*Attachment
}

// Compile reads all attachments concurrently, then assembles them and the
// instruction text in precedence order. Any attachment read failure aborts
// compilation; the default logo fetch degrades to a text-only instruction.
func (c *Compiler) Compile(ctx context.Context, f form.EventForm) (*Compiled, error) {
	timer := logging.StartTimer(logging.CategoryCompiler, "compile")
	defer timer.Stop()

	in, err := c.load(ctx, f)
	if err != nil {
		logging.CompilerError("compile failed: %v", err)
		return nil, err
	}

	b := NewBuilder()
	c.writeHeader(b, f)
	writeBackground(b, in.background)
	writeContent(b, f)
	writeAgenda(b, f.Agenda)
	writeContact(b, f)
	c.writeBranding(b, f, in)
	writeQRCode(b, f.IncludeQRCode, in.qr)
	writeSpeakers(b, f.Speakers, in.speakers)

	out := b.Build()
	logging.Compiler("compiled %d attachments, %d chars of instruction", len(out.Attachments), len(out.Instruction))
	return out, nil
}

func (c *Compiler) load(ctx context.Context, f form.EventForm) (*loaded, error) {
	in := &loaded{speakers: make([]*Attachment, len(f.Speakers))}

	if f.UseUploadedBackground && strings.HasPrefix(f.SelectedBackground, "data:image") {
		mimeType, data, err := form.ParseDataURL(f.SelectedBackground)
		if err != nil {
			return nil, fmt.Errorf("read background: %w", err)
		}
		if mimeType == "" {
			mimeType = "image/png"
		}
		in.background = &Attachment{Label: "background", MimeType: mimeType, Data: data}
	}

	g, gctx := errgroup.WithContext(ctx)

	readInto := func(dst **Attachment, label string, b *form.Blob) {
		if b == nil {
			return
		}
		g.Go(func() error {
			data, mimeType, err := b.Load()
			if err != nil {
				return fmt.Errorf("read %s: %w", label, err)
			}
			*dst = &Attachment{Label: label, MimeType: mimeType, Data: data}
			return nil
		})
	}

	if f.UseBrandLogo {
		readInto(&in.organizer, "organizer logo", f.OrganizerLogo)
		readInto(&in.product, "product logo", f.ProductLogo)
		readInto(&in.coOrganizer, "co-organizer logo", f.CoOrganizerLogo)
	} else if c.logos != nil {
		g.Go(func() error {
			logo, err := c.logos.FetchLogo(gctx)
			if err != nil {
				logging.BrandingWarn("default logo unavailable, using text branding: %v", err)
				return nil
			}
			in.defaultLogo = &logo
			return nil
		})
	}
	if f.IncludeQRCode {
		readInto(&in.qr, "qr code", f.QRCode)
	}
	for i, s := range f.Speakers {
		readInto(&in.speakers[i], fmt.Sprintf("speaker %d image", i+1), s.Image)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// Topics returns the topic wording: the custom prompt when the custom label
// is selected, otherwise the labels joined together. A blank custom prompt
// falls back to the other selected labels.
func Topics(f form.EventForm) string {
	var labels []string
	custom := false
	for _, t := range f.ThemeTopics {
		if t == form.CustomLabel {
			custom = true
			continue
		}
		labels = append(labels, t)
	}
	if custom && strings.TrimSpace(f.CustomTopicPrompt) != "" {
		return f.CustomTopicPrompt
	}
	// Custom with no text reads as the remaining labels, never an empty topic.
	return strings.Join(labels, " combined with ")
}
