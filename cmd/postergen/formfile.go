package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"postergen/internal/form"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// fileRef points at an image or document on disk. Relative paths resolve
// against the form file's directory.
type fileRef struct {
	Path     string `yaml:"path"`
	MimeType string `yaml:"mime_type,omitempty"`
}

type speakerFile struct {
	Name             string   `yaml:"name"`
	Title            string   `yaml:"title,omitempty"`
	Company          string   `yaml:"company,omitempty"`
	Image            *fileRef `yaml:"image,omitempty"`
	EditPrompt       string   `yaml:"edit_prompt,omitempty"`
	RemoveBackground *bool    `yaml:"remove_background,omitempty"`
}

type agendaFile struct {
	Time     string `yaml:"time"`
	Activity string `yaml:"activity"`
}

type logosFile struct {
	Organizer   *fileRef `yaml:"organizer,omitempty"`
	Product     *fileRef `yaml:"product,omitempty"`
	CoOrganizer *fileRef `yaml:"co_organizer,omitempty"`
}

type contactFile struct {
	Name  string `yaml:"name,omitempty"`
	Phone string `yaml:"phone,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// formFile is the YAML shape of an event form used by the CLI.
type formFile struct {
	AspectRatio       string        `yaml:"aspect_ratio,omitempty"`
	EventType         string        `yaml:"event_type,omitempty"`
	EventName         string        `yaml:"event_name,omitempty"`
	Date              string        `yaml:"date,omitempty"`
	Time              string        `yaml:"time,omitempty"`
	TargetAudience    string        `yaml:"target_audience,omitempty"`
	Online            *bool         `yaml:"online,omitempty"`
	Location          *string       `yaml:"location,omitempty"`
	Agenda            []agendaFile  `yaml:"agenda,omitempty"`
	ThemeTone         string        `yaml:"theme_tone,omitempty"`
	ThemeTopics       []string      `yaml:"theme_topics,omitempty"`
	CustomThemePrompt string        `yaml:"custom_theme_prompt,omitempty"`
	CustomTopicPrompt string        `yaml:"custom_topic_prompt,omitempty"`
	BackgroundPath    string        `yaml:"background_path,omitempty"`
	UseBrandLogo      bool          `yaml:"use_brand_logo,omitempty"`
	Logos             logosFile     `yaml:"logos,omitempty"`
	Contact           contactFile   `yaml:"contact,omitempty"`
	IncludeQRCode     bool          `yaml:"include_qr_code,omitempty"`
	QRCode            *fileRef      `yaml:"qr_code,omitempty"`
	Speakers          []speakerFile `yaml:"speakers,omitempty"`

	dir string
}

func readFormFile(path string) (*formFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	ff := &formFile{}
	if err := yaml.Unmarshal(data, ff); err != nil {
		return nil, fmt.Errorf("parse form file %s: %w", path, err)
	}
	ff.dir = filepath.Dir(path)
	return ff, nil
}

func writeFormFile(path string, ff *formFile) error {
	data, err := yaml.Marshal(ff)
	if err != nil {
		return fmt.Errorf("encode form file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	return nil
}

// loadPatch reads a form file into a patch over the initial form.
func loadPatch(path string) (form.Patch, error) {
	ff, err := readFormFile(path)
	if err != nil {
		return form.Patch{}, err
	}
	p, err := ff.patch()
	if err != nil {
		return form.Patch{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// loadForm reads a form file into a validated form.
func loadForm(path string) (form.EventForm, error) {
	p, err := loadPatch(path)
	if err != nil {
		return form.EventForm{}, err
	}
	f, err := form.NewContainer().Update(p)
	if err != nil {
		return form.EventForm{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (ff *formFile) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ff.dir, p)
}

func (ff *formFile) blob(ref *fileRef) *form.BlobChange {
	if ref == nil || ref.Path == "" {
		return nil
	}
	return &form.BlobChange{Blob: form.FileBlob(ff.resolve(ref.Path), ref.MimeType)}
}

// patch converts the file into a form patch over the initial form.
func (ff *formFile) patch() (form.Patch, error) {
	if len(ff.Speakers) > form.MaxSpeakers {
		return form.Patch{}, fmt.Errorf("%w: %d speakers", form.ErrSpeakerLimit, len(ff.Speakers))
	}

	p := form.Patch{
		UseBrandLogo:    form.Ptr(ff.UseBrandLogo),
		IncludeQRCode:   form.Ptr(ff.IncludeQRCode),
		OrganizerLogo:   ff.blob(ff.Logos.Organizer),
		ProductLogo:     ff.blob(ff.Logos.Product),
		CoOrganizerLogo: ff.blob(ff.Logos.CoOrganizer),
		QRCode:          ff.blob(ff.QRCode),
		ContactName:     form.Ptr(ff.Contact.Name),
		ContactPhone:    form.Ptr(ff.Contact.Phone),
		ContactEmail:    form.Ptr(ff.Contact.Email),
	}
	if ff.AspectRatio != "" {
		p.AspectRatio = form.Ptr(form.AspectRatio(ff.AspectRatio))
	}
	setString := func(dst **string, v string) {
		if v != "" {
			*dst = form.Ptr(v)
		}
	}
	setString(&p.EventType, ff.EventType)
	setString(&p.EventName, ff.EventName)
	setString(&p.Date, ff.Date)
	setString(&p.Time, ff.Time)
	setString(&p.TargetAudience, ff.TargetAudience)
	setString(&p.ThemeTone, ff.ThemeTone)
	setString(&p.CustomThemePrompt, ff.CustomThemePrompt)
	setString(&p.CustomTopicPrompt, ff.CustomTopicPrompt)

	if ff.Online != nil {
		p.IsOnline = ff.Online
		if !*ff.Online {
			p.LocationOrPlatform = form.Ptr("")
		}
	}
	if ff.Location != nil {
		p.LocationOrPlatform = ff.Location
	}
	if ff.ThemeTopics != nil {
		p.ThemeTopics = form.Ptr(ff.ThemeTopics)
	}

	if len(ff.Agenda) > 0 {
		agenda := make([]form.AgendaItem, len(ff.Agenda))
		for i, a := range ff.Agenda {
			agenda[i] = form.AgendaItem{ID: uuid.NewString(), Time: a.Time, Activity: a.Activity}
		}
		p.Agenda = &agenda
	}

	if len(ff.Speakers) > 0 {
		speakers := make([]form.Speaker, len(ff.Speakers))
		for i, s := range ff.Speakers {
			sp := form.Speaker{
				ID:               uuid.NewString(),
				Name:             s.Name,
				Title:            s.Title,
				Company:          s.Company,
				EditPrompt:       s.EditPrompt,
				RemoveBackground: true,
			}
			if s.RemoveBackground != nil {
				sp.RemoveBackground = *s.RemoveBackground
			}
			if c := ff.blob(s.Image); c != nil {
				sp.Image = c.Blob
			}
			speakers[i] = sp
		}
		p.Speakers = &speakers
	}

	if ff.BackgroundPath != "" {
		path := ff.resolve(ff.BackgroundPath)
		data, err := os.ReadFile(path)
		if err != nil {
			return form.Patch{}, fmt.Errorf("read background: %w", err)
		}
		bg := form.NewBlob(filepath.Base(path), data, mime.TypeByExtension(filepath.Ext(path)))
		if !bg.IsImage() {
			return form.Patch{}, fmt.Errorf("background %s is %s, not an image", path, bg.MimeType())
		}
		p.SelectedBackground = form.Ptr(form.DataURL(bg.MimeType(), data))
		p.UseUploadedBackground = form.Ptr(true)
	}
	return p, nil
}

// applyExtraction overwrites the extracted fields, blanks included.
func (ff *formFile) applyExtraction(e form.Extraction) {
	ff.EventName = e.EventName
	ff.Date = e.Date
	ff.Time = e.Time
	ff.TargetAudience = e.TargetAudience
	ff.Online = form.Ptr(e.IsOnline)
	ff.Location = form.Ptr(e.LocationOrPlatform)
	ff.Contact = contactFile{Name: e.ContactName, Phone: e.ContactPhone, Email: e.ContactEmail}
}

// outputPath picks a file name for an image when the user gave none or
// gave a directory.
func outputPath(out, name string) string {
	if out == "" {
		return name
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, name)
	}
	return out
}
