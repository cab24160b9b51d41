package form

import (
	"slices"

	"github.com/google/uuid"
)

// BlobChange replaces a blob field. A nil Blob clears it.
type BlobChange struct {
	Blob *Blob
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	AspectRatio        *AspectRatio `json:"aspectRatio,omitempty"`
	EventType          *string      `json:"eventType,omitempty"`
	EventName          *string      `json:"eventName,omitempty"`
	Date               *string      `json:"date,omitempty"`
	Time               *string      `json:"time,omitempty"`
	TargetAudience     *string      `json:"targetAudience,omitempty"`
	IsOnline           *bool        `json:"isOnline,omitempty"`
	LocationOrPlatform *string      `json:"locationOrPlatform,omitempty"`

	Agenda *[]AgendaItem `json:"agenda,omitempty"`

	ThemeTone         *string   `json:"themeTone,omitempty"`
	ThemeTopics       *[]string `json:"themeTopics,omitempty"`
	CustomThemePrompt *string   `json:"customThemePrompt,omitempty"`
	CustomTopicPrompt *string   `json:"customTopicPrompt,omitempty"`

	SelectedBackground    *string `json:"selectedBackground,omitempty"`
	UseUploadedBackground *bool   `json:"useUploadedBackground,omitempty"`

	UseBrandLogo *bool `json:"useBrandLogo,omitempty"`

	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`

	IncludeQRCode *bool `json:"includeQrCode,omitempty"`

	Speakers *[]Speaker `json:"speakers,omitempty"`

	// Binary fields are set through the container, never from JSON.
	Upload          *BlobChange `json:"-"`
	OrganizerLogo   *BlobChange `json:"-"`
	ProductLogo     *BlobChange `json:"-"`
	CoOrganizerLogo *BlobChange `json:"-"`
	QRCode          *BlobChange `json:"-"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// SpeakerPatch is a partial speaker update.
type SpeakerPatch struct {
	Name             *string     `json:"name,omitempty"`
	Title            *string     `json:"title,omitempty"`
	Company          *string     `json:"company,omitempty"`
	EditPrompt       *string     `json:"editPrompt,omitempty"`
	RemoveBackground *bool       `json:"removeBackground,omitempty"`
	Image            *BlobChange `json:"-"`
}

// AgendaPatch is a partial agenda item update.
type AgendaPatch struct {
	Time     *string `json:"time,omitempty"`
	Activity *string `json:"activity,omitempty"`
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// Apply returns f with the patch merged in. f is not modified.
func (p Patch) Apply(f EventForm) EventForm {
	out := f.Clone()

	setIf(&out.AspectRatio, p.AspectRatio)
	setIf(&out.EventType, p.EventType)
	setIf(&out.EventName, p.EventName)
	setIf(&out.Date, p.Date)
	setIf(&out.Time, p.Time)
	setIf(&out.TargetAudience, p.TargetAudience)
	setIf(&out.IsOnline, p.IsOnline)
	setIf(&out.LocationOrPlatform, p.LocationOrPlatform)
	setIf(&out.ThemeTone, p.ThemeTone)
	setIf(&out.CustomThemePrompt, p.CustomThemePrompt)
	setIf(&out.CustomTopicPrompt, p.CustomTopicPrompt)
	setIf(&out.SelectedBackground, p.SelectedBackground)
	setIf(&out.UseUploadedBackground, p.UseUploadedBackground)
	setIf(&out.UseBrandLogo, p.UseBrandLogo)
	setIf(&out.ContactName, p.ContactName)
	setIf(&out.ContactPhone, p.ContactPhone)
	setIf(&out.ContactEmail, p.ContactEmail)
	setIf(&out.IncludeQRCode, p.IncludeQRCode)

	if p.Agenda != nil {
		out.Agenda = slices.Clone(*p.Agenda)
		for i := range out.Agenda {
			if out.Agenda[i].ID == "" {
				out.Agenda[i].ID = uuid.NewString()
			}
		}
	}
	if p.ThemeTopics != nil {
		out.ThemeTopics = slices.Clone(*p.ThemeTopics)
	}
	if p.Speakers != nil {
		out.Speakers = slices.Clone(*p.Speakers)
		for i := range out.Speakers {
			if out.Speakers[i].ID == "" {
				out.Speakers[i].ID = uuid.NewString()
			}
		}
	}

	setBlob(&out.Upload, p.Upload)
	setBlob(&out.OrganizerLogo, p.OrganizerLogo)
	setBlob(&out.ProductLogo, p.ProductLogo)
	setBlob(&out.CoOrganizerLogo, p.CoOrganizerLogo)
	setBlob(&out.QRCode, p.QRCode)

	return out
}

// Apply returns s with the patch merged in.
func (p SpeakerPatch) Apply(s Speaker) Speaker {
	setIf(&s.Name, p.Name)
	setIf(&s.Title, p.Title)
	setIf(&s.Company, p.Company)
	setIf(&s.EditPrompt, p.EditPrompt)
	setIf(&s.RemoveBackground, p.RemoveBackground)
	setBlob(&s.Image, p.Image)
	return s
}

// Apply returns a with the patch merged in.
func (p AgendaPatch) Apply(a AgendaItem) AgendaItem {
	setIf(&a.Time, p.Time)
	setIf(&a.Activity, p.Activity)
	return a
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setBlob(dst **Blob, c *BlobChange) {
	if c != nil {
		*dst = c.Blob
	}
}
