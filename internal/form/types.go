// Package form holds the event form a poster is generated from and the
// container that owns it.
package form

import (
	"errors"
	"fmt"
	"slices"
)

// AspectRatio is the poster format.
type AspectRatio string

const (
	Landscape AspectRatio = "16:9"
	Portrait  AspectRatio = "3:4"
)

// Valid reports whether the ratio is one the generator supports.
func (a AspectRatio) Valid() bool {
	return a == Landscape || a == Portrait
}

// Describe returns the layout wording used in the generation instruction.
func (a AspectRatio) Describe() string {
	if a == Landscape {
		return "Landscape (16:9)"
	}
	return "Portrait (3:4)"
}

const (
	// MaxSpeakers caps the speaker list.
	MaxSpeakers = 3

	// MaxTopics caps the number of selected topics.
	MaxTopics = 2

	// DefaultOnlineLocation is restored whenever the format switches to online.
	DefaultOnlineLocation = "Zoom Online"
)

var (
	ErrSpeakerLimit       = errors.New("speaker limit reached")
	ErrTopicLimit         = errors.New("topic limit exceeded")
	ErrDuplicateTopic     = errors.New("duplicate topic")
	ErrNotFound           = errors.New("not found")
	ErrUnknownLogoSlot    = errors.New("unknown logo slot")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
)

// EventForm is the full set of inputs for one poster.
type EventForm struct {
	AspectRatio AspectRatio `json:"aspectRatio"`

	// Upload is the invitation document used for extraction.
	Upload *Blob `json:"upload,omitempty"`

	EventType          string `json:"eventType"`
	EventName          string `json:"eventName"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	TargetAudience     string `json:"targetAudience"`
	IsOnline           bool   `json:"isOnline"`
	LocationOrPlatform string `json:"locationOrPlatform"`

	Agenda []AgendaItem `json:"agenda"`

	ThemeTone         string   `json:"themeTone"`
	ThemeTopics       []string `json:"themeTopics"`
	CustomThemePrompt string   `json:"customThemePrompt,omitempty"`
	CustomTopicPrompt string   `json:"customTopicPrompt,omitempty"`

	// SelectedBackground is a data URL; it is only sent when UseUploadedBackground is set.
	SelectedBackground    string `json:"selectedBackground,omitempty"`
	UseUploadedBackground bool   `json:"useUploadedBackground"`

	// UseBrandLogo switches from the default organization logo to the slots below.
	UseBrandLogo    bool  `json:"useBrandLogo"`
	OrganizerLogo   *Blob `json:"organizerLogo,omitempty"`
	ProductLogo     *Blob `json:"productLogo,omitempty"`
	CoOrganizerLogo *Blob `json:"coOrganizerLogo,omitempty"`

	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`

	IncludeQRCode bool  `json:"includeQrCode"`
	QRCode        *Blob `json:"qrCode,omitempty"`

	Speakers []Speaker `json:"speakers"`
}

// Speaker is a person shown on the poster.
type Speaker struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Title            string `json:"title"`
	Company          string `json:"company"`
	Image            *Blob  `json:"image,omitempty"`
	EditPrompt       string `json:"editPrompt"`
	RemoveBackground bool   `json:"removeBackground"`
}

// AgendaItem is one line of the program.
type AgendaItem struct {
	ID       string `json:"id"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// Initial returns the form a new session starts from.
func Initial() EventForm {
	return EventForm{
		AspectRatio:        Landscape,
		IsOnline:           true,
		LocationOrPlatform: DefaultOnlineLocation,
		Agenda:             []AgendaItem{},
		ThemeTone:          DefaultTheme,
		ThemeTopics:        []string{"Công nghệ"},
		Speakers:           []Speaker{},
	}
}

// Clone returns a deep copy. Blobs are immutable and shared.
func (f EventForm) Clone() EventForm {
	out := f
	out.Agenda = slices.Clone(f.Agenda)
	out.ThemeTopics = slices.Clone(f.ThemeTopics)
	out.Speakers = slices.Clone(f.Speakers)
	if out.Agenda == nil {
		out.Agenda = []AgendaItem{}
	}
	if out.ThemeTopics == nil {
		out.ThemeTopics = []string{}
	}
	if out.Speakers == nil {
		out.Speakers = []Speaker{}
	}
	return out
}

// HasBrandLogos reports whether any custom logo slot is filled.
func (f EventForm) HasBrandLogos() bool {
	return f.OrganizerLogo != nil || f.ProductLogo != nil || f.CoOrganizerLogo != nil
}

// Validate checks the structural invariants of the form.
func (f EventForm) Validate() error {
	if !f.AspectRatio.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAspectRatio, f.AspectRatio)
	}
	if len(f.Speakers) > MaxSpeakers {
		return fmt.Errorf("%w: %d speakers (max %d)", ErrSpeakerLimit, len(f.Speakers), MaxSpeakers)
	}
	if len(f.ThemeTopics) > MaxTopics {
		return fmt.Errorf("%w: %d topics (max %d)", ErrTopicLimit, len(f.ThemeTopics), MaxTopics)
	}
	seen := make(map[string]bool, len(f.ThemeTopics))
	for _, t := range f.ThemeTopics {
		if seen[t] {
			return fmt.Errorf("%w: %q", ErrDuplicateTopic, t)
		}
		seen[t] = true
	}
	return nil
}
