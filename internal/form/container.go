package form

import (
	"fmt"
	"slices"
	"sync"

	"postergen/internal/logging"

	"github.com/google/uuid"
)

// LogoSlot names one of the custom branding positions.
type LogoSlot string

const (
	SlotOrganizer   LogoSlot = "organizer"
	SlotProduct     LogoSlot = "product"
	SlotCoOrganizer LogoSlot = "co_organizer"
)

// ParseLogoSlot validates a slot name.
func ParseLogoSlot(s string) (LogoSlot, error) {
	switch slot := LogoSlot(s); slot {
	case SlotOrganizer, SlotProduct, SlotCoOrganizer:
		return slot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLogoSlot, s)
}

// Container owns the current EventForm. Every change goes through Update;
// readers only ever see deep copies.
type Container struct {
	mu   sync.RWMutex
	form EventForm
}

// NewContainer returns a container holding the initial form.
func NewContainer() *Container {
	return &Container{form: Initial()}
}

// Snapshot returns a deep copy of the current form.
func (c *Container) Snapshot() EventForm {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.form.Clone()
}

// Update merges the patch into the current form and returns the result.
// The form is left unchanged if the result would break an invariant.
func (c *Container) Update(p Patch) (EventForm, error) {
	return c.modify(func(EventForm) (Patch, error) { return p, nil })
}

// UpdateKeepingImages is Update for callers that cannot carry blobs, such as
// JSON clients. Speakers in the patch take the current image of the speaker
// with the same id, or none.
func (c *Container) UpdateKeepingImages(p Patch) (EventForm, error) {
	return c.modify(func(cur EventForm) (Patch, error) {
		if p.Speakers == nil {
			return p, nil
		}
		images := make(map[string]*Blob, len(cur.Speakers))
		for _, sp := range cur.Speakers {
			images[sp.ID] = sp.Image
		}
		speakers := slices.Clone(*p.Speakers)
		for i := range speakers {
			speakers[i].Image = images[speakers[i].ID]
		}
		p.Speakers = &speakers
		return p, nil
	})
}

// modify builds a patch from the current form and applies it under one lock.
func (c *Container) modify(build func(cur EventForm) (Patch, error)) (EventForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := build(c.form.Clone())
	if err != nil {
		return c.form.Clone(), err
	}
	next := p.Apply(c.form)
	if err := next.Validate(); err != nil {
		return c.form.Clone(), err
	}
	c.form = next
	logging.FormDebug("form updated: topics=%v speakers=%d agenda=%d online=%v", next.ThemeTopics, len(next.Speakers), len(next.Agenda), next.IsOnline)
	return next.Clone(), nil
}

// Reset restores the initial form.
func (c *Container) Reset() EventForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = Initial()
	logging.Form("form reset")
	return c.form.Clone()
}

// ToggleTopic deselects a selected topic, or selects it after evicting the
// oldest selection when the cap is reached.
func (c *Container) ToggleTopic(topic string) (EventForm, error) {
	return c.modify(func(cur EventForm) (Patch, error) {
		topics := cur.ThemeTopics
		if i := slices.Index(topics, topic); i >= 0 {
			topics = slices.Delete(topics, i, i+1)
		} else {
			for len(topics) >= MaxTopics {
				topics = topics[1:]
			}
			topics = append(slices.Clone(topics), topic)
		}
		return Patch{ThemeTopics: &topics}, nil
	})
}

// SetOnline switches the event format. Going online restores the default
// platform; going offline clears the location for the user to fill in.
func (c *Container) SetOnline(online bool) (EventForm, error) {
	location := ""
	if online {
		location = DefaultOnlineLocation
	}
	return c.Update(Patch{IsOnline: &online, LocationOrPlatform: &location})
}

// AddSpeaker appends a blank speaker. At the cap nothing changes and
// ErrSpeakerLimit is returned.
func (c *Container) AddSpeaker() (Speaker, error) {
	s := Speaker{ID: uuid.NewString(), RemoveBackground: true}
	_, err := c.modify(func(cur EventForm) (Patch, error) {
		if len(cur.Speakers) >= MaxSpeakers {
			return Patch{}, fmt.Errorf("%w: max %d", ErrSpeakerLimit, MaxSpeakers)
		}
		speakers := append(cur.Speakers, s)
		return Patch{Speakers: &speakers}, nil
	})
	if err != nil {
		return Speaker{}, err
	}
	return s, nil
}

// UpdateSpeaker merges a patch into the speaker with the given id.
func (c *Container) UpdateSpeaker(id string, sp SpeakerPatch) (Speaker, error) {
	var updated Speaker
	_, err := c.modify(func(cur EventForm) (Patch, error) {
		i := slices.IndexFunc(cur.Speakers, func(s Speaker) bool { return s.ID == id })
		if i < 0 {
			return Patch{}, fmt.Errorf("speaker %s: %w", id, ErrNotFound)
		}
		cur.Speakers[i] = sp.Apply(cur.Speakers[i])
		updated = cur.Speakers[i]
		return Patch{Speakers: &cur.Speakers}, nil
	})
	return updated, err
}

// SetSpeakerImage replaces or, with nil, clears a speaker's reference image.
func (c *Container) SetSpeakerImage(id string, b *Blob) (Speaker, error) {
	return c.UpdateSpeaker(id, SpeakerPatch{Image: &BlobChange{Blob: b}})
}

// RemoveSpeaker deletes the speaker with the given id.
func (c *Container) RemoveSpeaker(id string) error {
	_, err := c.modify(func(cur EventForm) (Patch, error) {
		i := slices.IndexFunc(cur.Speakers, func(s Speaker) bool { return s.ID == id })
		if i < 0 {
			return Patch{}, fmt.Errorf("speaker %s: %w", id, ErrNotFound)
		}
		speakers := slices.Delete(cur.Speakers, i, i+1)
		return Patch{Speakers: &speakers}, nil
	})
	return err
}

// AddAgendaItem appends a blank agenda line.
func (c *Container) AddAgendaItem() AgendaItem {
	item := AgendaItem{ID: uuid.NewString()}
	_, _ = c.modify(func(cur EventForm) (Patch, error) {
		agenda := append(cur.Agenda, item)
		return Patch{Agenda: &agenda}, nil
	})
	return item
}

// UpdateAgendaItem merges a patch into the agenda item with the given id.
func (c *Container) UpdateAgendaItem(id string, ap AgendaPatch) (AgendaItem, error) {
	var updated AgendaItem
	_, err := c.modify(func(cur EventForm) (Patch, error) {
		i := slices.IndexFunc(cur.Agenda, func(a AgendaItem) bool { return a.ID == id })
		if i < 0 {
			return Patch{}, fmt.Errorf("agenda item %s: %w", id, ErrNotFound)
		}
		cur.Agenda[i] = ap.Apply(cur.Agenda[i])
		updated = cur.Agenda[i]
		return Patch{Agenda: &cur.Agenda}, nil
	})
	return updated, err
}

// RemoveAgendaItem deletes the agenda item with the given id.
func (c *Container) RemoveAgendaItem(id string) error {
	_, err := c.modify(func(cur EventForm) (Patch, error) {
		i := slices.IndexFunc(cur.Agenda, func(a AgendaItem) bool { return a.ID == id })
		if i < 0 {
			return Patch{}, fmt.Errorf("agenda item %s: %w", id, ErrNotFound)
		}
		agenda := slices.Delete(cur.Agenda, i, i+1)
		return Patch{Agenda: &agenda}, nil
	})
	return err
}

// SetLogo fills or, with nil, clears a branding slot.
func (c *Container) SetLogo(slot LogoSlot, b *Blob) (EventForm, error) {
	change := &BlobChange{Blob: b}
	switch slot {
	case SlotOrganizer:
		return c.Update(Patch{OrganizerLogo: change})
	case SlotProduct:
		return c.Update(Patch{ProductLogo: change})
	case SlotCoOrganizer:
		return c.Update(Patch{CoOrganizerLogo: change})
	}
	return c.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownLogoSlot, slot)
}

// SetQRCode fills or, with nil, clears the QR code image.
func (c *Container) SetQRCode(b *Blob) (EventForm, error) {
	return c.Update(Patch{QRCode: &BlobChange{Blob: b}})
}

// SetUpload stores the document used for extraction.
func (c *Container) SetUpload(b *Blob) (EventForm, error) {
	return c.Update(Patch{Upload: &BlobChange{Blob: b}})
}

// SelectBackground uses the given data URL as the forced background.
func (c *Container) SelectBackground(dataURL string) (EventForm, error) {
	return c.Update(Patch{SelectedBackground: &dataURL, UseUploadedBackground: Ptr(true)})
}

// ClearBackground drops the forced background.
func (c *Container) ClearBackground() (EventForm, error) {
	return c.Update(Patch{SelectedBackground: Ptr(""), UseUploadedBackground: Ptr(false)})
}

// ApplyExtraction merges extracted fields into the form.
func (c *Container) ApplyExtraction(e Extraction) (EventForm, error) {
	return c.Update(e.Patch())
}
