// Package session ties the form, the prompt compiler and the model together
// and keeps the generated posters for the lifetime of the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"postergen/internal/form"
	"postergen/internal/gemini"
	"postergen/internal/logging"
	"postergen/internal/prompt"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrBusy is returned when the same operation is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrNoUpload means extraction was requested without a document.
	ErrNoUpload = errors.New("no document uploaded")

	// ErrNoPoster means no poster has been generated yet.
	ErrNoPoster = errors.New("no poster generated")

	// ErrNotImage means a background candidate is not an image.
	ErrNotImage = errors.New("file is not an image")
)

// Compiler builds the model request from a form snapshot.
type Compiler interface {
	Compile(ctx context.Context, f form.EventForm) (*prompt.Compiled, error)
}

// Model is the set of model calls a session makes.
type Model interface {
	GeneratePoster(ctx context.Context, compiled *prompt.Compiled, ratio form.AspectRatio) (*gemini.Image, error)
	ExtractEventInfo(ctx context.Context, doc prompt.Attachment) (form.Extraction, error)
	CleanBackground(ctx context.Context, img prompt.Attachment) (*gemini.Image, error)
}

// Options configures a session.
type Options struct {
	// FilePrefix starts download names, e.g. "MISA".
	FilePrefix string

	// Now is the clock used for history timestamps.
	Now func() time.Time
}

// Session owns one form, its current poster and its history.
//
// Each model-backed operation holds its own single-slot token: a second
// call of the same operation while one is in flight fails with ErrBusy
// instead of queueing or racing.
type Session struct {
	form     *form.Container
	compiler Compiler
	model    Model
	prefix   string
	now      func() time.Time

	generating *semaphore.Weighted
	extracting *semaphore.Weighted
	cleaning   *semaphore.Weighted

	state       int32 // atomic State
	extractBusy atomic.Bool
	cleanBusy   atomic.Bool

	mu      sync.RWMutex
	current *HistoryItem
	lastErr error

	history History
}

// New creates a session with a fresh form.
func New(compiler Compiler, model Model, opts Options) *Session {
	if opts.FilePrefix == "" {
		opts.FilePrefix = "MISA"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logging.Session("session created (prefix=%s)", opts.FilePrefix)
	return &Session{
		form:       form.NewContainer(),
		compiler:   compiler,
		model:      model,
		prefix:     opts.FilePrefix,
		now:        opts.Now,
		generating: semaphore.NewWeighted(1),
		extracting: semaphore.NewWeighted(1),
		cleaning:   semaphore.NewWeighted(1),
		state:      int32(StateIdle),
	}
}

// Form returns the form container.
func (s *Session) Form() *form.Container {
	return s.form
}

// State returns the generation state.
func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		State:        s.State(),
		Extracting:   s.extractBusy.Load(),
		Cleaning:     s.cleanBusy.Load(),
		HasPoster:    s.current != nil,
		HistoryCount: s.history.Len(),
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Preview compiles the current form without calling the model.
func (s *Session) Preview(ctx context.Context) (*prompt.Compiled, error) {
	return s.compiler.Compile(ctx, s.form.Snapshot())
}

// Generate compiles the current form, renders a poster and records it as
// the current poster and newest history entry. On failure the current
// poster and history are left untouched.
func (s *Session) Generate(ctx context.Context) (*HistoryItem, error) {
	if !s.generating.TryAcquire(1) {
		logging.SessionWarn("generate rejected: already generating")
		return nil, ErrBusy
	}
	defer s.generating.Release(1)

	atomic.StoreInt32(&s.state, int32(StateGenerating))
	defer atomic.StoreInt32(&s.state, int32(StateIdle))

	timer := logging.StartTimer(logging.CategorySession, "generate")
	defer timer.Stop()

	item, err := s.generate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		logging.SessionError("generate failed: %v", err)
		return nil, err
	}
	s.current = item
	s.history.Add(*item)
	logging.Session("poster %s generated (%d in history)", item.ID, s.history.Len())
	return item, nil
}

func (s *Session) generate(ctx context.Context) (*HistoryItem, error) {
	snap := s.form.Snapshot()
	compiled, err := s.compiler.Compile(ctx, snap)
	if err != nil {
		return nil, err
	}
	img, err := s.model.GeneratePoster(ctx, compiled, snap.AspectRatio)
	if err != nil {
		return nil, err
	}
	return &HistoryItem{ID: uuid.NewString(), Image: img, CreatedAt: s.now()}, nil
}

// Extract reads event details off the uploaded document and merges them
// into the form. The form is unchanged on failure.
func (s *Session) Extract(ctx context.Context) (form.EventForm, error) {
	if !s.extracting.TryAcquire(1) {
		return form.EventForm{}, ErrBusy
	}
	defer s.extracting.Release(1)
	s.extractBusy.Store(true)
	defer s.extractBusy.Store(false)

	upload := s.form.Snapshot().Upload
	if upload == nil {
		return form.EventForm{}, ErrNoUpload
	}
	doc, err := attachment("upload", upload)
	if err != nil {
		return form.EventForm{}, err
	}

	ext, err := s.model.ExtractEventInfo(ctx, doc)
	if err != nil {
		logging.SessionError("extract failed: %v", err)
		return form.EventForm{}, err
	}
	logging.Session("extracted event %q from %s", ext.EventName, upload.Name())
	return s.form.ApplyExtraction(ext)
}

// CleanBackground strips text and foreground objects from an image and
// selects the result as the forced background.
func (s *Session) CleanBackground(ctx context.Context, b *form.Blob) (*gemini.Image, error) {
	if !s.cleaning.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.cleaning.Release(1)
	s.cleanBusy.Store(true)
	defer s.cleanBusy.Store(false)

	in, err := attachment("background", b)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(in.MimeType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, in.MimeType)
	}

	img, err := s.model.CleanBackground(ctx, in)
	if err != nil {
		logging.SessionError("clean background failed: %v", err)
		return nil, err
	}
	if _, err := s.form.SelectBackground(img.DataURL()); err != nil {
		return nil, err
	}
	return img, nil
}

// UseBackground selects an image as the forced background as-is.
func (s *Session) UseBackground(b *form.Blob) (form.EventForm, error) {
	in, err := attachment("background", b)
	if err != nil {
		return form.EventForm{}, err
	}
	if !strings.HasPrefix(in.MimeType, "image/") {
		return form.EventForm{}, fmt.Errorf("%w: %s", ErrNotImage, in.MimeType)
	}
	return s.form.SelectBackground(form.DataURL(in.MimeType, in.Data))
}

// Poster returns the current poster.
func (s *Session) Poster() (HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return HistoryItem{}, ErrNoPoster
	}
	return *s.current, nil
}

// Open makes a history entry the current poster.
func (s *Session) Open(id string) (HistoryItem, error) {
	item, ok := s.history.Get(id)
	if !ok {
		return HistoryItem{}, fmt.Errorf("history %s: %w", id, form.ErrNotFound)
	}
	s.mu.Lock()
	s.current = &item
	s.mu.Unlock()
	return item, nil
}

// History returns the generated posters, newest first.
func (s *Session) History() []HistoryItem {
	return s.history.List()
}

// HistoryItem returns one history entry.
func (s *Session) HistoryItem(id string) (HistoryItem, error) {
	item, ok := s.history.Get(id)
	if !ok {
		return HistoryItem{}, fmt.Errorf("history %s: %w", id, form.ErrNotFound)
	}
	return item, nil
}

// PosterFileName is the download name for the current poster.
func (s *Session) PosterFileName(item HistoryItem) string {
	return PosterFileName(s.prefix, item)
}

// HistoryFileName is the download name for a history entry.
func (s *Session) HistoryFileName(item HistoryItem) string {
	return HistoryFileName(s.prefix, item)
}

func attachment(label string, b *form.Blob) (prompt.Attachment, error) {
	if b == nil {
		return prompt.Attachment{}, fmt.Errorf("read %s: no file", label)
	}
	data, mimeType, err := b.Load()
	if err != nil {
		return prompt.Attachment{}, fmt.Errorf("read %s: %w", label, err)
	}
	return prompt.Attachment{Label: label, MimeType: mimeType, Data: data}, nil
}
