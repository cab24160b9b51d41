package form

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// FallbackMimeType is used when neither the caller nor content sniffing
// can name the type.
const FallbackMimeType = "image/jpeg"

// Blob is an immutable file reference: either bytes already in memory or a
// path read on first use.
type Blob struct {
	name     string
	mimeType string
	path     string

	mu     sync.Mutex
	loaded bool
	data   []byte
}

// NewBlob wraps in-memory bytes. An empty mimeType is sniffed from content.
func NewBlob(name string, data []byte, mimeType string) *Blob {
	return &Blob{name: name, mimeType: resolveMimeType(mimeType, data), data: data, loaded: true}
}

// FileBlob references a file on disk. Nothing is read until Load.
func FileBlob(path, mimeType string) *Blob {
	return &Blob{name: filepath.Base(path), mimeType: mimeType, path: path}
}

// BlobFromDataURL decodes a base64 data URL.
func BlobFromDataURL(name, dataURL string) (*Blob, error) {
	mimeType, data, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return NewBlob(name, data, mimeType), nil
}

// Name returns the original file name.
func (b *Blob) Name() string { return b.name }

// Path returns the backing file path, if any.
func (b *Blob) Path() string { return b.path }

// MimeType returns the declared type. An undeclared type on a file blob is
// resolved by loading it; if that fails the fallback type is returned.
func (b *Blob) MimeType() string {
	if _, mt, err := b.Load(); err == nil {
		return mt
	}
	if b.mimeType != "" {
		return b.mimeType
	}
	return FallbackMimeType
}

// Load returns the bytes and resolved mimetype, reading the file on first
// successful call. Read errors are not cached.
func (b *Blob) Load() ([]byte, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loaded {
		data, err := os.ReadFile(b.path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", b.name, err)
		}
		b.data = data
		b.mimeType = resolveMimeType(b.mimeType, data)
		b.loaded = true
	}
	return b.data, b.mimeType, nil
}

// Loaded reports whether the bytes are in memory.
func (b *Blob) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Preview returns the content as a data URL.
func (b *Blob) Preview() (string, error) {
	data, mt, err := b.Load()
	if err != nil {
		return "", err
	}
	return DataURL(mt, data), nil
}

// IsImage reports whether the blob holds an image.
func (b *Blob) IsImage() bool {
	return strings.HasPrefix(b.MimeType(), "image/")
}

type blobJSON struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size,omitempty"`
	Preview  string `json:"preview,omitempty"`
}

// MarshalJSON reports metadata and, for in-memory images, a preview data URL.
func (b *Blob) MarshalJSON() ([]byte, error) {
	b.mu.Lock()
	out := blobJSON{Name: b.name, MimeType: b.mimeType}
	if b.loaded {
		out.Size = len(b.data)
		if strings.HasPrefix(b.mimeType, "image/") {
			out.Preview = DataURL(b.mimeType, b.data)
		}
	}
	b.mu.Unlock()
	return json.Marshal(out)
}

func resolveMimeType(declared string, data []byte) string {
	if declared != "" {
		return declared
	}
	detected := mimetype.Detect(data)
	if detected == nil || detected.Is("application/octet-stream") {
		return FallbackMimeType
	}
	mt, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(mt)
}

// DataURL encodes bytes as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL splits a base64 data URL into its mimetype and bytes.
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}
	mimeType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return mimeType, data, nil
}
