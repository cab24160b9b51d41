// Package templates provides the built-in solid colour backgrounds.
package templates

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"

	"postergen/internal/form"
)

const (
	count      = 8
	hueStep    = 45
	saturation = 0.70
	lightness  = 0.90
	size       = 100
)

// Template is one selectable background.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"` // CSS hsl() notation
	Hex     string `json:"hex"`
	DataURL string `json:"dataUrl"`
}

var (
	once    sync.Once
	library []Template
)

// List returns the built-in templates in display order.
func List() []Template {
	once.Do(build)
	out := make([]Template, len(library))
	copy(out, library)
	return out
}

// Get returns the template with the given id.
func Get(id string) (Template, error) {
	for _, t := range List() {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("template %s: %w", id, form.ErrNotFound)
}

// PNG returns the decoded image bytes of a template.
func (t Template) PNG() ([]byte, error) {
	_, data, err := form.ParseDataURL(t.DataURL)
	return data, err
}

func build() {
	library = make([]Template, count)
	for i := range library {
		hue := (i * hueStep) % 360
		rgb := hslToRGB(float64(hue), saturation, lightness)
		library[i] = Template{
			ID:      fmt.Sprintf("template-%d", i),
			Name:    fmt.Sprintf("Mẫu %d", i+1),
			Color:   fmt.Sprintf("hsl(%d, 70%%, 90%%)", hue),
			Hex:     fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B),
			DataURL: form.DataURL("image/png", solidPNG(rgb)),
		}
	}
}

func solidPNG(c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// hslToRGB converts CSS hsl() components (h in degrees, s and l in [0,1]).
func hslToRGB(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 { return uint8(math.Round((v + m) * 255)) }
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xff}
}
