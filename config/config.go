// Package config holds the preflight profile: the target paper size and
// the tolerances every check is measured against.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is the immutable set of bounds a document is checked against.
// All lengths are PDF points (1/72 inch).
type Profile struct {
	// Paper names the preset the page size came from, if any.
	Paper string `yaml:"paper,omitempty" json:"paper,omitempty"`

	// PageWidth and PageHeight are the printable area.
	PageWidth  float64 `yaml:"page_width" json:"page_width"`
	PageHeight float64 `yaml:"page_height" json:"page_height"`

	// A page dimension passes the margin check when it lies in
	// [Page - MinMargin, Page + MaxMargin].
	MinMargin float64 `yaml:"min_margin" json:"min_margin"`
	MaxMargin float64 `yaml:"max_margin" json:"max_margin"`

	MinFontSize float64 `yaml:"min_font_size" json:"min_font_size"`
	MaxFontSize float64 `yaml:"max_font_size" json:"max_font_size"`

	// MinResolution is enforced; MaxResolution is informational.
	MinResolution float64 `yaml:"min_resolution" json:"min_resolution"`
	MaxResolution float64 `yaml:"max_resolution" json:"max_resolution"`

	// Bleed is subtracted from the media box before computing image DPI.
	Bleed float64 `yaml:"bleed" json:"bleed"`
}

type paperSize struct {
	width, height float64
}

var papers = map[string]paperSize{
	"a3":     {842, 1191},
	"a4":     {595, 842},
	"a5":     {420, 595},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// Default returns the A4 profile.
func Default() Profile {
	return Profile{
		Paper:         "a4",
		PageWidth:     595,
		PageHeight:    842,
		MinMargin:     24,
		MaxMargin:     72,
		MinFontSize:   6,
		MaxFontSize:   14,
		MinResolution: 300,
		MaxResolution: 600,
		Bleed:         24,
	}
}

// Paper returns the default profile resized to a named paper size.
// Names are case-insensitive.
func Paper(name string) (Profile, error) {
	size, ok := papers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown paper size %q (known: %s)", name, strings.Join(PaperNames(), ", "))
	}
	p := Default()
	p.Paper = strings.ToLower(strings.TrimSpace(name))
	p.PageWidth = size.width
	p.PageHeight = size.height
	return p, nil
}

// PaperNames returns the known paper presets, sorted.
func PaperNames() []string {
	names := make([]string, 0, len(papers))
	for name := range papers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse reads a YAML profile. Fields left out keep their default, or the
// value of the "paper" preset when one is named. Unknown fields are an
// error.
func Parse(data []byte) (Profile, error) {
	var head struct {
		Paper string `yaml:"paper"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	p := Default()
	if head.Paper != "" {
		var err error
		if p, err = Paper(head.Paper); err != nil {
			return Profile{}, err
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	p.Paper = strings.ToLower(p.Paper)

	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile: %w", err)
	}
	return p, nil
}

// Load reads and parses a YAML profile file.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate reports the first inconsistent bound.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"page_width", p.PageWidth},
		{"page_height", p.PageHeight},
		{"min_margin", p.MinMargin},
		{"max_margin", p.MaxMargin},
		{"min_font_size", p.MinFontSize},
		{"max_font_size", p.MaxFontSize},
		{"min_resolution", p.MinResolution},
		{"max_resolution", p.MaxResolution},
		{"bleed", p.Bleed},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be finite, got %v", f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", f.name, f.value)
		}
	}

	if p.PageWidth == 0 || p.PageHeight == 0 {
		return fmt.Errorf("page size must be positive, got %gx%g", p.PageWidth, p.PageHeight)
	}
	if p.MinFontSize > p.MaxFontSize {
		return fmt.Errorf("min_font_size %g exceeds max_font_size %g", p.MinFontSize, p.MaxFontSize)
	}
	if p.MinResolution == 0 {
		return fmt.Errorf("min_resolution must be positive")
	}
	if p.MinResolution > p.MaxResolution {
		return fmt.Errorf("min_resolution %g exceeds max_resolution %g", p.MinResolution, p.MaxResolution)
	}
	if p.Bleed >= p.PageWidth || p.Bleed >= p.PageHeight {
		return fmt.Errorf("bleed %g must be smaller than the page size %gx%g", p.Bleed, p.PageWidth, p.PageHeight)
	}
	return nil
}

// YAML encodes the profile.
func (p Profile) YAML() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return data, nil
}
