package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/prettynotes/internal/highlight"
)

// Style holds every visual constant the renderer uses. Indents and spacing
// are in inches and points respectively.
type Style struct {
	Font                   string           `yaml:"font"`
	HeadingSize            int              `yaml:"heading_size"`
	SubsectionMarkerSize   int              `yaml:"subsection_marker_size"`
	BodySize               int              `yaml:"body_size"`
	TextColor              string           `yaml:"text_color"`
	BaseIndent             float64          `yaml:"base_indent"`
	IndentUnit             float64          `yaml:"indent_unit"`
	SectionSpacing         float64          `yaml:"section_spacing"`
	SubsectionSpacing      float64          `yaml:"subsection_spacing"`
	BulletSpacing          float64          `yaml:"bullet_spacing"`
	SectionSpacingAfter    float64          `yaml:"section_spacing_after"`
	SubsectionSpacingAfter float64          `yaml:"subsection_spacing_after"`
	BulletSpacingAfter     float64          `yaml:"bullet_spacing_after"`
	BulletGlyph            string           `yaml:"bullet_glyph"`
	NoContentMessage       string           `yaml:"no_content_message"`
	Rules                  []highlight.Rule `yaml:"rules"`
}

// DefaultStyle returns the built-in look: Courier New throughout, 14pt
// section markers and quarter-inch indentation steps.
func DefaultStyle() Style {
	return Style{
		Font:                   "Courier New",
		HeadingSize:            14,
		SubsectionMarkerSize:   13,
		BodySize:               12,
		TextColor:              highlight.DefaultTextColor,
		BaseIndent:             0.25,
		IndentUnit:             0.25,
		SectionSpacing:         12,
		SubsectionSpacing:      6,
		BulletSpacing:          3,
		SectionSpacingAfter:    8,
		SubsectionSpacingAfter: 6,
		BulletSpacingAfter:     3,
		BulletGlyph:            "|-- ",
		NoContentMessage:       "No structured content to generate DOCX.",
		Rules:                  highlight.DefaultRules,
	}
}

// LoadStyle reads a YAML style file over the defaults. Fields missing from
// the file keep their default values; a non-empty rules list replaces the
// built-in keyword table.
func LoadStyle(path string) (Style, error) {
	s := DefaultStyle()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read style file: %w", err)
	}
	var override Style
	if err := yaml.Unmarshal(data, &override); err != nil {
		return s, fmt.Errorf("parse style file %s: %w", path, err)
	}
	s.merge(override)
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("style file %s: %w", path, err)
	}
	return s, nil
}

func (s *Style) merge(o Style) {
	if o.Font != "" {
		s.Font = o.Font
	}
	if o.HeadingSize != 0 {
		s.HeadingSize = o.HeadingSize
	}
	if o.SubsectionMarkerSize != 0 {
		s.SubsectionMarkerSize = o.SubsectionMarkerSize
	}
	if o.BodySize != 0 {
		s.BodySize = o.BodySize
	}
	if o.TextColor != "" {
		s.TextColor = o.TextColor
	}
	if o.BaseIndent != 0 {
		s.BaseIndent = o.BaseIndent
	}
	if o.IndentUnit != 0 {
		s.IndentUnit = o.IndentUnit
	}
	if o.SectionSpacing != 0 {
		s.SectionSpacing = o.SectionSpacing
	}
	if o.SubsectionSpacing != 0 {
		s.SubsectionSpacing = o.SubsectionSpacing
	}
	if o.BulletSpacing != 0 {
		s.BulletSpacing = o.BulletSpacing
	}
	if o.SectionSpacingAfter != 0 {
		s.SectionSpacingAfter = o.SectionSpacingAfter
	}
	if o.SubsectionSpacingAfter != 0 {
		s.SubsectionSpacingAfter = o.SubsectionSpacingAfter
	}
	if o.BulletSpacingAfter != 0 {
		s.BulletSpacingAfter = o.BulletSpacingAfter
	}
	if o.BulletGlyph != "" {
		s.BulletGlyph = o.BulletGlyph
	}
	if o.NoContentMessage != "" {
		s.NoContentMessage = o.NoContentMessage
	}
	if len(o.Rules) > 0 {
		s.Rules = o.Rules
	}
}

// Validate checks that sizes and indents are usable.
func (s Style) Validate() error {
	if s.HeadingSize <= 0 || s.SubsectionMarkerSize <= 0 || s.BodySize <= 0 {
		return fmt.Errorf("font sizes must be positive")
	}
	if s.BaseIndent < 0 || s.IndentUnit < 0 {
		return fmt.Errorf("indents must not be negative")
	}
	for _, sp := range []float64{s.SectionSpacing, s.SubsectionSpacing, s.BulletSpacing, s.SectionSpacingAfter, s.SubsectionSpacingAfter, s.BulletSpacingAfter} {
		if sp < 0 {
			return fmt.Errorf("paragraph spacing must not be negative")
		}
	}
	for i, r := range s.Rules {
		if r.Color == "" {
			return fmt.Errorf("rule %d has no color", i)
		}
	}
	return nil
}
