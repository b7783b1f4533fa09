package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Validation sentinels. Loaders wrap these with the offending section id so
// callers can both match the class of problem and show a precise message.
var (
	ErrNoSections    = errors.New("document has no sections")
	ErrDuplicateID   = errors.New("duplicate section id")
	ErrUnknownKind   = errors.New("unknown section kind")
	ErrUnknownReveal = errors.New("unknown reveal style")
	ErrUnknownField  = errors.New("unknown form field type")
	ErrBadDelay      = errors.New("invalid reveal delay")
	ErrBadTarget     = errors.New("counter target must not be negative")
	ErrBadSpeed      = errors.New("parallax speed must be between 0 and 2")
	ErrDanglingNav   = errors.New("nav link points to unknown section")
	ErrEmptyForm     = errors.New("contact form has no fields")
	ErrNoOptions     = errors.New("select field has no options")
)

// Load reads and validates a content document from disk.
func Load(path string) (*Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content document: %w", err)
	}
	site, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content document %s: %w", path, err)
	}
	return site, nil
}

// Parse decodes and validates a content document.
func Parse(raw []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(raw, &site); err != nil {
		return nil, fmt.Errorf("parsing content document: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// MustDefault returns the embedded default document. The embedded document is
// validated by tests; a failure here is a build defect, so it panics.
func MustDefault() *Site {
	site, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded content document invalid: %v", err))
	}
	return site
}

// Validate checks the document's structure and marker values. It returns the
// first problem found, wrapped with the location.
func (s *Site) Validate() error {
	if len(s.Sections) == 0 {
		return ErrNoSections
	}
	for i, layer := range s.Backdrop {
		if layer.Speed < 0 || layer.Speed > 2 {
			return fmt.Errorf("backdrop layer %d: %w (got %g)", i, ErrBadSpeed, layer.Speed)
		}
	}
	seen := make(map[string]bool, len(s.Sections))
	for i := range s.Sections {
		sec := &s.Sections[i]
		if sec.ID == "" {
			return fmt.Errorf("section %d: missing id", i)
		}
		if seen[sec.ID] {
			return fmt.Errorf("section %q: %w", sec.ID, ErrDuplicateID)
		}
		seen[sec.ID] = true
		if err := sec.validate(); err != nil {
			return fmt.Errorf("section %q: %w", sec.ID, err)
		}
	}
	for _, link := range s.Nav {
		if !seen[link.Section] {
			return fmt.Errorf("nav %q: %w (%q)", link.Label, ErrDanglingNav, link.Section)
		}
	}
	return nil
}

func (sec *Section) validate() error {
	switch sec.Kind {
	case KindHero, KindStats, KindFeatures, KindPartners, KindPanel, KindContact, KindFooter:
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, sec.Kind)
	}
	switch sec.Reveal {
	case RevealNone, RevealFade, RevealRise, RevealSlideLeft, RevealSlideRight:
	default:
		return fmt.Errorf("%w %q", ErrUnknownReveal, sec.Reveal)
	}
	if sec.RevealDelay != "" {
		d, err := time.ParseDuration(sec.RevealDelay)
		if err != nil || d < 0 {
			return fmt.Errorf("%w %q", ErrBadDelay, sec.RevealDelay)
		}
	}
	for _, st := range sec.Stats {
		if st.Target < 0 {
			return fmt.Errorf("stat %q: %w (got %d)", st.Label, ErrBadTarget, st.Target)
		}
	}
	if sec.Kind == KindContact {
		if sec.Form == nil || len(sec.Form.Fields) == 0 {
			return ErrEmptyForm
		}
		for _, f := range sec.Form.Fields {
			switch f.Type {
			case FieldText, FieldEmail, FieldPhone, FieldSelect, FieldTextarea:
			default:
				return fmt.Errorf("field %q: %w %q", f.Name, ErrUnknownField, f.Type)
			}
			if f.Type == FieldSelect && len(f.Options) == 0 {
				return fmt.Errorf("field %q: %w", f.Name, ErrNoOptions)
			}
		}
	}
	return nil
}
