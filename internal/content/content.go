// Package content defines the page's content document: the ordered sections
// the interactive components bind to, with the marker fields they look for
// (reveal style and delay, counter targets, parallax speeds, tilt flags).
// A default document ships embedded in the binary; page authors supply their
// own with --content.
package content

import "time"

// Kind identifies a section's layout and which components bind to it.
type Kind string

const (
	KindHero     Kind = "hero"
	KindStats    Kind = "stats"
	KindFeatures Kind = "features"
	KindPartners Kind = "partners"
	KindPanel    Kind = "panel"
	KindContact  Kind = "contact"
	KindFooter   Kind = "footer"
)

// RevealStyle selects the entrance transition a section plays the first time
// it becomes visible. The empty style means the section does not participate
// in reveal at all.
type RevealStyle string

const (
	RevealNone       RevealStyle = ""
	RevealFade       RevealStyle = "fade"
	RevealRise       RevealStyle = "rise"
	RevealSlideLeft  RevealStyle = "slide-left"
	RevealSlideRight RevealStyle = "slide-right"
)

// FieldType identifies a contact form field's input and validation behavior.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
)

// Site is the whole content document.
type Site struct {
	Brand    Brand     `yaml:"brand"`
	Nav      []NavLink `yaml:"nav"`
	Backdrop []Layer   `yaml:"backdrop"`
	Sections []Section `yaml:"sections"`
}

// Brand names the page owner.
type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
}

// NavLink is one entry of the navigation menu; Section refers to a section id.
type NavLink struct {
	Label   string `yaml:"label"`
	Section string `yaml:"section"`
}

// Layer is one parallax backdrop strip. Speed is the per-layer factor applied
// to the scroll offset; zero means "use the default" (0.5).
type Layer struct {
	Glyphs string  `yaml:"glyphs"`
	Speed  float64 `yaml:"speed"`
}

// Section is one block of the page. Only the fields matching its Kind are
// consulted; the rest stay zero. RevealDelay is a duration string ("150ms");
// use Delay for the parsed value.
type Section struct {
	ID          string      `yaml:"id"`
	Kind        Kind        `yaml:"kind"`
	Title       string      `yaml:"title"`
	Body        string      `yaml:"body"`
	Reveal      RevealStyle `yaml:"reveal"`
	RevealDelay string      `yaml:"reveal_delay"`
	Lazy        bool        `yaml:"lazy"`
	Stats       []Stat      `yaml:"stats"`
	Features    []Feature   `yaml:"features"`
	Partners    []string    `yaml:"partners"`
	Form        *FormSpec   `yaml:"form"`
}

// Delay returns the parsed reveal delay. Documents that passed validation
// always parse; anything else falls back to zero.
func (sec *Section) Delay() time.Duration {
	if sec.RevealDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(sec.RevealDelay)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Stat is one animated counter: the displayed value climbs to Target.
type Stat struct {
	Label  string `yaml:"label"`
	Target int    `yaml:"target"`
	Suffix string `yaml:"suffix"`
}

// Feature is one card of a features section.
type Feature struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Tilt  bool   `yaml:"tilt"`
}

// FormSpec describes the contact form.
type FormSpec struct {
	Fields  []FieldSpec `yaml:"fields"`
	Submit  string      `yaml:"submit"`
	Sending string      `yaml:"sending"`
	Success string      `yaml:"success"`
}

// FieldSpec describes one form field.
type FieldSpec struct {
	Name        string    `yaml:"name"`
	Label       string    `yaml:"label"`
	Type        FieldType `yaml:"type"`
	Required    bool      `yaml:"required"`
	Placeholder string    `yaml:"placeholder"`
	Options     []string  `yaml:"options"`
}

// SectionByID returns the section with the given id, or nil.
func (s *Site) SectionByID(id string) *Section {
	for i := range s.Sections {
		if s.Sections[i].ID == id {
			return &s.Sections[i]
		}
	}
	return nil
}

// Revealed reports the sections that carry a reveal marker, in page order.
func (s *Site) Revealed() []*Section {
	var out []*Section
	for i := range s.Sections {
		if s.Sections[i].Reveal != RevealNone {
			out = append(out, &s.Sections[i])
		}
	}
	return out
}

// Contact returns the contact section, or nil when the page has none.
func (s *Site) Contact() *Section {
	for i := range s.Sections {
		if s.Sections[i].Kind == KindContact && s.Sections[i].Form != nil {
			return &s.Sections[i]
		}
	}
	return nil
}
