// Package ui provides the visual styling and event-pacing helpers for the
// atrium terminal page. Colors follow the studio palette with light/dark
// support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#faf7f2") // warm paper
	LightForeground = lipgloss.Color("#1f2430") // ink
	LightPrimary    = lipgloss.Color("#1f2430")
	LightAccent     = lipgloss.Color("#d97706") // amber
	LightSecondary  = lipgloss.Color("#ece7de")
	LightMuted      = lipgloss.Color("#8a8f98")
	LightBorder     = lipgloss.Color("#ddd6c9")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#14161c")
	DarkForeground = lipgloss.Color("#e8e4dc")
	DarkPrimary    = lipgloss.Color("#f0b35e") // amber (flipped)
	DarkAccent     = lipgloss.Color("#d97706")
	DarkSecondary  = lipgloss.Color("#1d212b")
	DarkMuted      = lipgloss.Color("#6b7280")
	DarkBorder     = lipgloss.Color("#2b303c")
	DarkCard       = lipgloss.Color("#1a1e27")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e0504a")
	Success     = lipgloss.Color("#5fa85f")
	Warning     = lipgloss.Color("#e0a93e")
	Info        = lipgloss.Color("#4f8fd0")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme resolves a theme preference. "dark" and "light" are explicit;
// anything else inspects COLORFGBG, which most terminals export as
// "foreground;background" with low background indexes meaning dark.
func DetectTheme(pref string) Theme {
	switch pref {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}

	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) >= 2 {
			if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	return LightTheme()
}

// Styles holds all the styled components of the page.
type Styles struct {
	Theme Theme

	// Chrome
	Header          lipgloss.Style
	HeaderCondensed lipgloss.Style
	Brand           lipgloss.Style
	Tagline         lipgloss.Style
	Footer          lipgloss.Style
	StatusLine      lipgloss.Style

	// Navigation
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	NavItemFocus  lipgloss.Style
	MenuPanel     lipgloss.Style

	// Sections
	SectionTitle lipgloss.Style
	Body         lipgloss.Style
	Muted        lipgloss.Style
	Hero         lipgloss.Style
	Backdrop     lipgloss.Style

	// Cards and stats
	Card      lipgloss.Style
	CardFocus lipgloss.Style
	CardIcon  lipgloss.Style
	StatValue lipgloss.Style
	StatLabel lipgloss.Style
	Partner   lipgloss.Style

	// Form
	FormLabel    lipgloss.Style
	FormRequired lipgloss.Style
	FormError    lipgloss.Style
	FormHelp     lipgloss.Style
	Button       lipgloss.Style
	ButtonFocus  lipgloss.Style
	Notice       lipgloss.Style
	NoticeError  lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Components
	Spinner   lipgloss.Style
	Divider   lipgloss.Style
	BackToTop lipgloss.Style
	SkipLink  lipgloss.Style
}

// NewStyles creates a Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(1, 2).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border),

		HeaderCondensed: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 2).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Accent),

		Brand: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Tagline: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		StatusLine: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2).
			Italic(true),

		NavItem: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		NavItemActive: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Padding(0, 1).
			Bold(true).
			Underline(true),

		NavItemFocus: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 1).
			Bold(true),

		MenuPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Background(theme.Card).
			Padding(1, 2),

		SectionTitle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Hero: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(1, 0),

		Backdrop: lipgloss.NewStyle().
			Foreground(theme.Border),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		CardFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),

		CardIcon: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		StatValue: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		StatLabel: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Partner: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		FormLabel: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		FormRequired: lipgloss.NewStyle().
			Foreground(Destructive),

		FormError: lipgloss.NewStyle().
			Foreground(Destructive),

		FormHelp: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Button: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Secondary).
			Padding(0, 2).
			Bold(true),

		ButtonFocus: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 2).
			Bold(true),

		Notice: lipgloss.NewStyle().
			Foreground(Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(0, 1),

		NoticeError: lipgloss.NewStyle().
			Foreground(Destructive).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		BackToTop: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		SkipLink: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with an auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme("auto"))
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
