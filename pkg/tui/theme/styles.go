package theme

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"
)

// Base16 color palette with warm orange and pink tones
// Based on Autumn theme with warm earth tones
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase06 = lipgloss.Color("#d3b597") // Light foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	// Accent colors (syntax highlighting)
	ColorRed    = lipgloss.Color("#d95f5f") // Errors, deletions
	ColorOrange = lipgloss.Color("#eb8755") // Integers, booleans
	ColorGreen  = lipgloss.Color("#93b56b") // Success, additions
	ColorCyan   = lipgloss.Color("#61afaf") // Support, regex
	ColorBlue   = lipgloss.Color("#6b93b5") // Functions, methods
	ColorPurple = lipgloss.Color("#976bb5") // Keywords, storage

	// UI specific colors
	ColorBorder  = ColorBase03
	ColorFocus   = ColorOrange
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorInfo    = ColorCyan
	ColorMuted   = ColorBase03

	// Additional colors for activity indicators
	ColorMagenta = lipgloss.Color("#d33682") // Magenta for discount badges
	ColorViolet  = lipgloss.Color("#6c71c4") // Violet for tool activity
)

// Styles defines the Lipgloss styles for the TUI components
type Styles struct {
	// Input field
	InputBorder        lipgloss.Style
	InputBorderBlurred lipgloss.Style
	InputPrompt        lipgloss.Style
	InputText          lipgloss.Style
	InputPlaceholder   lipgloss.Style
	InputCursor        lipgloss.Style

	// Status bar
	StatusBar       lipgloss.Style
	StatusText      lipgloss.Style
	StatusTimer     lipgloss.Style
	StatusIcon      lipgloss.Style
	StatusCount     lipgloss.Style
	StatusSeparator lipgloss.Style

	// Text styles
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	SystemMessage    lipgloss.Style
	ErrorMessage     lipgloss.Style
	InfoMessage      lipgloss.Style
	SuccessMessage   lipgloss.Style
	ThinkingMessage  lipgloss.Style

	// Product card styles
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardIndex     lipgloss.Style
	CardTitle     lipgloss.Style
	CardBrand     lipgloss.Style
	CardPrice     lipgloss.Style
	CardStrike    lipgloss.Style
	CardBadge     lipgloss.Style
	CardDesc      lipgloss.Style
	CardURL       lipgloss.Style
	ListHeader    lipgloss.Style
	Loader        lipgloss.Style
	LoaderSubtext lipgloss.Style
	Skeleton      lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		// A single rule above the input; it takes one line and no columns
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(ColorFocus),

		InputBorderBlurred: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(ColorBorder),

		InputPrompt: lipgloss.NewStyle().
			Foreground(ColorFocus).
			Bold(true),

		InputText: lipgloss.NewStyle().
			Foreground(ColorBase06),

		InputPlaceholder: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		InputCursor: lipgloss.NewStyle().
			Foreground(ColorFocus),

		StatusBar: lipgloss.NewStyle().
			Background(ColorBase01).
			Padding(0, 1),

		StatusText: lipgloss.NewStyle().
			Foreground(ColorBase05),

		StatusTimer: lipgloss.NewStyle().
			Foreground(ColorBase04),

		StatusIcon: lipgloss.NewStyle().
			Foreground(ColorOrange),

		StatusCount: lipgloss.NewStyle().
			Foreground(ColorMagenta),

		StatusSeparator: lipgloss.NewStyle().
			Foreground(ColorBase03),

		// Message styles
		UserMessage: lipgloss.NewStyle().
			Foreground(ColorGreen),

		AssistantMessage: lipgloss.NewStyle().
			Foreground(ColorBlue),

		SystemMessage: lipgloss.NewStyle().
			Foreground(ColorPurple),

		ErrorMessage: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		InfoMessage: lipgloss.NewStyle().
			Foreground(ColorInfo),

		SuccessMessage: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		ThinkingMessage: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		// Product cards
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(ColorFocus).
			Padding(0, 1),

		CardIndex: lipgloss.NewStyle().
			Foreground(ColorMuted),

		CardTitle: lipgloss.NewStyle().
			Foreground(ColorBase07).
			Bold(true),

		CardBrand: lipgloss.NewStyle().
			Foreground(ColorBase04),

		CardPrice: lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true),

		CardStrike: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true),

		CardBadge: lipgloss.NewStyle().
			Foreground(ColorBase00).
			Background(ColorMagenta).
			Padding(0, 1),

		CardDesc: lipgloss.NewStyle().
			Foreground(ColorBase05),

		CardURL: lipgloss.NewStyle().
			Foreground(ColorBlue).
			Underline(true),

		ListHeader: lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true),

		Loader: lipgloss.NewStyle().
			Foreground(ColorViolet),

		LoaderSubtext: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Skeleton: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBase02).
			Foreground(ColorBase02).
			Padding(0, 1),
	}
}

// ApplyTextarea styles an input with the input field styles.
func (s *Styles) ApplyTextarea(ta *textarea.Model) {
	ta.FocusedStyle.Base = s.InputBorder
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = s.InputPrompt
	ta.FocusedStyle.Text = s.InputText
	ta.FocusedStyle.Placeholder = s.InputPlaceholder

	ta.BlurredStyle.Base = s.InputBorderBlurred
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.Prompt = s.InputPrompt.Foreground(ColorMuted)
	ta.BlurredStyle.Text = s.InputText.Foreground(ColorBase04)
	ta.BlurredStyle.Placeholder = s.InputPlaceholder

	ta.Cursor.Style = s.InputCursor
}
