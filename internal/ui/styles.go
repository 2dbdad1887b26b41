package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // success, dry-run status
	ColorWarning   = lipgloss.Color("#FFB800") // prompts, warnings
	ColorError     = lipgloss.Color("#FF4444") // error, revert
	ColorAddress   = lipgloss.Color("#00B4D8") // addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // labels, amounts
	ColorMeta      = lipgloss.Color("#555555") // hints
	ColorPallet    = lipgloss.Color("#9B5DE5") // pallet and event names
	ColorHighlight = lipgloss.Color("#F15BB5") // titles
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StylePallet  = lipgloss.NewStyle().Foreground(ColorPallet).Bold(true)
	StyleKey     = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			MarginBottom(1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address or hash.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// Pallet formats a pallet or event name.
func Pallet(p string) string { return StylePallet.Render(p) }
