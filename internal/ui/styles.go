package ui

import "charm.land/lipgloss/v2"

// Palette. Hex values are kept as strings too because the header gradient
// interpolates between them.
const (
	hexPrimary = "#7C3AED" // Purple
	hexBg      = "#1F2937"
	hexError   = "#EF4444"
	hexErrorBg = "#7F1D1D"
)

var (
	ColorPrimary     = lipgloss.Color(hexPrimary)
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280")
	ColorBorder      = lipgloss.Color("#374151")
	ColorBorderFocus = lipgloss.Color(hexPrimary)
	ColorBg          = lipgloss.Color(hexBg)
	ColorBgSelected  = lipgloss.Color("#4C1D95")
	ColorText        = lipgloss.Color("#F9FAFB")
	ColorTextMuted   = lipgloss.Color("#B0B8C4")
	ColorVisitor     = lipgloss.Color("#A78BFA") // Light purple
	ColorAgent       = lipgloss.Color("#22D3EE") // Bright cyan
	ColorSystem      = lipgloss.Color("#F59E0B") // Amber
	ColorWarning     = lipgloss.Color("#F59E0B")
	ColorInfo        = lipgloss.Color("#06B6D4")
	ColorError       = lipgloss.Color(hexError)
	ColorSuccess     = lipgloss.Color("#10B981")
)

// Header
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	// HeaderBannerStyle replaces the gradient while the relay is unreachable.
	HeaderBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText).
				Background(lipgloss.Color(hexErrorBg))
)

// Footer
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panels
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)
)

// Sidebar
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgSelected).
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	// SidebarUnreadStyle marks a conversation with unseen messages.
	SidebarUnreadStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	SidebarUnreadDotStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Bold(true)

	SidebarEmptyStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true).
				Padding(0, 1)
)

// Chat
var (
	ChatVisitorStyle = lipgloss.NewStyle().
				Foreground(ColorVisitor).
				Bold(true)

	ChatAgentStyle = lipgloss.NewStyle().
			Foreground(ColorAgent).
			Bold(true)

	ChatSystemStyle = lipgloss.NewStyle().
			Foreground(ColorSystem).
			Bold(true)

	ChatMessageStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	ChatSystemTextStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)

	ChatPlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)

	ChatInputDisabledStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Foreground(ColorMuted).
				Padding(0, 1)
)

// System log
var (
	SystemLogTimeStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	SystemLogTextStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// Status
var (
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	StatusPendingStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)
)
