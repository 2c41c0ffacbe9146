package ui

import (
	"strings"

	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/relaydesk/internal/errors"
)

// PromptTheme styles the pre-launch huh prompts in the dashboard palette.
func PromptTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.Group.Title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		return t
	})
}

// TokenPrompt builds a masked single-field form that writes into token.
func TokenPrompt(token *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Agent auth token").
				Description("Sent once per connection in agent_connect. Not saved to disk.").
				EchoMode(huh.EchoModePassword).
				Validate(validateToken).
				Value(token),
		),
	).WithTheme(PromptTheme())
}

func validateToken(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.ConfigInvalid("auth token is empty")
	}
	return nil
}
