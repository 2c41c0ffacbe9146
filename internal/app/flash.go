package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/ui"
)

// Footer texts for rejected or completed operator actions.
const (
	flashNoConversation  = "No conversation selected"
	flashNotConnected    = "Not connected to relay"
	flashNotSent         = "Message not sent, try again"
	flashAuthFailed      = "Could not authenticate with relay"
	flashAlreadyUp       = "Already connected"
	flashStillConnecting = "Still connecting"
	flashCopied          = "Transcript copied"
	flashCopyFailed      = "Could not copy transcript"
)

// flash puts text in the footer and starts its dismiss timer. Warnings and
// errors also go to the log, since the footer forgets them.
func (m *Model) flash(kind ui.FlashType, text string) tea.Cmd {
	switch kind {
	case ui.FlashError:
		logger.Error("App: flash: %s", text)
	case ui.FlashWarning:
		logger.Warn("App: flash: %s", text)
	}
	m.footer.SetFlash(text, kind)
	return ui.FlashTick()
}

// rejectSend reports why a reply was not sent. Nothing was emitted or
// echoed.
func (m *Model) rejectSend(err error) tea.Cmd {
	logger.Warn("App: send rejected: %v", err)
	switch {
	case m.store.Active() == "":
		return m.flash(ui.FlashWarning, flashNoConversation)
	case errors.Is(err, errors.KindState):
		return m.flash(ui.FlashWarning, flashNotConnected)
	default:
		return m.flash(ui.FlashError, flashNotSent)
	}
}
