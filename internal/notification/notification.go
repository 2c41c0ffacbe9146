// Package notification sends desktop notifications through beeep, which
// picks the platform backend (D-Bus, notify-send, AppleScript, toast).
package notification

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/relaydesk/internal/logger"
)

const (
	appName = "relaydesk"

	// previewWidth caps the message excerpt shown in the notification body.
	previewWidth = 80
)

type notifyFunc func(title, message string, icon any) error

var notify notifyFunc = beeep.Notify

// SetNotifier replaces the backend. Tests use it to avoid real popups.
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores the beeep backend.
func ResetNotifier() {
	notify = beeep.Notify
}

// Send shows a notification. Failures are logged and returned; callers
// generally ignore them.
func Send(title, message string) error {
	log := logger.ComponentLogger("notification")
	log.Debug("sending notification", "title", title)
	if err := notify(title, message, ""); err != nil {
		log.Warn("notification failed", "error", err)
		return err
	}
	return nil
}

// VisitorMessage announces a message that arrived for a conversation the
// agent is not looking at.
func VisitorMessage(sid, text string) error {
	return Send(appName, fmt.Sprintf("%s: %s", sid, Preview(text)))
}

// Preview flattens text onto one line and truncates it to previewWidth cells.
func Preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(flat, previewWidth, "…")
}
