package notification

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

type call struct {
	title   string
	message string
}

type mockNotifier struct {
	calls []call
	err   error
}

func (m *mockNotifier) notify(title, message string, _ any) error {
	m.calls = append(m.calls, call{title, message})
	return m.err
}

func TestSend(t *testing.T) {
	tests := []struct {
		name    string
		mockErr error
	}{
		{"success", nil},
		{"backend failure", errors.New("dbus unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockNotifier{err: tt.mockErr}
			SetNotifier(mock.notify)
			defer ResetNotifier()

			err := Send("title", "body")
			if !errors.Is(err, tt.mockErr) {
				t.Errorf("Send() err = %v, want %v", err, tt.mockErr)
			}
			if len(mock.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(mock.calls))
			}
			if mock.calls[0].title != "title" || mock.calls[0].message != "body" {
				t.Errorf("unexpected call %+v", mock.calls[0])
			}
		})
	}
}

func TestVisitorMessage(t *testing.T) {
	mock := &mockNotifier{}
	SetNotifier(mock.notify)
	defer ResetNotifier()

	if err := VisitorMessage("abc123", "Hello\nthere"); err != nil {
		t.Fatalf("VisitorMessage: %v", err)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.calls))
	}
	got := mock.calls[0]
	if got.title != "relaydesk" {
		t.Errorf("title = %q, want relaydesk", got.title)
	}
	if got.message != "abc123: Hello there" {
		t.Errorf("message = %q, want %q", got.message, "abc123: Hello there")
	}
}

func TestPreview_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := Preview(long)
	if w := runewidth.StringWidth(got); w > previewWidth {
		t.Errorf("preview width = %d, want <= %d", w, previewWidth)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated preview should end with an ellipsis, got %q", got)
	}
}
