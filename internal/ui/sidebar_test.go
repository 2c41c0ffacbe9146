package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func entries(sids ...string) []SidebarEntry {
	out := make([]SidebarEntry, len(sids))
	for i, sid := range sids {
		out[i] = SidebarEntry{SID: sid}
	}
	return out
}

func press(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestSidebar_Empty(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 12)

	if s.SelectedSID() != "" {
		t.Errorf("SelectedSID() = %q on empty list", s.SelectedSID())
	}
	if view := stripANSI(s.View()); !strings.Contains(view, "No conversations.") {
		t.Errorf("view %q missing empty hint", view)
	}
}

func TestSidebar_Navigation(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 12)
	s.SetFocused(true)
	s.SetEntries(entries("s1", "s2", "s3"))

	if got := s.SelectedSID(); got != "s1" {
		t.Fatalf("initial selection = %q, want s1", got)
	}
	s.Update(press(tea.KeyDown))
	s.Update(press(tea.KeyDown))
	s.Update(press(tea.KeyDown))
	if got := s.SelectedSID(); got != "s3" {
		t.Errorf("after three downs = %q, want s3 (clamped)", got)
	}
	s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if got := s.SelectedSID(); got != "s2" {
		t.Errorf("after k = %q, want s2", got)
	}
	s.Update(press(tea.KeyHome))
	if got := s.SelectedSID(); got != "s1" {
		t.Errorf("after home = %q, want s1", got)
	}
}

func TestSidebar_IgnoresKeysWhenUnfocused(t *testing.T) {
	s := NewSidebar()
	s.SetEntries(entries("s1", "s2"))
	s.Update(press(tea.KeyDown))
	if got := s.SelectedSID(); got != "s1" {
		t.Errorf("unfocused sidebar moved to %q", got)
	}
}

func TestSidebar_SetEntriesKeepsCursor(t *testing.T) {
	s := NewSidebar()
	s.SetFocused(true)
	s.SetEntries(entries("s1", "s2", "s3"))
	s.Update(press(tea.KeyDown))

	// s1 goes away; the cursor follows s2.
	s.SetEntries(entries("s2", "s3"))
	if got := s.SelectedSID(); got != "s2" {
		t.Errorf("cursor = %q, want s2", got)
	}

	// s2 goes away too; the cursor clamps into range.
	s.SetEntries(entries("s3"))
	if got := s.SelectedSID(); got != "s3" {
		t.Errorf("cursor = %q, want s3", got)
	}
}

func TestSidebar_ActiveAndUnreadMarkers(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 12)
	s.SetEntries([]SidebarEntry{{SID: "s1"}, {SID: "s2", Unread: true}})
	s.SetActive("s1")

	view := stripANSI(s.View())
	if !strings.Contains(view, "▸ s1") {
		t.Errorf("view %q missing active marker", view)
	}
	if !strings.Contains(view, "s2 ●") {
		t.Errorf("view %q missing unread marker", view)
	}
	if strings.Contains(view, "s1 ●") {
		t.Error("active entry shown as unread")
	}
}

func TestSidebar_SanitizesSIDs(t *testing.T) {
	s := NewSidebar()
	s.SetSize(40, 12)
	s.SetEntries(entries("evil\x1b[2Jsid"))

	if view := s.View(); strings.Contains(view, "\x1b[2J") {
		t.Error("raw escape sequence from sid reached the view")
	}
}

func TestSidebar_Scrolls(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 6)
	s.SetFocused(true)
	var sids []string
	for _, c := range "abcdefghij" {
		sids = append(sids, "sid-"+string(c))
	}
	s.SetEntries(entries(sids...))
	s.Update(press(tea.KeyEnd))

	view := stripANSI(s.View())
	if !strings.Contains(view, "sid-j") {
		t.Errorf("view %q does not show the selected last entry", view)
	}
	if strings.Contains(view, "sid-a") {
		t.Error("first entry should have scrolled off")
	}
}

func TestSidebar_Search(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 12)
	s.SetFocused(true)
	s.SetEntries(entries("alpha", "beta", "alphabet"))

	s.EnterSearchMode()
	if !s.IsSearchMode() {
		t.Fatal("not in search mode")
	}
	for _, r := range "bet" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	got := s.Entries()
	if len(got) != 2 || got[0].SID != "beta" || got[1].SID != "alphabet" {
		t.Errorf("filtered = %+v, want beta and alphabet", got)
	}
	if s.SelectedSID() != "beta" {
		t.Errorf("SelectedSID() = %q, want beta", s.SelectedSID())
	}

	s.Update(press(tea.KeyDown))
	s.Update(press(tea.KeyEscape))
	if s.IsSearchMode() {
		t.Error("escape did not leave search mode")
	}
	if len(s.Entries()) != 3 {
		t.Errorf("filter not cleared: %d entries", len(s.Entries()))
	}
	if s.SelectedSID() != "alphabet" {
		t.Errorf("cursor = %q, want alphabet after leaving search", s.SelectedSID())
	}
}

func TestSidebar_SearchNoMatches(t *testing.T) {
	s := NewSidebar()
	s.SetSize(30, 12)
	s.SetFocused(true)
	s.SetEntries(entries("alpha"))
	s.EnterSearchMode()
	s.Update(tea.KeyPressMsg{Code: 'z', Text: "z"})

	if s.SelectedSID() != "" {
		t.Errorf("SelectedSID() = %q with no matches", s.SelectedSID())
	}
	if view := stripANSI(s.View()); !strings.Contains(view, "No matches.") {
		t.Errorf("view %q missing no-match hint", view)
	}
}
