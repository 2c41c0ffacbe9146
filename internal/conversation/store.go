package conversation

import (
	"iter"
	"slices"
)

// Store maps visitor session identifiers to their conversations, remembers
// the order in which sessions were first seen, and tracks which one (if any)
// the agent is looking at.
//
// Invariants:
//   - at most one conversation is active
//   - an active conversation never has unread messages
//   - removing the active conversation clears the selection
type Store struct {
	convs  map[string]*Conversation
	order  []string
	active string
	stale  bool
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Conversation)}
}

// Ensure returns the conversation for sid, creating an empty one if needed.
func (s *Store) Ensure(sid string) *Conversation {
	if c, ok := s.convs[sid]; ok {
		return c
	}
	c := New(sid)
	s.convs[sid] = c
	s.order = append(s.order, sid)
	return c
}

// Append adds m to sid's conversation, creating it if needed. The
// conversation is flagged unread unless it is the active one.
func (s *Store) Append(sid string, m Message) *Conversation {
	c := s.Ensure(sid)
	c.Append(m)
	if sid != s.active {
		c.hasUnread = true
	}
	return c
}

// Remove deletes sid and its history. It reports whether sid was the active
// conversation, in which case the selection is now empty. Unknown sids are
// ignored.
func (s *Store) Remove(sid string) (wasActive bool) {
	if _, ok := s.convs[sid]; !ok {
		return false
	}
	delete(s.convs, sid)
	if i := slices.Index(s.order, sid); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	if s.active == sid {
		s.active = ""
		return true
	}
	return false
}

// Get returns the conversation for sid without creating it.
func (s *Store) Get(sid string) (*Conversation, bool) {
	c, ok := s.convs[sid]
	return c, ok
}

// Has reports whether sid is known.
func (s *Store) Has(sid string) bool {
	_, ok := s.convs[sid]
	return ok
}

// SIDs yields known session identifiers in first-seen order. The sequence
// reads the store as it is iterated, so it can be ranged over again after
// further changes.
func (s *Store) SIDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, sid := range s.order {
			if !yield(sid) {
				return
			}
		}
	}
}

// Len is the number of known conversations.
func (s *Store) Len() int { return len(s.convs) }

// Active returns the selected sid, or "" when nothing is selected.
func (s *Store) Active() string { return s.active }

// ActiveConversation returns the selected conversation, if any.
func (s *Store) ActiveConversation() (*Conversation, bool) {
	if s.active == "" {
		return nil, false
	}
	return s.Get(s.active)
}

// SetActive selects sid and clears its unread flag. It returns false and
// leaves the selection alone when sid is unknown.
func (s *Store) SetActive(sid string) bool {
	c, ok := s.convs[sid]
	if !ok {
		return false
	}
	s.active = sid
	c.hasUnread = false
	return true
}

// ClearActive empties the selection.
func (s *Store) ClearActive() { s.active = "" }

// UnreadCount is the number of conversations with unseen messages.
func (s *Store) UnreadCount() int {
	n := 0
	for _, c := range s.convs {
		if c.hasUnread {
			n++
		}
	}
	return n
}

// Reset drops every conversation and the selection. Used when a fresh
// connection is established.
func (s *Store) Reset() {
	s.convs = make(map[string]*Conversation)
	s.order = nil
	s.active = ""
	s.stale = false
}

// Invalidate marks every conversation unreachable after the transport
// dropped. History stays readable until the next Reset.
func (s *Store) Invalidate() { s.stale = true }

// Stale reports whether Invalidate was called since the last Reset.
func (s *Store) Stale() bool { return s.stale }

// SaveDraft remembers unsent input for sid. Unknown sids are ignored.
func (s *Store) SaveDraft(sid, text string) {
	if c, ok := s.convs[sid]; ok {
		c.draft = text
	}
}

// Draft returns the unsent input saved for sid.
func (s *Store) Draft(sid string) string {
	if c, ok := s.convs[sid]; ok {
		return c.draft
	}
	return ""
}
