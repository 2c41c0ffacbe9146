// Package conversation holds the in-memory history of every visitor
// conversation an agent is handling.
//
// A Store is owned by a single event loop and is not safe for concurrent
// use. All mutation happens in response to transport events or key input,
// which the UI delivers one at a time.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author identifies who wrote a message.
type Author int

const (
	Visitor Author = iota
	Agent
	System
)

func (a Author) String() string {
	switch a {
	case Agent:
		return "Agent"
	case System:
		return "System"
	default:
		return "Visitor"
	}
}

// AuthorFromWire maps the relay's "user" field to an Author. Anything other
// than "Agent" or "System" is the visitor.
func AuthorFromWire(user string) Author {
	switch strings.ToLower(strings.TrimSpace(user)) {
	case "agent":
		return Agent
	case "system":
		return System
	default:
		return Visitor
	}
}

// Message is immutable once appended.
type Message struct {
	ID     string
	Author Author
	Text   string
	At     time.Time
}

// NewMessage stamps a message with a fresh ID and the current time.
func NewMessage(author Author, text string) Message {
	return Message{
		ID:     uuid.New().String(),
		Author: author,
		Text:   text,
		At:     time.Now(),
	}
}

// Conversation is the ordered history for one visitor session.
type Conversation struct {
	sid       string
	messages  []Message
	hasUnread bool
	draft     string
}

// New creates an empty conversation. The visitor widget uses one directly;
// the agent dashboard goes through a Store.
func New(sid string) *Conversation {
	return &Conversation{sid: sid}
}

func (c *Conversation) SID() string { return c.sid }

func (c *Conversation) Len() int { return len(c.messages) }

func (c *Conversation) HasUnread() bool { return c.hasUnread }

// Messages returns a copy of the history in insertion order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// Clear drops the history.
func (c *Conversation) Clear() {
	c.messages = nil
	c.hasUnread = false
}

// Transcript renders the history as plain text, one "Author: text" line per
// message, for copying out of the terminal.
func (c *Conversation) Transcript() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation %s\n", c.sid)
	for _, m := range c.messages {
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.At.Format("15:04:05"), m.Author, m.Text)
	}
	return b.String()
}
