// Package ui provides the panels of the agent dashboard and the visitor
// widget, built on Bubble Tea components and Lipgloss styles.
//
// # Layout
//
//	┌──────────────────────────────────────────────────────┐
//	│ Header (1 line, becomes the outage banner)           │
//	├────────────────┬─────────────────────────────────────┤
//	│ Conversations  │ Conversation history                │
//	│                │                                     │
//	├────────────────┤                                     │
//	│ System log     ├─────────────────────────────────────┤
//	│                │ Input                               │
//	├────────────────┴─────────────────────────────────────┤
//	│ Footer (1 line, key hints or a flash)                │
//	└──────────────────────────────────────────────────────┘
//
// Panels own no conversation state. The app hands them projections of the
// conversation store after every change, and all remote text passes
// through Sanitize before it is drawn.
//
// ViewContext holds the layout math; every size goes through it.
package ui
