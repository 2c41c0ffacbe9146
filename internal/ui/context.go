package ui

import (
	"sync"

	"github.com/zhubert/relaydesk/internal/logger"
)

// ViewContext centralizes layout math so panels agree on their sizes.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ChatWidth     int

	// ListHeight is what remains of the left column after the system log.
	ListHeight int

	mu sync.Mutex
}

var (
	viewCtx     *ViewContext
	viewCtxOnce sync.Once
)

// GetViewContext returns the process-wide ViewContext.
func GetViewContext() *ViewContext {
	viewCtxOnce.Do(func() {
		viewCtx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
	})
	return viewCtx
}

// UpdateTerminalSize recalculates every panel dimension. Sizes below the
// minimum are clamped so no panel ends up with a negative size.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight

	v.SidebarWidth = max(width/SidebarWidthRatio, MinSidebarWidth)
	v.ChatWidth = width - v.SidebarWidth
	v.ListHeight = v.ContentHeight - SystemLogHeight

	logger.ComponentLogger("ui").Debug("terminal size updated",
		"width", width,
		"height", height,
		"contentHeight", v.ContentHeight,
		"sidebarWidth", v.SidebarWidth,
		"listHeight", v.ListHeight,
		"chatWidth", v.ChatWidth,
	)
}

// InnerWidth is the usable width inside a bordered panel.
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight is the usable height inside a bordered panel.
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}
