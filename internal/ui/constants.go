package ui

// Layout
const (
	HeaderHeight = 1
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/4 of total width)
	SidebarWidthRatio = 4
	MinSidebarWidth   = 22

	// SystemLogHeight is the outer height of the notice panel under the list,
	// borders included.
	SystemLogHeight = 9

	TextareaHeight       = 3
	TextareaBorderHeight = 2

	// InputPaddingWidth is Padding(0, 1) on the input box
	InputPaddingWidth = 2

	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	MinTerminalWidth  = 60
	MinTerminalHeight = 18

	// DefaultWrapWidth is used before the first WindowSizeMsg
	DefaultWrapWidth = 80
)

// MaxSystemLogEntries bounds the notice history; older entries are dropped.
const MaxSystemLogEntries = 200
