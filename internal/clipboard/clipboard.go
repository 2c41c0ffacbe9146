// Package clipboard copies conversation transcripts to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/relaydesk/internal/logger"
)

var (
	mu          sync.Mutex
	initialized bool

	// writeFn is swapped out by tests so they never touch the real clipboard.
	writeFn = func(b []byte) { clipboard.Write(clipboard.FmtText, b) }
	initFn  = clipboard.Init
)

// Init prepares the system clipboard. Safe to call more than once.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return nil
	}
	if err := initFn(); err != nil {
		logger.ComponentLogger("clipboard").Warn("init failed", "error", err)
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	initialized = true
	return nil
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := initLocked(); err != nil {
		return err
	}
	writeFn([]byte(text))
	logger.ComponentLogger("clipboard").Debug("copied text", "bytes", len(text))
	return nil
}
