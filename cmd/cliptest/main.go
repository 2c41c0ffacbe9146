//go:build ignore

// Manual check that transcript copying reaches the system clipboard:
//
//	go run ./cmd/cliptest
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/zhubert/relaydesk/internal/conversation"
	"github.com/zhubert/relaydesk/internal/clipboard"
)

func main() {
	conv := conversation.New("cliptest")
	conv.Append(conversation.NewMessage(conversation.Visitor, "Hello"))
	conv.Append(conversation.NewMessage(conversation.Agent, "Hi, how can I help?"))

	if err := clipboard.WriteText(conv.Transcript()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Copied transcript at %s, paste somewhere to check.\n", time.Now().Format(time.Kitchen))
}
