package cmd

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/visitor"
)

var visitorCmd = &cobra.Command{
	Use:   "visitor",
	Short: "Chat with support as a visitor",
	Long: `Opens a single support conversation on the relay. Whichever agent
picks it up replies here.

Examples:
  relaydesk visitor
  relaydesk visitor --server http://localhost:5000`,
	RunE: runVisitor,
}

func init() {
	rootCmd.AddCommand(visitorCmd)
}

func runVisitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}
	defer logger.Close()

	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}
	logger.Info("Visitor: connecting to %s", cfg.GetServerAddress())

	m := visitor.New(cfg, transport)
	defer m.Shutdown()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("error running visitor chat: %w", err)
	}
	return nil
}
