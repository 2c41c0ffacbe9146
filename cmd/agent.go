package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/zhubert/relaydesk/internal/app"
	"github.com/zhubert/relaydesk/internal/clipboard"
	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/ui"
)

var (
	agentToken  string
	agentNotify bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the agent dashboard",
	Long: `Connects to the relay as a support agent and shows every visitor
conversation in one dashboard.

The relay authenticates agents with a token. It is read from --token, then
AGENT_AUTH_TOKEN (environment or .env). If neither is set and stdin is a
terminal, you are prompted for it. The token is never written to disk.

Examples:
  relaydesk agent
  relaydesk agent --server https://relay.example.com
  AGENT_AUTH_TOKEN=secret relaydesk agent --notify`,
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentToken, "token", "", "Agent auth token (overrides AGENT_AUTH_TOKEN)")
	agentCmd.Flags().BoolVar(&agentNotify, "notify", false, "Desktop notifications for messages in background conversations")
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}
	defer logger.Close()

	if agentToken != "" {
		cfg.SetAuthToken(agentToken)
	}
	if cmd.Flags().Changed("notify") {
		cfg.SetNotificationsEnabled(agentNotify)
	}

	interactive := term.IsTerminal(os.Stdin.Fd())
	if err := resolveToken(cfg, interactive, func(tok *string) error {
		return ui.TokenPrompt(tok).Run()
	}); err != nil {
		return err
	}
	if cfg.GetAuthToken() == "" {
		fmt.Fprintln(os.Stderr, "Warning: no agent auth token set; the relay will likely reject this connection")
	}

	if err := clipboard.Init(); err != nil {
		logger.Warn("Agent: clipboard unavailable: %v", err)
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}
	logger.Info("Agent: starting dashboard against %s", cfg.GetServerAddress())

	m := app.New(cfg, transport, version)
	defer m.Shutdown()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

// resolveToken asks for the auth token when none was configured and a
// terminal is available. A blank answer leaves the token unset.
func resolveToken(cfg *config.Config, interactive bool, prompt func(*string) error) error {
	if cfg.GetAuthToken() != "" || !interactive {
		return nil
	}
	var tok string
	if err := prompt(&tok); err != nil {
		return fmt.Errorf("reading auth token: %w", err)
	}
	cfg.SetAuthToken(strings.TrimSpace(tok))
	return nil
}
