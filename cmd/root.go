package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/logger"
	"github.com/zhubert/relaydesk/internal/relay"
)

var (
	debugMode             bool
	quietMode             bool
	serverAddr            string
	logFile               string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "relaydesk",
	Short: "Terminal client for a live support-chat relay",
	Long: `relaydesk connects to a support-chat relay server.

  relaydesk agent     run the agent dashboard and handle many visitors at once
  relaydesk visitor   chat with support as a visitor

Settings come from ~/.relaydesk/config.json, a .env file in the working
directory, CHAT_RELAY_SERVER_ADDRESS / AGENT_AUTH_TOKEN and friends in the
environment, and finally the flags below.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "Relay address (http://, https://, ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default "+logger.DefaultLogPath+")")
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("relaydesk %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("relaydesk %s\n", version)
}

// loadConfig resolves settings from, lowest to highest priority: defaults,
// the config file, .env, the environment, then flags. It also opens the log.
func loadConfig(getenv func(string) string) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	if serverAddr != "" {
		cfg.SetServerAddress(serverAddr)
	}
	if logFile != "" {
		cfg.SetLogFile(logFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.GetLogFile()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger.SetLevel(cfg.GetLogLevel())
	switch {
	case quietMode:
		logger.SetLevel(logger.LevelWarn)
	case debugMode:
		logger.SetDebug(true)
	}
	return cfg, nil
}

// newTransport builds the relay WebSocket for the configured address. The
// upgrade request identifies the client and its version.
func newTransport(cfg *config.Config) (*relay.WebSocket, error) {
	url, err := config.RelayURL(cfg.GetServerAddress())
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set("User-Agent", "relaydesk/"+version)
	return relay.NewWebSocket(url, relay.WithHeader(h)), nil
}
