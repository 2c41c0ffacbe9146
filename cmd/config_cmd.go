package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/relaydesk/internal/config"
	"github.com/zhubert/relaydesk/internal/logger"
)

var configSave bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the settings relaydesk would run with after merging the config
file, .env, the environment and flags. With --save the merged settings are
written back to ~/.relaydesk/config.json. The auth token is never saved.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configSave, "save", false, "Write the effective settings to the config file")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		return err
	}
	defer logger.Close()

	printConfig(cmd.OutOrStdout(), cfg)
	if !configSave {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	url, err := config.RelayURL(cfg.GetServerAddress())
	if err != nil {
		url = "invalid: " + err.Error()
	}
	token := "(not set)"
	if cfg.GetAuthToken() != "" {
		token = "(set)"
	}
	fmt.Fprintf(w, "server:        %s\n", cfg.GetServerAddress())
	fmt.Fprintf(w, "relay url:     %s\n", url)
	fmt.Fprintf(w, "auth token:    %s\n", token)
	fmt.Fprintf(w, "notifications: %t\n", cfg.GetNotificationsEnabled())
	fmt.Fprintf(w, "log file:      %s\n", cfg.GetLogFile())
	fmt.Fprintf(w, "log level:     %s\n", cfg.GetLogLevel())
}
