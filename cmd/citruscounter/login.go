package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/auth"
	"github.com/citruscounter/citruscounter/internal/config"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with your registered phone number",
		Long: `Login authenticates against the counting service and stores your
identity locally so counting sessions know whose history to show.

Phone numbers are accepted in local (03XXXXXXXXX) or international
(+923XXXXXXXXX) form and stored in the local canonical form.

Examples:
  # Log in, reading the password from the prompt
  citruscounter login --phone 03001234567

  # Non-interactive use
  echo "$PASSWORD" | citruscounter login --phone 03001234567`,
		RunE: runLoginCmd,
	}

	cmd.Flags().StringP("phone", "p", "", "Registered phone number (required)")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("phone")

	addServiceFlags(cmd)

	return cmd
}

// addServiceFlags registers the flags shared by every command that talks to
// the backend.
func addServiceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("endpoint", "e", "",
		"Counting service base URL (default: production service)")
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .citruscounter in current or home directory)")
}

// runLoginCmd executes the login command.
func runLoginCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServiceConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	phone, err := cmd.Flags().GetString("phone")
	if err != nil {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	client := auth.NewClient(cfg.Endpoint,
		auth.WithTimeout(cfg.Timeout),
		auth.WithUserAgent(cfg.UserAgent),
		auth.WithLogger(logger),
	)

	identity, err := client.Login(cmd.Context(), phone, password)
	if err != nil {
		return describeAuthError(err)
	}

	db, err := store.Open(cfg.DataDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	if err := db.SaveIdentity(cmd.Context(), identity); err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", identity.Name, model.MaskPhone(identity.Phone))
	return nil
}

// buildServiceConfig creates a Config for commands that only need the
// service endpoint, timeout, and data directory.
func buildServiceConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

// readPassword returns the password from the --password flag or, when the
// flag is empty, reads one line from stdin. Piped input makes the command
// scriptable without putting the password in the process list.
func readPassword(cmd *cobra.Command) (string, error) {
	password, err := cmd.Flags().GetString("password")
	if err != nil {
		return "", err
	}
	if password != "" {
		return password, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// describeAuthError augments authentication failures with actionable advice.
func describeAuthError(err error) error {
	if errors.Is(err, model.ErrInvalidPhone) {
		return fmt.Errorf("%w (expected 03XXXXXXXXX or +923XXXXXXXXX)", err)
	}
	return err
}
