package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/VinMeld/feishu-voice/internal/ctxlog"
	"github.com/VinMeld/feishu-voice/internal/feishu"
	"github.com/VinMeld/feishu-voice/internal/transport"
)

const (
	flagAppID     = "app-id"
	flagAppSecret = "app-secret"
	flagUserID    = "user-id"
	flagChatID    = "chat-id"
	flagAudioFile = "audio-file"
	flagDuration  = "duration"
	flagBaseURL   = "base-url"
	flagConfig    = "config"
	flagEnvFile   = "env-file"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// APIFactory builds the platform client for a resolved configuration.
type APIFactory func(cfg *Config, logger *slog.Logger) VoiceAPI

func newFeishuAPI(cfg *Config, logger *slog.Logger) VoiceAPI {
	return feishu.New(cfg.AppID, cfg.AppSecret,
		feishu.WithBaseURL(cfg.BaseURL),
		feishu.WithLogger(logger),
	)
}

// NewRootCmd returns the command tree wired to the Feishu open platform.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newFeishuAPI)
}

func newRootCmd(factory APIFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "feishu-voice",
		Short: "Send a voice message to a Feishu user or group chat",
		Long: `Uploads an OPUS audio file to the Feishu open platform and sends it as a
voice message to a user (open_id) or a group chat (chat_id).

App credentials fall back to the FEISHU_APP_ID and FEISHU_APP_SECRET
environment variables, which may also be placed in a .env file.`,
		Example: `  # Send to user
  feishu-voice --app-id cli_xxx --app-secret xxx \
    --user-id ou_xxx --audio-file voice.opus --duration 3480

  # Send to group chat
  feishu-voice --app-id cli_xxx --app-secret xxx \
    --chat-id oc_xxx --audio-file voice.opus --duration 3480`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogger(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := ctxlog.FromContext(ctx)

			configFile, _ := cmd.Flags().GetString(flagConfig)
			envFile, _ := cmd.Flags().GetString(flagEnvFile)

			v, err := newViper(cmd.Flags(), configFile, envFile)
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(v, logger)
			if err != nil {
				return err
			}

			_, err = SendVoice(ctx, factory(cfg, logger), cfg, cmd.OutOrStdout())
			return err
		},
	}

	f := root.Flags()
	f.String(flagAppID, "", "Feishu App ID (or set "+transport.EnvAppID+" env)")
	f.String(flagAppSecret, "", "Feishu App Secret (or set "+transport.EnvAppSecret+" env)")
	f.String(flagUserID, "", "Target user's Open ID (send to user)")
	f.String(flagChatID, "", "Target chat ID (send to group)")
	f.String(flagAudioFile, "", "Path to OPUS audio file (required)")
	f.String(flagDuration, "", "Audio duration in milliseconds (required)")
	f.String(flagBaseURL, transport.DefaultBaseURL, "Open platform base URL (or set "+transport.EnvBaseURL+" env)")
	f.String(flagConfig, "", "JSON config file with app_id, app_secret and base_url")
	f.String(flagEnvFile, ".env", "dotenv file read for credentials when present")

	pf := root.PersistentFlags()
	pf.String(flagLogLevel, "warn", "Log level: debug, info, warn or error")
	pf.String(flagLogFormat, "text", "Log format: text or json")

	root.AddCommand(newVersionCmd())
	return root
}

func setupLogger(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString(flagLogLevel)
	format, _ := cmd.Flags().GetString(flagLogFormat)

	if _, ok := ctxlog.ParseLevel(level); !ok {
		return fmt.Errorf("invalid --%s %q: must be debug, info, warn or error", flagLogLevel, level)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid --%s %q: must be text or json", flagLogFormat, format)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := ctxlog.New(level, format, cmd.ErrOrStderr())
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	return nil
}
