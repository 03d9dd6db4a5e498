package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/VinMeld/feishu-voice/internal/models"
	"github.com/VinMeld/feishu-voice/internal/transport"
)

// Config is the validated input of one invocation. It is built once and
// passed explicitly to every step.
type Config struct {
	AppID      string
	AppSecret  string
	Recipient  models.Recipient
	AudioFile  string
	DurationMS int
	BaseURL    string
}

var (
	// ErrInvalidConfig matches every *ValidationError.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrAudioNotFound is returned when the audio file is absent from disk.
	ErrAudioNotFound = errors.New("audio file not found")
)

// ValidationIssue is a single missing or malformed parameter.
type ValidationIssue struct {
	Field  string
	Reason string
}

// ValidationError lists every problem found in the invocation parameters.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidConfig.Error())
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n   - ")
		b.WriteString(issue.Reason)
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidConfig }

func (e *ValidationError) add(field, reason string) {
	e.Issues = append(e.Issues, ValidationIssue{Field: field, Reason: reason})
}

// Viper keys.
const (
	keyAppID     = "app_id"
	keyAppSecret = "app_secret"
	keyUserID    = "user_id"
	keyChatID    = "chat_id"
	keyAudioFile = "audio_file"
	keyDuration  = "duration"
	keyBaseURL   = "base_url"
)

var flagKeys = map[string]string{
	flagAppID:     keyAppID,
	flagAppSecret: keyAppSecret,
	flagUserID:    keyUserID,
	flagChatID:    keyChatID,
	flagAudioFile: keyAudioFile,
	flagDuration:  keyDuration,
	flagBaseURL:   keyBaseURL,
}

var envKeys = map[string]string{
	keyAppID:     transport.EnvAppID,
	keyAppSecret: transport.EnvAppSecret,
	keyBaseURL:   transport.EnvBaseURL,
}

// newViper layers the configuration sources: flags, then process
// environment, then the optional config file, then the dotenv file.
func newViper(flags *pflag.FlagSet, configFile, envFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(keyBaseURL, transport.DefaultBaseURL)

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", name, err)
			}
		}
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if envFile != "" {
		dotenv, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			for key, env := range envKeys {
				if val, ok := dotenv[env]; ok && val != "" {
					v.SetDefault(key, val)
				}
			}
		case errors.Is(err, os.ErrNotExist):
			// optional
		default:
			return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

// resolveConfig validates the layered settings. Every missing or invalid
// field is reported in one *ValidationError. Only once those pass is the
// audio file checked on disk.
func resolveConfig(v *viper.Viper, logger *slog.Logger) (*Config, error) {
	cfg := &Config{
		AppID:     strings.TrimSpace(v.GetString(keyAppID)),
		AppSecret: strings.TrimSpace(v.GetString(keyAppSecret)),
		AudioFile: v.GetString(keyAudioFile),
		BaseURL:   strings.TrimSpace(v.GetString(keyBaseURL)),
	}
	userID := strings.TrimSpace(v.GetString(keyUserID))
	chatID := strings.TrimSpace(v.GetString(keyChatID))

	verr := &ValidationError{}
	if cfg.AppID == "" {
		verr.add(flagAppID, fmt.Sprintf("Missing --%s or %s env", flagAppID, transport.EnvAppID))
	}
	if cfg.AppSecret == "" {
		verr.add(flagAppSecret, fmt.Sprintf("Missing --%s or %s env", flagAppSecret, transport.EnvAppSecret))
	}

	switch {
	case userID == "" && chatID == "":
		verr.add(flagUserID, fmt.Sprintf("Missing --%s or --%s", flagUserID, flagChatID))
	case userID != "" && chatID != "":
		verr.add(flagChatID, fmt.Sprintf("Use only one of --%s or --%s", flagUserID, flagChatID))
	default:
		cfg.Recipient, _ = models.ResolveRecipient(userID, chatID)
	}

	if cfg.AudioFile == "" {
		verr.add(flagAudioFile, fmt.Sprintf("Missing --%s", flagAudioFile))
	}

	duration, err := strconv.Atoi(strings.TrimSpace(v.GetString(keyDuration)))
	if err != nil || duration <= 0 {
		verr.add(flagDuration, fmt.Sprintf("Missing or invalid --%s", flagDuration))
	}
	cfg.DurationMS = duration

	if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		verr.add(flagBaseURL, fmt.Sprintf("Invalid --%s: %q", flagBaseURL, cfg.BaseURL))
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}

	if err := checkAudioFile(cfg.AudioFile, logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkAudioFile(path string, logger *slog.Logger) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrAudioNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), transport.AudioExtension) {
		logger.Warn("Audio file should be in OPUS format", "file", path)
	}
	return nil
}
