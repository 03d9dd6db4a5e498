package client

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VinMeld/feishu-voice/internal/models"
	"github.com/VinMeld/feishu-voice/internal/transport"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(transport.EnvAppID, "")
	t.Setenv(transport.EnvAppSecret, "")
	t.Setenv(transport.EnvBaseURL, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resolve parses args with the real flag set and resolves them.
func resolve(t *testing.T, args ...string) (*Config, string, error) {
	t.Helper()
	root := newRootCmd(nil)
	require.NoError(t, root.ParseFlags(args))

	configFile, _ := root.Flags().GetString(flagConfig)
	envFile, _ := root.Flags().GetString(flagEnvFile)
	v, err := newViper(root.Flags(), configFile, envFile)
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg, err := resolveConfig(v, slog.New(slog.NewTextHandler(&buf, nil)))
	return cfg, buf.String(), err
}

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	fields := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestResolveConfigReportsEveryMissingField(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, _, err := resolve(t)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, []string{flagAppID, flagAppSecret, flagUserID, flagAudioFile, flagDuration}, issueFields(t, err))

	msg := err.Error()
	assert.Contains(t, msg, "Missing --app-id or FEISHU_APP_ID env")
	assert.Contains(t, msg, "Missing --app-secret or FEISHU_APP_SECRET env")
	assert.Contains(t, msg, "Missing --user-id or --chat-id")
	assert.Contains(t, msg, "Missing --audio-file")
	assert.Contains(t, msg, "Missing or invalid --duration")
}

func TestResolveConfigTwoMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	_, _, err := resolve(t, "--user-id", "ou_1", "--audio-file", audio, "--duration", "100")
	assert.Equal(t, []string{flagAppID, flagAppSecret}, issueFields(t, err))
}

func TestResolveConfigRejectsBothRecipients(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	_, _, err := resolve(t,
		"--app-id", "cli_test", "--app-secret", "secret_test",
		"--user-id", "ou_1", "--chat-id", "oc_1",
		"--audio-file", audio, "--duration", "3480")
	assert.Equal(t, []string{flagChatID}, issueFields(t, err))
	assert.Contains(t, err.Error(), "Use only one of --user-id or --chat-id")
}

func TestResolveConfigSuccess(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	cfg, logs, err := resolve(t,
		"--app-id", "cli_test", "--app-secret", "secret_test",
		"--chat-id", "oc_1", "--audio-file", audio, "--duration", "3480")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		AppID:      "cli_test",
		AppSecret:  "secret_test",
		Recipient:  models.Recipient{IDType: models.ReceiveIDChatID, ID: "oc_1"},
		AudioFile:  audio,
		DurationMS: 3480,
		BaseURL:    transport.DefaultBaseURL,
	}, cfg)
	assert.Empty(t, logs)
}

func TestResolveConfigEnvFallback(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	t.Setenv(transport.EnvAppID, "cli_env")
	t.Setenv(transport.EnvAppSecret, "secret_env")
	t.Setenv(transport.EnvBaseURL, transport.LarkBaseURL)

	cfg, _, err := resolve(t, "--app-id", "cli_flag", "--user-id", "ou_1", "--audio-file", audio, "--duration", "10")
	require.NoError(t, err)
	assert.Equal(t, "cli_flag", cfg.AppID)
	assert.Equal(t, "secret_env", cfg.AppSecret)
	assert.Equal(t, transport.LarkBaseURL, cfg.BaseURL)
}

func TestResolveConfigDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")
	writeFile(t, dir, ".env", "FEISHU_APP_ID=cli_dotenv\nFEISHU_APP_SECRET=secret_dotenv\n")

	t.Setenv(transport.EnvAppSecret, "secret_env")

	cfg, _, err := resolve(t, "--user-id", "ou_1", "--audio-file", audio, "--duration", "10")
	require.NoError(t, err)
	assert.Equal(t, "cli_dotenv", cfg.AppID)
	assert.Equal(t, "secret_env", cfg.AppSecret, "process environment wins over the dotenv file")
}

func TestResolveConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")
	conf := writeFile(t, dir, "config.json", `{"app_id":"cli_file","app_secret":"secret_file","base_url":"https://open.larksuite.com"}`)

	cfg, _, err := resolve(t, "--config", conf, "--user-id", "ou_1", "--audio-file", audio, "--duration", "10")
	require.NoError(t, err)
	assert.Equal(t, "cli_file", cfg.AppID)
	assert.Equal(t, "secret_file", cfg.AppSecret)
	assert.Equal(t, transport.LarkBaseURL, cfg.BaseURL)
}

func TestResolveConfigInvalidDuration(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	for _, d := range []string{"0", "-5", "abc", "3480ms", "1.5"} {
		t.Run(d, func(t *testing.T) {
			_, _, err := resolve(t,
				"--app-id", "a", "--app-secret", "b", "--user-id", "ou_1",
				"--audio-file", audio, "--duration", d)
			assert.Equal(t, []string{flagDuration}, issueFields(t, err))
		})
	}
}

func TestResolveConfigInvalidBaseURL(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.opus", "x")

	_, _, err := resolve(t,
		"--app-id", "a", "--app-secret", "b", "--user-id", "ou_1",
		"--audio-file", audio, "--duration", "10", "--base-url", "open.feishu.cn")
	assert.Equal(t, []string{flagBaseURL}, issueFields(t, err))
}

func TestResolveConfigMissingAudioFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	_, _, err := resolve(t,
		"--app-id", "a", "--app-secret", "b", "--user-id", "ou_1",
		"--audio-file", filepath.Join(dir, "missing.opus"), "--duration", "10")
	require.ErrorIs(t, err, ErrAudioNotFound)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveConfigDirectoryIsNotAudio(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	_, _, err := resolve(t,
		"--app-id", "a", "--app-secret", "b", "--user-id", "ou_1",
		"--audio-file", dir, "--duration", "10")
	assert.ErrorIs(t, err, ErrAudioNotFound)
}

func TestResolveConfigWarnsOnNonOpus(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	audio := writeFile(t, dir, "sample.mp3", "x")

	cfg, logs, err := resolve(t,
		"--app-id", "a", "--app-secret", "b", "--user-id", "ou_1",
		"--audio-file", audio, "--duration", "10")
	require.NoError(t, err, "a wrong extension only warns")
	assert.Equal(t, audio, cfg.AudioFile)
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "OPUS")
}

func TestResolveConfigBadConfigFile(t *testing.T) {
	clearEnv(t)
	root := newRootCmd(nil)
	require.NoError(t, root.ParseFlags(nil))

	_, err := newViper(root.Flags(), filepath.Join(t.TempDir(), "absent.json"), "")
	assert.Error(t, err)
}
