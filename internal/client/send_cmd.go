package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/VinMeld/feishu-voice/internal/ctxlog"
	"github.com/VinMeld/feishu-voice/internal/models"
)

// VoiceAPI is the platform surface the send workflow depends on.
type VoiceAPI interface {
	TenantAccessToken(ctx context.Context) (string, error)
	UploadAudio(ctx context.Context, token string, upload models.AudioUpload) (string, error)
	SendAudio(ctx context.Context, token string, to models.Recipient, fileKey string) (models.SendResult, error)
}

// Step names a stage of the send workflow.
type Step string

const (
	StepToken  Step = "get tenant access token"
	StepUpload Step = "upload audio file"
	StepSend   Step = "send voice message"
)

// StepError reports which step of the workflow failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// SendVoice runs token, upload and send strictly in order, printing progress
// to out after each step. The first failure ends the run; an uploaded file is
// left to the platform when sending fails.
func SendVoice(ctx context.Context, api VoiceAPI, cfg *Config, out io.Writer) (models.SendResult, error) {
	logger := ctxlog.FromContext(ctx)

	audioPath, err := filepath.Abs(cfg.AudioFile)
	if err != nil {
		audioPath = cfg.AudioFile
	}

	fmt.Fprintln(out, "Sending voice message to Feishu...")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Audio file: %s\n", audioPath)
	fmt.Fprintf(out, "Duration: %dms\n", cfg.DurationMS)
	fmt.Fprintf(out, "Target: %s\n", cfg.Recipient)
	fmt.Fprintln(out)

	token, err := api.TenantAccessToken(ctx)
	if err != nil {
		return models.SendResult{}, &StepError{Step: StepToken, Err: err}
	}
	fmt.Fprintln(out, "Got tenant access token")

	fileKey, err := api.UploadAudio(ctx, token, models.AudioUpload{
		Path:       cfg.AudioFile,
		FileName:   filepath.Base(cfg.AudioFile),
		DurationMS: cfg.DurationMS,
	})
	if err != nil {
		return models.SendResult{}, &StepError{Step: StepUpload, Err: err}
	}
	fmt.Fprintf(out, "Uploaded audio file, file_key: %s\n", fileKey)

	result, err := api.SendAudio(ctx, token, cfg.Recipient, fileKey)
	if err != nil {
		logger.Debug("Uploaded file left unsent", "file_key", fileKey)
		return models.SendResult{}, &StepError{Step: StepSend, Err: err}
	}
	fmt.Fprintln(out, "Sent voice message!")
	fmt.Fprintf(out, "   Message ID: %s\n", result.MessageID)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done!")

	logger.Info("Voice message sent", "message_id", result.MessageID, "receive_id_type", cfg.Recipient.IDType)
	return result, nil
}
