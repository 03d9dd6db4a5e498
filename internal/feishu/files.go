package feishu

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"

	"github.com/VinMeld/feishu-voice/internal/models"
	"github.com/VinMeld/feishu-voice/internal/transport"
)

const opUpload = "im/v1/files"

// UploadAudio reads the whole file into memory and uploads it as an opus
// voice file, returning the file_key assigned by the platform.
func (c *Client) UploadAudio(ctx context.Context, token string, upload models.AudioUpload) (string, error) {
	content, err := os.ReadFile(upload.Path)
	if err != nil {
		return "", fmt.Errorf("%s: reading %s: %w", opUpload, upload.Path, err)
	}

	fileName := upload.FileName
	if fileName == "" {
		fileName = filepath.Base(upload.Path)
	}

	c.logger.DebugContext(ctx, "Uploading audio file",
		"file_name", fileName, "bytes", len(content), "duration_ms", upload.DurationMS)

	req := larkim.NewCreateFileReqBuilder().
		Body(larkim.NewCreateFileReqBodyBuilder().
			FileType(transport.FileTypeOpus).
			FileName(fileName).
			Duration(upload.DurationMS).
			File(bytes.NewReader(content)).
			Build()).
		Build()

	resp, err := c.sdk.Im.V1.File.Create(ctx, req, larkcore.WithTenantAccessToken(token))
	if err != nil {
		return "", fmt.Errorf("%s: %w", opUpload, err)
	}
	if !resp.Success() {
		return "", &APIError{Op: opUpload, Code: resp.Code, Msg: resp.Msg, Body: rawBody(resp.ApiResp)}
	}
	if resp.Data == nil || resp.Data.FileKey == nil || *resp.Data.FileKey == "" {
		return "", unexpected(opUpload, "data.file_key")
	}

	return *resp.Data.FileKey, nil
}
