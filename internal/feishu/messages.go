package feishu

import (
	"context"
	"encoding/json"
	"fmt"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"

	"github.com/VinMeld/feishu-voice/internal/models"
	"github.com/VinMeld/feishu-voice/internal/transport"
)

const opSend = "im/v1/messages"

// SendAudio sends an audio message referencing fileKey to the recipient.
func (c *Client) SendAudio(ctx context.Context, token string, to models.Recipient, fileKey string) (models.SendResult, error) {
	if to.ID == "" {
		return models.SendResult{}, fmt.Errorf("%s: empty recipient", opSend)
	}

	content, err := json.Marshal(models.AudioContent{FileKey: fileKey})
	if err != nil {
		return models.SendResult{}, fmt.Errorf("%s: encoding content: %w", opSend, err)
	}

	id := c.newUUID()
	c.logger.DebugContext(ctx, "Sending audio message",
		"receive_id_type", to.IDType, "receive_id", to.ID, "uuid", id)

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(string(to.IDType)).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(to.ID).
			MsgType(transport.MsgTypeAudio).
			Content(string(content)).
			Uuid(id).
			Build()).
		Build()

	resp, err := c.sdk.Im.V1.Message.Create(ctx, req, larkcore.WithTenantAccessToken(token))
	if err != nil {
		return models.SendResult{}, fmt.Errorf("%s: %w", opSend, err)
	}
	if !resp.Success() {
		return models.SendResult{}, &APIError{Op: opSend, Code: resp.Code, Msg: resp.Msg, Body: rawBody(resp.ApiResp)}
	}
	if resp.Data == nil || resp.Data.MessageId == nil || *resp.Data.MessageId == "" {
		return models.SendResult{}, unexpected(opSend, "data.message_id")
	}

	result := models.SendResult{MessageID: *resp.Data.MessageId}
	if resp.Data.ChatId != nil {
		result.ChatID = *resp.Data.ChatId
	}
	return result, nil
}
