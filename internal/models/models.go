package models

// ReceiveIDType selects how the platform interprets a recipient id.
type ReceiveIDType string

const (
	// ReceiveIDOpenID addresses an individual user by open_id.
	ReceiveIDOpenID ReceiveIDType = "open_id"
	// ReceiveIDChatID addresses a group chat by chat_id.
	ReceiveIDChatID ReceiveIDType = "chat_id"
)

// Recipient is the resolved target of a message.
type Recipient struct {
	IDType ReceiveIDType `json:"receive_id_type"`
	ID     string        `json:"receive_id"`
}

// ResolveRecipient picks the recipient from a user id and a chat id.
// The user id wins when both are set.
func ResolveRecipient(userID, chatID string) (Recipient, bool) {
	switch {
	case userID != "":
		return Recipient{IDType: ReceiveIDOpenID, ID: userID}, true
	case chatID != "":
		return Recipient{IDType: ReceiveIDChatID, ID: chatID}, true
	default:
		return Recipient{}, false
	}
}

// String renders the recipient for console output.
func (r Recipient) String() string {
	if r.IDType == ReceiveIDChatID {
		return "Chat " + r.ID
	}
	return "User " + r.ID
}

// AudioContent is the JSON content of an audio message.
type AudioContent struct {
	FileKey string `json:"file_key"`
}

// AudioUpload describes an audio payload to be uploaded.
type AudioUpload struct {
	Path       string
	FileName   string
	DurationMS int
}

// SendResult is what the platform reports back for a sent message.
type SendResult struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id,omitempty"`
}
