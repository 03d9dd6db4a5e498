package transport

// Open platform endpoints and defaults.
const (
	// DefaultBaseURL is the Feishu open platform domain.
	DefaultBaseURL = "https://open.feishu.cn"
	// LarkBaseURL is the international Lark open platform domain.
	LarkBaseURL = "https://open.larksuite.com"

	TenantAccessTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"
	FilesPath             = "/open-apis/im/v1/files"
	MessagesPath          = "/open-apis/im/v1/messages"
)

// Wire-level constants for voice messages.
const (
	// FileTypeOpus is the file_type tag for voice uploads.
	FileTypeOpus = "opus"
	// AudioExtension is the extension expected on voice files.
	AudioExtension = ".opus"
	// MsgTypeAudio is the msg_type of a voice message.
	MsgTypeAudio = "audio"
)

// Environment variables consulted when flags are omitted.
const (
	EnvAppID     = "FEISHU_APP_ID"
	EnvAppSecret = "FEISHU_APP_SECRET"
	EnvBaseURL   = "FEISHU_BASE_URL"
)
