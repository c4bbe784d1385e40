package types

// Message roles accepted on the chat endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ImageAttachment carries an inline image the admin attached to the
// current turn. The payload is forwarded to the model as a synthetic
// system message so it can pick an upload tool.
type ImageAttachment struct {
	Base64 string `json:"base64" binding:"required"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// ChatRequest represents the inbound chat payload.
type ChatRequest struct {
	Messages []ChatMessage    `json:"messages" binding:"required"`
	Image    *ImageAttachment `json:"image,omitempty"`
}
