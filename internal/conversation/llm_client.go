package conversation

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is the provider-neutral message handed to an LLMClient.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// LLMRequest carries one completion call. System blocks are optional: the
// turn handler embeds its instruction in Messages so every provider sees the
// same transcript.
type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// LLMResponse is the completion result. An empty Text is a valid response.
type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// LLMClient is implemented by every model provider.
type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// Turn is one entry of a dialogue transcript as clients send it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserTurn and AssistantTurn are shorthands for building transcripts.
func UserTurn(content string) Turn      { return Turn{Role: ChatRoleUser, Content: content} }
func AssistantTurn(content string) Turn { return Turn{Role: ChatRoleAssistant, Content: content} }

// normalizedRole maps every non-user role to assistant.
func normalizedRole(role string) string {
	if role == ChatRoleUser {
		return ChatRoleUser
	}
	return ChatRoleAssistant
}
