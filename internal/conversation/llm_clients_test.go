package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackLLMClient(t *testing.T) {
	t.Run("primary success", func(t *testing.T) {
		primary := &stubLLMClient{response: LLMResponse{Text: "primary"}}
		secondary := &stubLLMClient{response: LLMResponse{Text: "secondary"}}
		resp, err := NewFallbackLLMClient(primary, secondary, "", nil).Complete(context.Background(), LLMRequest{Model: "a"})
		require.NoError(t, err)
		assert.Equal(t, "primary", resp.Text)
		assert.Zero(t, secondary.callCount())
	})

	t.Run("secondary after failure with model override", func(t *testing.T) {
		primary := &stubLLMClient{err: errors.New("down")}
		secondary := &stubLLMClient{response: LLMResponse{Text: "secondary"}}
		resp, err := NewFallbackLLMClient(primary, secondary, "model-b", nil).Complete(context.Background(), LLMRequest{Model: "model-a"})
		require.NoError(t, err)
		assert.Equal(t, "secondary", resp.Text)
		assert.Equal(t, "model-b", secondary.lastReq.Model)
	})

	t.Run("no secondary", func(t *testing.T) {
		boom := errors.New("down")
		_, err := NewFallbackLLMClient(&stubLLMClient{err: boom}, nil, "", nil).Complete(context.Background(), LLMRequest{})
		require.ErrorIs(t, err, boom)
	})

	t.Run("both fail", func(t *testing.T) {
		second := errors.New("also down")
		_, err := NewFallbackLLMClient(&stubLLMClient{err: errors.New("down")}, &stubLLMClient{err: second}, "", nil).
			Complete(context.Background(), LLMRequest{})
		require.ErrorIs(t, err, second)
	})
}

type stubConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (s *stubConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.input = params
	return s.out, s.err
}

func TestBedrockLLMClient(t *testing.T) {
	api := &stubConverse{out: &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: " ¡Hola! "}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage:      &brtypes.TokenUsage{InputTokens: aws.Int32(10), OutputTokens: aws.Int32(3), TotalTokens: aws.Int32(13)},
	}}
	client := NewBedrockLLMClient(api)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:       "anthropic.claude-3-haiku",
		Temperature: -1,
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "SYS"},
			{Role: ChatRoleAssistant, Content: "¡Hola!"},
			{Role: ChatRoleUser, Content: "turno"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "¡Hola!", resp.Text)
	assert.Equal(t, int32(13), resp.Usage.TotalTokens)
	assert.Equal(t, "end_turn", resp.StopReason)
	require.Len(t, api.input.Messages, 3)
	assert.Equal(t, brtypes.ConversationRoleAssistant, api.input.Messages[1].Role)
	assert.Nil(t, api.input.InferenceConfig)
}

func TestBedrockLLMClient_MergesConsecutiveRoles(t *testing.T) {
	api := &stubConverse{out: &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: "ok"}},
		}},
	}}

	_, err := NewBedrockLLMClient(api).Complete(context.Background(), LLMRequest{
		Model: "m",
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "Hola"},
			{Role: ChatRoleAssistant, Content: "¿En qué te ayudo?"},
			{Role: ChatRoleUser, Content: "Quiero un turno"},
			{Role: ChatRoleUser, Content: "con cardiología"},
		},
	})
	require.NoError(t, err)
	require.Len(t, api.input.Messages, 3)
	last := api.input.Messages[2]
	assert.Equal(t, brtypes.ConversationRoleUser, last.Role)
	require.Len(t, last.Content, 2)
	assert.Equal(t, "con cardiología", last.Content[1].(*brtypes.ContentBlockMemberText).Value)
}

func TestBedrockLLMClient_Errors(t *testing.T) {
	_, err := NewBedrockLLMClient(&stubConverse{}).Complete(context.Background(), LLMRequest{})
	require.Error(t, err)

	boom := errors.New("throttled")
	_, err = NewBedrockLLMClient(&stubConverse{err: boom}).Complete(context.Background(), LLMRequest{Model: "m"})
	require.ErrorIs(t, err, boom)

	_, err = NewBedrockLLMClient(&stubConverse{}).Complete(context.Background(), LLMRequest{
		Model:    "m",
		Messages: []ChatMessage{{Role: "tool", Content: "x"}},
	})
	require.Error(t, err)
}

type stubChatClient struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func TestOpenAILLMClient(t *testing.T) {
	api := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Hola\n"},
			FinishReason: openai.FinishReasonStop,
		}},
		Usage: openai.Usage{PromptTokens: 5, CompletionTokens: 1, TotalTokens: 6},
	}}
	client := NewOpenAILLMClient(api, "")

	resp, err := client.Complete(context.Background(), LLMRequest{
		MaxTokens:   100,
		Temperature: 0.4,
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "SYS"},
			{Role: ChatRoleAssistant, Content: "¡Hola!"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola", resp.Text)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, int32(6), resp.Usage.TotalTokens)
	assert.Equal(t, DefaultOpenAIModel, api.req.Model)
	assert.Equal(t, 100, api.req.MaxTokens)
	assert.Equal(t, openai.ChatMessageRoleAssistant, api.req.Messages[1].Role)

	api.resp.Choices = nil
	_, err = client.Complete(context.Background(), LLMRequest{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "x"}}})
	require.Error(t, err)
}

func TestNewOpenAIChatClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIChatClient(" ", "")
	require.Error(t, err)

	client, err := NewOpenAIChatClient("sk-test", "http://localhost:11434/v1/")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestGeminiContents(t *testing.T) {
	history, last, err := geminiContents([]ChatMessage{
		{Role: ChatRoleUser, Content: "SYS"},
		{Role: ChatRoleAssistant, Content: "¡Hola!"},
		{Role: ChatRoleUser, Content: " "},
		{Role: ChatRoleUser, Content: "turno"},
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("turno")}, last)

	_, _, err = geminiContents(nil)
	require.Error(t, err)
}

func TestGeminiText(t *testing.T) {
	assert.Equal(t, "", geminiText(nil))
	assert.Equal(t, "ab", geminiText(&genai.Content{Parts: []genai.Part{genai.Text("a"), genai.Text("b ")}}))
}

func TestNewGeminiLLMClientRequiresKey(t *testing.T) {
	_, err := NewGeminiLLMClient(context.Background(), "", "")
	require.Error(t, err)
}
