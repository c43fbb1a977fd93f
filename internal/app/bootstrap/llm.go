package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/webplotcentersj-hash/clinicasj/internal/config"
	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// LLM is the language model selected from config.
type LLM struct {
	Client  conversation.LLMClient
	Model   string
	closers []func() error
}

// Close releases provider connections.
func (l *LLM) Close() error {
	if l == nil {
		return nil
	}
	var errs []error
	for _, c := range l.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildLLM wires LLM_PROVIDER and, when set to a different provider,
// LLM_FALLBACK_PROVIDER. A fallback that cannot be built is logged and
// skipped; a primary that cannot be built is an error. awsCfg may be nil when
// bedrock is not selected.
func BuildLLM(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*LLM, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	primary, err := buildProvider(ctx, cfg.LLMProvider, cfg, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: primary llm %q: %w", cfg.LLMProvider, err)
	}
	llm := &LLM{Client: primary.client, Model: primary.model}
	if primary.close != nil {
		llm.closers = append(llm.closers, primary.close)
	}
	logger.Info("llm provider configured", "provider", cfg.LLMProvider, "model", primary.model)

	fallbackName := cfg.LLMFallbackProvider
	if fallbackName == "" || fallbackName == "none" || fallbackName == cfg.LLMProvider {
		return llm, nil
	}
	fallback, err := buildProvider(ctx, fallbackName, cfg, awsCfg)
	if err != nil {
		logger.Warn("fallback llm not available; continuing without it", "provider", fallbackName, "error", err)
		return llm, nil
	}
	if fallback.close != nil {
		llm.closers = append(llm.closers, fallback.close)
	}
	llm.Client = conversation.NewFallbackLLMClient(primary.client, fallback.client, fallback.model, logger)
	logger.Info("fallback llm configured", "provider", fallbackName, "model", fallback.model)
	return llm, nil
}

type builtProvider struct {
	client conversation.LLMClient
	model  string
	close  func() error
}

func buildProvider(ctx context.Context, name string, cfg *appconfig.Config, awsCfg *aws.Config) (builtProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini":
		model := modelOr(cfg.GeminiModelID, conversation.DefaultGeminiModel)
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return builtProvider{}, err
		}
		return builtProvider{client: client, model: model, close: client.Close}, nil
	case "bedrock":
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return builtProvider{}, errors.New("BEDROCK_MODEL_ID is required")
		}
		if awsCfg == nil {
			return builtProvider{}, errors.New("aws config is required")
		}
		client := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(*awsCfg))
		return builtProvider{client: client, model: cfg.BedrockModelID}, nil
	case "openai":
		api, err := conversation.NewOpenAIChatClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		if err != nil {
			return builtProvider{}, err
		}
		model := modelOr(cfg.OpenAIModel, conversation.DefaultOpenAIModel)
		return builtProvider{client: conversation.NewOpenAILLMClient(api, model), model: model}, nil
	default:
		return builtProvider{}, fmt.Errorf("unknown provider %q", name)
	}
}

func modelOr(model, fallback string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return fallback
}
