package conversation

import (
	"context"

	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// FallbackLLMClient wraps a primary model with a secondary one. The secondary
// is asked only when the primary returns an error.
type FallbackLLMClient struct {
	primary       LLMClient
	fallback      LLMClient
	fallbackModel string
	logger        *logging.Logger
}

// NewFallbackLLMClient creates a model-level fallback. fallbackModel replaces
// req.Model on the secondary call when set. A nil fallback disables it.
func NewFallbackLLMClient(primary, fallback LLMClient, fallbackModel string, logger *logging.Logger) *FallbackLLMClient {
	if primary == nil {
		panic("conversation: primary llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackLLMClient{
		primary:       primary,
		fallback:      fallback,
		fallbackModel: fallbackModel,
		logger:        logger,
	}
}

func (c *FallbackLLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary model failed",
		"error", err,
		"fallback_available", c.fallback != nil,
	)
	if c.fallback == nil || ctx.Err() != nil {
		return LLMResponse{}, err
	}

	secondary := req
	if c.fallbackModel != "" {
		secondary.Model = c.fallbackModel
	}
	fallbackResp, fallbackErr := c.fallback.Complete(ctx, secondary)
	if fallbackErr != nil {
		c.logger.Error("secondary model also failed",
			"primary_error", err,
			"fallback_error", fallbackErr,
		)
		return LLMResponse{}, fallbackErr
	}
	c.logger.Info("secondary model succeeded after primary failure")
	return fallbackResp, nil
}
