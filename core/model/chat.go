package model

import (
	"context"

	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/gogf/gf/v2/frame/g"
)

// NewChatModel builds the answer model for the configured provider. An
// unset provider means openai.
func NewChatModel(ctx context.Context, cfg *config.ChatConfig) (einoModel.BaseChatModel, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "chat config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New(errors.ErrModelNotConfigured, "chat.model is not configured")
	}

	switch cfg.Provider {
	case "openai", "":
		cm, err := openai.NewChatModel(ctx, cfg.OpenAIConfig())
		if err != nil {
			return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create openai chat model: %v", err)
		}
		g.Log().Infof(ctx, "Chat model initialized: provider=openai, model=%s", cfg.Model)
		return cm, nil
	case "qwen":
		cm, err := qwen.NewChatModel(ctx, cfg.QwenConfig())
		if err != nil {
			return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create qwen chat model: %v", err)
		}
		g.Log().Infof(ctx, "Chat model initialized: provider=qwen, model=%s", cfg.Model)
		return cm, nil
	default:
		return nil, errors.Newf(errors.ErrUnsupportedConfiguration, "unsupported chat provider: %s", cfg.Provider)
	}
}
