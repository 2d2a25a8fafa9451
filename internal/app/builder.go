package app

import (
	"fmt"
	"log/slog"

	"cilastudio/internal/app/model"
	"cilastudio/internal/composer"
	"cilastudio/internal/gemini"
	"cilastudio/internal/storage"
	"cilastudio/internal/tier"
	"cilastudio/pkg/config"
	"cilastudio/pkg/httputil"
	"cilastudio/pkg/prompts"
)

type BuildResult struct {
	Config  *config.Config
	Service *Service
	Storage *storage.LocalStorage
	Prompts *prompts.Prompts
	Tier    model.Tier
	APIKey  string
}

func BuildService(cfg *config.Config) (*BuildResult, error) {
	p, err := prompts.Load(cfg.Studio.PromptsPath)
	if err != nil {
		return nil, err
	}

	t, err := model.ParseTier(cfg.Studio.Tier)
	if err != nil {
		return nil, fmt.Errorf("invalid tier in configuration: %w", err)
	}

	retry := httputil.RetryConfig{
		MaxRetries:   cfg.Gemini.Retry.MaxRetries,
		InitialDelay: cfg.Gemini.Retry.InitialDelay(),
		MaxDelay:     cfg.Gemini.Retry.MaxDelay(),
		Multiplier:   cfg.Gemini.Retry.Multiplier,
	}
	httpOpts := httputil.Options{
		PreferIPv4: cfg.Gemini.PreferIPv4,
		Timeout:    cfg.RequestTimeout(),
	}
	retryOpts := httpOpts
	retryOpts.Retry = &retry

	factory := gemini.NewFactory(gemini.Options{
		BaseURL:         cfg.Gemini.BaseURL,
		HTTPClient:      httputil.NewClient(httpOpts),
		RetryHTTPClient: httputil.NewClient(retryOpts),
	})

	svc := NewService(ServiceOptions{
		Composer:      composer.New(p, PolicyFromConfig(cfg)),
		NewGenerator:  GeneratorFactory(factory),
		Timeout:       cfg.RequestTimeout(),
		MaxVariations: cfg.Studio.MaxVariations,
	})

	slog.Debug("Studio configured", "tier", t, "output", cfg.Studio.OutputDir, "timeout", cfg.RequestTimeout())

	return &BuildResult{
		Config:  cfg,
		Service: svc,
		Storage: storage.NewLocalStorage(cfg.Studio.OutputDir),
		Prompts: p,
		Tier:    t,
		APIKey:  cfg.GeminiAPIKey,
	}, nil
}

func PolicyFromConfig(cfg *config.Config) tier.Policy {
	return tier.Policy{
		FastModel:         cfg.Gemini.Models.Fast,
		ProModel:          cfg.Gemini.Models.Pro,
		ImageModel:        cfg.Gemini.Models.Image,
		ProImageModel:     cfg.Gemini.Models.ProImage,
		ContentPlanBudget: cfg.Gemini.Thinking.ContentPlanBudget,
		VideoPromptBudget: cfg.Gemini.Thinking.VideoPromptBudget,
	}.WithDefaults()
}
