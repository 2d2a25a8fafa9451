package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cilastudio/internal/app/model"
	"cilastudio/internal/composer"
	"cilastudio/internal/llm"
	"cilastudio/internal/normalize"
	"cilastudio/internal/tier"
)

const defaultMaxVariations = 4

var (
	ErrMissingCredential = errors.New("API Key is missing. Please provide your Google Gemini API Key")
	ErrDiagnosticResult  = errors.New("result carries a diagnostic caption")
)

// GeneratorFactory creates a provider client bound to one credential.
type GeneratorFactory func(ctx context.Context, apiKey string) (llm.Generator, error)

type Service struct {
	composer      *composer.Composer
	newGenerator  GeneratorFactory
	timeout       time.Duration
	maxVariations int
	now           func() time.Time
	newID         func() string
}

type ServiceOptions struct {
	Composer      *composer.Composer
	NewGenerator  GeneratorFactory
	Timeout       time.Duration
	MaxVariations int
	Now           func() time.Time
	NewID         func() string
}

func NewService(opts ServiceOptions) *Service {
	if opts.Composer == nil {
		opts.Composer = composer.New(nil, tier.DefaultPolicy())
	}
	if opts.MaxVariations <= 0 {
		opts.MaxVariations = defaultMaxVariations
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		composer:      opts.Composer,
		newGenerator:  opts.NewGenerator,
		timeout:       opts.Timeout,
		maxVariations: opts.MaxVariations,
		now:           opts.Now,
		newID:         opts.NewID,
	}
}

func (s *Service) MaxVariations() int {
	return s.maxVariations
}

func (s *Service) Policy() tier.Policy {
	return s.composer.Policy()
}

// DiscoverTopic degrades to the fixed fallback topic on every failure except a missing credential.
func (s *Service) DiscoverTopic(ctx context.Context, apiKey string, t model.Tier) (model.TrendingTopic, error) {
	if err := checkCredential(apiKey); err != nil {
		return model.TrendingTopic{}, err
	}

	req := s.composer.ComposeTopicDiscovery(t)
	slog.Info("Discovering trending topic", "model", req.Model, "tier", t)

	resp, err := s.generate(ctx, apiKey, req)
	outcome := normalize.TopicFromError(err)
	if err == nil {
		outcome = normalize.ParseTopic(resp.Text)
	}

	if outcome.Kind != normalize.KindOK {
		slog.Warn("Topic discovery fell back", "kind", outcome.Kind, "error", outcome.Cause)
	}
	return outcome.Flatten(), nil
}

// GenerateContentPlan returns an error only for a missing credential or an invalid request.
// Provider failures come back as fallback plans.
func (s *Service) GenerateContentPlan(ctx context.Context, apiKey string, t model.Tier, req model.GenerationRequest) (model.ContentPlan, error) {
	plan, _, err := s.contentPlan(ctx, apiKey, t, req)
	return plan, err
}

func (s *Service) contentPlan(ctx context.Context, apiKey string, t model.Tier, req model.GenerationRequest) (model.ContentPlan, normalize.Kind, error) {
	if err := checkCredential(apiKey); err != nil {
		return model.ContentPlan{}, normalize.KindFailed, err
	}

	req.CameraAngle = composer.ResolveAngle(req.CameraAngle, 0)
	llmReq, err := s.composer.ComposeContentPlan(t, req)
	if err != nil {
		return model.ContentPlan{}, normalize.KindFailed, fmt.Errorf("compose content plan: %w", err)
	}

	slog.Info("Generating content plan", "model", llmReq.Model, "tier", t, "angle", req.CameraAngle, "pose", req.SubjectPose)

	resp, err := s.generate(ctx, apiKey, llmReq)
	var outcome normalize.PlanOutcome
	if err != nil {
		outcome = normalize.FromError(err, llmReq.Model, t)
	} else {
		outcome = normalize.ParsePlan(resp.Text)
	}

	if outcome.Kind != normalize.KindOK {
		slog.Warn("Content plan fell back", "model", llmReq.Model, "tier", t, "kind", outcome.Kind, "error", outcome.Cause)
	}
	return outcome.Flatten(), outcome.Kind, nil
}

// SynthesizeImage returns the generated image as a data URI.
func (s *Service) SynthesizeImage(ctx context.Context, apiKey string, t model.Tier, variant model.ImageModel, prompt string, reference *model.Image) (string, error) {
	if err := checkCredential(apiKey); err != nil {
		return "", err
	}

	req, err := s.composer.ComposeImageSynthesis(t, variant, prompt, reference)
	if err != nil {
		return "", fmt.Errorf("compose image synthesis: %w", err)
	}

	slog.Info("Synthesizing image", "model", req.Model, "tier", t, "reference", reference.Present())

	resp, err := s.generate(ctx, apiKey, req)
	if err != nil {
		slog.Error("Image synthesis failed", "model", req.Model, "error", err)
		return "", err
	}

	uri, err := normalize.ImageArtifact(resp)
	if err != nil {
		slog.Error("Image synthesis returned no image", "model", req.Model, "error", err)
		return "", err
	}
	return uri, nil
}

func (s *Service) GenerateVideoPrompt(ctx context.Context, apiKey string, t model.Tier, topic, imagePrompt, caption string) (string, error) {
	if err := checkCredential(apiKey); err != nil {
		return "", err
	}

	req, err := s.composer.ComposeVideoPrompt(t, topic, imagePrompt, caption)
	if err != nil {
		return "", fmt.Errorf("compose video prompt: %w", err)
	}

	slog.Info("Generating video prompt", "model", req.Model, "tier", t)

	resp, err := s.generate(ctx, apiKey, req)
	if err != nil {
		slog.Error("Video prompt failed", "model", req.Model, "error", err)
		return "", err
	}
	return normalize.TextArtifact(resp)
}

func (s *Service) GenerateToolOutput(ctx context.Context, apiKey string, tool model.ToolType, tc model.ToolContext) (string, error) {
	if err := checkCredential(apiKey); err != nil {
		return "", err
	}

	req, err := s.composer.ComposeTool(tool, tc)
	if err != nil {
		return "", fmt.Errorf("compose tool: %w", err)
	}

	slog.Info("Generating tool output", "tool", tool, "model", req.Model)

	resp, err := s.generate(ctx, apiKey, req)
	if err != nil {
		slog.Error("Tool output failed", "tool", tool, "error", err)
		return "", err
	}
	return normalize.TextArtifact(resp)
}

// AttachImage synthesizes the image for result and stores it in GeneratedImageURL.
// Results carrying a diagnostic caption are refused. The tier the result was created with wins over t.
func (s *Service) AttachImage(ctx context.Context, apiKey string, t model.Tier, result *model.ContentResult, variant model.ImageModel, reference *model.Image) error {
	if !result.CanSynthesizeImage() {
		return ErrDiagnosticResult
	}
	uri, err := s.SynthesizeImage(ctx, apiKey, resultTier(result, t), variant, result.ImagePrompt, reference)
	if err != nil {
		return err
	}
	result.GeneratedImageURL = uri
	return nil
}

func (s *Service) AttachVideoPrompt(ctx context.Context, apiKey string, t model.Tier, result *model.ContentResult) error {
	prompt, err := s.GenerateVideoPrompt(ctx, apiKey, resultTier(result, t), result.Topic, result.ImagePrompt, result.Caption)
	if err != nil {
		return err
	}
	result.VideoPrompt = prompt
	return nil
}

func resultTier(result *model.ContentResult, fallback model.Tier) model.Tier {
	if result.Tier != "" {
		return result.Tier
	}
	return fallback
}

func (s *Service) generate(ctx context.Context, apiKey string, req llm.Request) (*llm.Response, error) {
	if s.newGenerator == nil {
		return nil, fmt.Errorf("no provider configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	gen, err := s.newGenerator(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("create provider client: %w", err)
	}
	return gen.Generate(ctx, req)
}

func checkCredential(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return ErrMissingCredential
	}
	return nil
}
