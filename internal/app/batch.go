package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cilastudio/internal/app/model"
	"cilastudio/internal/composer"
	"cilastudio/internal/normalize"
)

var ErrInvalidCount = errors.New("invalid variation count")

// GenerateBatch issues count content-plan calls concurrently. A DEFAULT camera angle is resolved per
// index through the rotation; results keep request order.
func (s *Service) GenerateBatch(ctx context.Context, apiKey string, t model.Tier, req model.GenerationRequest, count int) ([]model.ContentResult, error) {
	if err := checkCredential(apiKey); err != nil {
		return nil, err
	}
	if count < 1 || count > s.maxVariations {
		return nil, fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidCount, count, s.maxVariations)
	}

	angles := composer.ResolveAngles(req.CameraAngle, count)
	results := make([]model.ContentResult, count)
	kinds := make([]normalize.Kind, count)

	slog.Info("Generating variations", "count", count, "tier", t, "topic", req.Topic)

	g, gctx := errgroup.WithContext(ctx)
	for i := range count {
		variant := req
		variant.CameraAngle = angles[i]

		g.Go(func() error {
			plan, kind, err := s.contentPlan(gctx, apiKey, t, variant)
			if err != nil {
				return err
			}
			kinds[i] = kind
			results[i] = s.newResult(variant, t, plan)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, k := range kinds {
		if k != normalize.KindOK {
			failed++
		}
	}
	slog.Info("Variations ready", "count", count, "fallbacks", failed)

	return results, nil
}

func (s *Service) newResult(req model.GenerationRequest, t model.Tier, plan model.ContentPlan) model.ContentResult {
	return model.ContentResult{
		ID:          s.newID(),
		Topic:       req.Topic,
		Mode:        req.Mode,
		VisualStyle: req.VisualStyle,
		Caption:     plan.Caption,
		ImagePrompt: plan.ImagePrompt,
		StoryIdea:   plan.StoryIdea,
		Tier:        t,
		CreatedAt:   s.now(),
	}
}
