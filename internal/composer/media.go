package composer

import (
	"log/slog"
	"strings"

	"cilastudio/internal/app/model"
	"cilastudio/internal/llm"
	"cilastudio/internal/tier"
	"cilastudio/pkg/prompts"
)

// ComposeImageSynthesis pairs the reference face with the rendering instruction. Without a reference
// the bare prompt is submitted; callers are expected to require one.
func (c *Composer) ComposeImageSynthesis(t model.Tier, variant model.ImageModel, prompt string, reference *model.Image) (llm.Request, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return llm.Request{}, ErrEmptyPrompt
	}

	sel := c.policy.SelectImage(t, variant)
	req := llm.Request{
		Model:       sel.Model,
		AspectRatio: PortraitAspectRatio,
	}

	if !reference.Present() {
		slog.Warn("Composing image synthesis without a reference face", "model", sel.Model)
		req.Parts = []llm.Part{llm.TextPart(prompt)}
		return req, nil
	}

	text, err := c.prompts.RenderImage(prompts.ImageParams{Prompt: prompt})
	if err != nil {
		return llm.Request{}, wrapRender("image", err)
	}
	req.Parts = []llm.Part{attachment(reference), llm.TextPart(text)}
	return req, nil
}

func (c *Composer) ComposeVideoPrompt(t model.Tier, topic, imagePrompt, caption string) (llm.Request, error) {
	text, err := c.prompts.RenderVideo(prompts.VideoParams{
		Topic:       topic,
		ImagePrompt: imagePrompt,
		Caption:     caption,
	})
	if err != nil {
		return llm.Request{}, wrapRender("video", err)
	}

	sel := c.policy.Select(t, tier.CallVideoPrompt)
	return llm.Request{
		Model:             sel.Model,
		Parts:             []llm.Part{llm.TextPart(text)},
		SystemInstruction: c.prompts.VideoSystem(),
		ThinkingBudget:    sel.ThinkingBudget,
	}, nil
}
