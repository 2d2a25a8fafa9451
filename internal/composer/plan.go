package composer

import (
	"strings"

	"cilastudio/internal/app/model"
	"cilastudio/internal/llm"
	"cilastudio/internal/tier"
	"cilastudio/pkg/prompts"
)

func (c *Composer) ComposeTopicDiscovery(t model.Tier) llm.Request {
	sel := c.policy.Select(t, tier.CallTopicDiscovery)
	return llm.Request{
		Model:        sel.Model,
		Parts:        []llm.Part{llm.TextPart(c.prompts.TopicTask())},
		Schema:       topicSchema,
		GoogleSearch: true,
		Idempotent:   true,
	}
}

// ComposeContentPlan lays out attachments first (product, then location), each followed by its
// caption, and closes with the single instruction block.
func (c *Composer) ComposeContentPlan(t model.Tier, req model.GenerationRequest) (llm.Request, error) {
	if err := validateFraming(req); err != nil {
		return llm.Request{}, err
	}

	text, err := c.prompts.RenderContentPlan(prompts.ContentPlanParams{
		Topic:        strings.TrimSpace(req.Topic),
		Mode:         string(req.Mode),
		VisualStyle:  string(req.VisualStyle),
		CameraAngle:  string(req.CameraAngle),
		SubjectPose:  string(req.SubjectPose),
		ProductFocus: strings.TrimSpace(req.ProductFocus),
		HasProduct:   req.ProductImage.Present(),
		HasLocation:  req.LocationImage.Present(),
	})
	if err != nil {
		return llm.Request{}, wrapRender("content plan", err)
	}

	parts := make([]llm.Part, 0, 5)
	if req.ProductImage.Present() {
		parts = append(parts, attachment(req.ProductImage), llm.TextPart(c.prompts.ProductAttachment()))
	}
	if req.LocationImage.Present() {
		parts = append(parts, attachment(req.LocationImage), llm.TextPart(c.prompts.LocationAttachment()))
	}
	parts = append(parts, llm.TextPart(text))

	sel := c.policy.Select(t, tier.CallContentPlan)
	return llm.Request{
		Model:             sel.Model,
		Parts:             parts,
		SystemInstruction: c.prompts.ContentPlanSystem(),
		Schema:            contentPlanSchema,
		ThinkingBudget:    sel.ThinkingBudget,
	}, nil
}

func validateFraming(req model.GenerationRequest) error {
	switch {
	case strings.TrimSpace(string(req.CameraAngle)) == "":
		return ErrMissingAngle
	case req.CameraAngle == model.AngleDefault:
		return ErrUnresolvedAngle
	case strings.TrimSpace(string(req.SubjectPose)) == "":
		return ErrMissingPose
	}
	return nil
}
