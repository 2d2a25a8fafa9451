// Package tier maps a service tier to the model and reasoning budget used for each provider call.
// No other package encodes tier-to-model decisions.
package tier

import "cilastudio/internal/app/model"

const (
	DefaultFastModel         = "gemini-2.5-flash"
	DefaultProModel          = "gemini-3-pro-preview"
	DefaultImageModel        = "gemini-2.5-flash-image"
	DefaultProImageModel     = "gemini-3-pro-image-preview"
	DefaultContentPlanBudget = 2048
	DefaultVideoPromptBudget = 1024
)

type Call int

const (
	CallTopicDiscovery Call = iota
	CallContentPlan
	CallImageSynthesis
	CallVideoPrompt
	CallToolOutput
)

func (c Call) String() string {
	switch c {
	case CallTopicDiscovery:
		return "topic_discovery"
	case CallContentPlan:
		return "content_plan"
	case CallImageSynthesis:
		return "image_synthesis"
	case CallVideoPrompt:
		return "video_prompt"
	case CallToolOutput:
		return "tool_output"
	default:
		return "unknown"
	}
}

// Selection is the resolved model for one call. ThinkingBudget is zero when no budget is requested.
type Selection struct {
	Model          string
	ThinkingBudget int32
}

type Policy struct {
	FastModel         string
	ProModel          string
	ImageModel        string
	ProImageModel     string
	ContentPlanBudget int32
	VideoPromptBudget int32
}

func DefaultPolicy() Policy {
	return Policy{
		FastModel:         DefaultFastModel,
		ProModel:          DefaultProModel,
		ImageModel:        DefaultImageModel,
		ProImageModel:     DefaultProImageModel,
		ContentPlanBudget: DefaultContentPlanBudget,
		VideoPromptBudget: DefaultVideoPromptBudget,
	}
}

// WithDefaults fills empty fields from DefaultPolicy. Non-positive budgets are reset too,
// since PRO content-plan and video-prompt calls always carry a budget.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.FastModel == "" {
		p.FastModel = d.FastModel
	}
	if p.ProModel == "" {
		p.ProModel = d.ProModel
	}
	if p.ImageModel == "" {
		p.ImageModel = d.ImageModel
	}
	if p.ProImageModel == "" {
		p.ProImageModel = d.ProImageModel
	}
	if p.ContentPlanBudget <= 0 {
		p.ContentPlanBudget = d.ContentPlanBudget
	}
	if p.VideoPromptBudget <= 0 {
		p.VideoPromptBudget = d.VideoPromptBudget
	}
	return p
}

// Select resolves the model for a call. Unknown tiers are treated as FREE.
func (p Policy) Select(t model.Tier, call Call) Selection {
	pro := t == model.TierPro

	switch call {
	case CallImageSynthesis:
		if pro {
			return Selection{Model: p.ProImageModel}
		}
		return Selection{Model: p.ImageModel}
	case CallToolOutput:
		return Selection{Model: p.FastModel}
	}

	if !pro {
		return Selection{Model: p.FastModel}
	}

	sel := Selection{Model: p.ProModel}
	switch call {
	case CallContentPlan:
		sel.ThinkingBudget = p.ContentPlanBudget
	case CallVideoPrompt:
		sel.ThinkingBudget = p.VideoPromptBudget
	}
	return sel
}

// SelectImage honours an explicit image variant and falls back to the tier default.
func (p Policy) SelectImage(t model.Tier, variant model.ImageModel) Selection {
	switch variant {
	case model.ImageNanoBanana:
		return Selection{Model: p.ImageModel}
	case model.ImageNanoBananaPro:
		return Selection{Model: p.ProImageModel}
	default:
		return p.Select(t, CallImageSynthesis)
	}
}
