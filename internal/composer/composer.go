// Package composer assembles provider requests from generation parameters and the prompt templates.
// Composition is pure: no network access, no shared mutable state.
package composer

import (
	"errors"
	"fmt"

	"cilastudio/internal/app/model"
	"cilastudio/internal/llm"
	"cilastudio/internal/tier"
	"cilastudio/pkg/prompts"
)

const PortraitAspectRatio = "9:16"

var (
	ErrUnresolvedAngle = errors.New("camera angle must be resolved before composing")
	ErrMissingAngle    = errors.New("camera angle is empty")
	ErrMissingPose     = errors.New("subject pose is empty")
	ErrEmptyComment    = errors.New("reply tool requires a non-empty user comment")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrEmptyPrompt     = errors.New("image prompt is empty")
)

var (
	contentPlanSchema = &llm.ObjectSchema{
		Properties: []string{"caption", "imagePrompt", "storyIdea"},
		Required:   []string{"caption", "imagePrompt", "storyIdea"},
	}
	topicSchema = &llm.ObjectSchema{
		Properties: []string{"topic", "context"},
	}
)

type Composer struct {
	prompts *prompts.Prompts
	policy  tier.Policy
}

func New(p *prompts.Prompts, policy tier.Policy) *Composer {
	if p == nil {
		p = prompts.Default()
	}
	return &Composer{
		prompts: p,
		policy:  policy.WithDefaults(),
	}
}

func (c *Composer) Policy() tier.Policy {
	return c.policy
}

func ContentPlanSchema() llm.ObjectSchema {
	return *contentPlanSchema
}

func TopicSchema() llm.ObjectSchema {
	return *topicSchema
}

func attachment(img *model.Image) llm.Part {
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = model.DefaultImageMIMEType
	}
	return llm.BlobPart(img.Data, mimeType)
}

func wrapRender(what string, err error) error {
	return fmt.Errorf("render %s prompt: %w", what, err)
}
