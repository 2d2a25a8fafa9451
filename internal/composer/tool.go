package composer

import (
	"fmt"
	"strings"

	"cilastudio/internal/app/model"
	"cilastudio/internal/llm"
	"cilastudio/internal/tier"
	"cilastudio/pkg/prompts"
)

var modeTones = map[model.ContentMode]string{
	model.ModeSun:  "Cheerful, bright",
	model.ModeMoon: "Poetic, soft",
}

// ComposeTool builds one of the creator-toolkit prompts. A reply without a comment is rejected here,
// before any request exists.
func (c *Composer) ComposeTool(tool model.ToolType, tc model.ToolContext) (llm.Request, error) {
	var (
		text string
		err  error
	)

	switch tool {
	case model.ToolAudio:
		text, err = c.prompts.RenderAudio(prompts.AudioParams{
			Caption:     tc.Caption,
			VisualStyle: string(tc.VisualStyle),
			Mode:        string(tc.Mode),
		})
	case model.ToolHashtags:
		text, err = c.prompts.RenderHashtags(prompts.HashtagsParams{Topic: tc.Topic})
	case model.ToolReply:
		comment := strings.TrimSpace(tc.UserComment)
		if comment == "" {
			return llm.Request{}, ErrEmptyComment
		}
		text, err = c.prompts.RenderReply(prompts.ReplyParams{
			Mode:     string(tc.Mode),
			ModeTone: modeTone(tc.Mode),
			Comment:  comment,
		})
	default:
		return llm.Request{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	if err != nil {
		return llm.Request{}, wrapRender(strings.ToLower(string(tool)), err)
	}

	system, err := c.prompts.RenderToolSystem()
	if err != nil {
		return llm.Request{}, wrapRender("tool system", err)
	}

	sel := c.policy.Select(model.TierFree, tier.CallToolOutput)
	return llm.Request{
		Model:             sel.Model,
		Parts:             []llm.Part{llm.TextPart(text)},
		SystemInstruction: system,
		Idempotent:        true,
	}, nil
}

func modeTone(mode model.ContentMode) string {
	if tone, ok := modeTones[mode]; ok {
		return tone
	}
	return modeTones[model.ModeMoon]
}
