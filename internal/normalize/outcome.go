// Package normalize turns raw provider output into complete records. Structured calls never fail past
// this package: every failure becomes a fallback carrying a diagnostic marker in its text fields.
package normalize

import (
	"fmt"

	"cilastudio/internal/app/model"
)

type Kind int

const (
	KindOK Kind = iota
	KindSafetyBlocked
	KindPermissionDenied
	KindMalformed
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSafetyBlocked:
		return "safety_blocked"
	case KindPermissionDenied:
		return "permission_denied"
	case KindMalformed:
		return "malformed"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	SafetyCaption     = "Safety Warning: The content was blocked by AI safety filters. Please try a different topic or wording."
	SafetyImagePrompt = "Blocked by Safety Filters"
	SafetyStoryIdea   = "Blocked"

	PermissionImagePrompt = "Generation failed due to API permissions."
	PermissionStoryIdea   = "Error: Permission Denied"

	FailedImagePrompt = "Generation failed due to an error."
	FailedStoryIdea   = "Error"

	DefaultCaption     = "No caption generated."
	DefaultImagePrompt = "No prompt generated."
	DefaultStoryIdea   = "No story idea generated."

	FallbackTopic   = "Hujan sore di Braga"
	FallbackContext = "Fallback Topic"

	unknownError = "Unknown error occurred"
)

// PlanOutcome is the tagged result of a content-plan call. Model and Tier only feed the
// permission-denied caption.
type PlanOutcome struct {
	Kind  Kind
	Plan  model.ContentPlan
	Cause error
	Model string
	Tier  model.Tier
}

func (o PlanOutcome) Flatten() model.ContentPlan {
	switch o.Kind {
	case KindOK:
		return withDefaults(o.Plan)
	case KindSafetyBlocked:
		return model.ContentPlan{
			Caption:     SafetyCaption,
			ImagePrompt: SafetyImagePrompt,
			StoryIdea:   SafetyStoryIdea,
		}
	case KindPermissionDenied:
		return model.ContentPlan{
			Caption:     PermissionCaption(o.Model, o.Tier),
			ImagePrompt: PermissionImagePrompt,
			StoryIdea:   PermissionStoryIdea,
		}
	default:
		return model.ContentPlan{
			Caption:     "System Error: " + causeMessage(o.Cause),
			ImagePrompt: FailedImagePrompt,
			StoryIdea:   FailedStoryIdea,
		}
	}
}

func PermissionCaption(modelName string, t model.Tier) string {
	if t == "" {
		t = model.TierFree
	}
	return fmt.Sprintf(
		"System Error: Access Denied (403). Your API Key does not have permission to access '%s' on the %s tier. Please check your project settings or try a different key.",
		modelName, t,
	)
}

type TopicOutcome struct {
	Kind  Kind
	Topic model.TrendingTopic
	Cause error
}

func (o TopicOutcome) Flatten() model.TrendingTopic {
	if o.Kind == KindOK && o.Topic.Topic != "" {
		return o.Topic
	}
	return model.TrendingTopic{Topic: FallbackTopic, Context: FallbackContext}
}

func withDefaults(p model.ContentPlan) model.ContentPlan {
	if p.Caption == "" {
		p.Caption = DefaultCaption
	}
	if p.ImagePrompt == "" {
		p.ImagePrompt = DefaultImagePrompt
	}
	if p.StoryIdea == "" {
		p.StoryIdea = DefaultStoryIdea
	}
	return p
}

func causeMessage(err error) string {
	if err == nil || err.Error() == "" {
		return unknownError
	}
	return err.Error()
}
