package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"cilastudio/internal/app/model"
)

var (
	ErrMalformed = errors.New("malformed response")

	fencePattern = regexp.MustCompile("(?i)```(?:json)?")
)

// ParsePlan normalizes the text of a content-plan response. Empty text is read as a safety block;
// whitespace or any payload that is not a JSON object is malformed.
func ParsePlan(text string) PlanOutcome {
	if text == "" {
		return PlanOutcome{Kind: KindSafetyBlocked}
	}

	var plan model.ContentPlan
	if err := decode(text, &plan); err != nil {
		return PlanOutcome{Kind: KindMalformed, Cause: err}
	}
	return PlanOutcome{Kind: KindOK, Plan: plan}
}

// FromError classifies a failed content-plan call. It never fails itself.
func FromError(err error, modelName string, t model.Tier) PlanOutcome {
	if IsPermissionDenied(err) {
		return PlanOutcome{Kind: KindPermissionDenied, Cause: err, Model: modelName, Tier: t}
	}
	return PlanOutcome{Kind: KindFailed, Cause: err}
}

func ParseTopic(text string) TopicOutcome {
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	var topic model.TrendingTopic
	if err := decode(text, &topic); err != nil {
		return TopicOutcome{Kind: KindMalformed, Cause: err}
	}
	if strings.TrimSpace(topic.Topic) == "" {
		return TopicOutcome{Kind: KindMalformed, Cause: fmt.Errorf("%w: topic is empty", ErrMalformed)}
	}
	return TopicOutcome{Kind: KindOK, Topic: topic}
}

func TopicFromError(err error) TopicOutcome {
	return TopicOutcome{Kind: KindFailed, Cause: err}
}

func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == 403 || apiErr.Status == "PERMISSION_DENIED") {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && (apiErrPtr.Code == 403 || apiErrPtr.Status == "PERMISSION_DENIED") {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "403") || strings.Contains(msg, "PERMISSION_DENIED")
}

// CleanJSON strips markdown fences and keeps the span from the first '{' to the last '}'.
// Text without such a span is returned fence-stripped.
func CleanJSON(text string) string {
	text = strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		text = text[start : end+1]
	}
	return text
}

func decode(text string, v any) error {
	cleaned := CleanJSON(text)
	if !strings.HasPrefix(cleaned, "{") {
		return fmt.Errorf("%w: response is not a JSON object", ErrMalformed)
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
