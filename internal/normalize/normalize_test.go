package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"cilastudio/internal/app/model"
	"cilastudio/internal/llm"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
		want model.ContentPlan
	}{
		{
			name: "fenced with prose",
			text: "Here you go!\n```json\n{\"caption\":\"A\",\"imagePrompt\":\"B\",\"storyIdea\":\"C\"}\n```\nEnjoy.",
			kind: KindOK,
			want: model.ContentPlan{Caption: "A", ImagePrompt: "B", StoryIdea: "C"},
		},
		{
			name: "uppercase fence",
			text: "```JSON\n{\"caption\":\"A\",\"imagePrompt\":\"B\",\"storyIdea\":\"C\"}```",
			kind: KindOK,
			want: model.ContentPlan{Caption: "A", ImagePrompt: "B", StoryIdea: "C"},
		},
		{
			name: "missing fields get defaults",
			text: `{"caption":"Only caption"}`,
			kind: KindOK,
			want: model.ContentPlan{Caption: "Only caption", ImagePrompt: DefaultImagePrompt, StoryIdea: DefaultStoryIdea},
		},
		{
			name: "empty text is a safety block",
			text: "",
			kind: KindSafetyBlocked,
			want: model.ContentPlan{Caption: SafetyCaption, ImagePrompt: SafetyImagePrompt, StoryIdea: SafetyStoryIdea},
		},
		{
			name: "whitespace only",
			text: "  \n",
			kind: KindMalformed,
			want: model.ContentPlan{ImagePrompt: FailedImagePrompt, StoryIdea: FailedStoryIdea},
		},
		{
			name: "json null",
			text: "null",
			kind: KindMalformed,
			want: model.ContentPlan{ImagePrompt: FailedImagePrompt, StoryIdea: FailedStoryIdea},
		},
		{
			name: "json array",
			text: "```json\n[\"caption\"]\n```",
			kind: KindMalformed,
			want: model.ContentPlan{ImagePrompt: FailedImagePrompt, StoryIdea: FailedStoryIdea},
		},
		{
			name: "no braces",
			text: "I cannot help with that.",
			kind: KindMalformed,
			want: model.ContentPlan{ImagePrompt: FailedImagePrompt, StoryIdea: FailedStoryIdea},
		},
		{
			name: "broken json",
			text: `{"caption": "A", "imagePrompt": }`,
			kind: KindMalformed,
			want: model.ContentPlan{ImagePrompt: FailedImagePrompt, StoryIdea: FailedStoryIdea},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParsePlan(tt.text)
			if out.Kind != tt.kind {
				t.Fatalf("expected kind %v, got %v (cause %v)", tt.kind, out.Kind, out.Cause)
			}

			got := out.Flatten()
			if tt.kind == KindMalformed {
				if !strings.HasPrefix(got.Caption, "System Error: ") {
					t.Errorf("expected generic error caption, got %q", got.Caption)
				}
				if !errors.Is(out.Cause, ErrMalformed) {
					t.Errorf("expected ErrMalformed cause, got %v", out.Cause)
				}
				got.Caption = ""
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFlattenIsAlwaysPopulated(t *testing.T) {
	outcomes := []PlanOutcome{
		{Kind: KindOK},
		{Kind: KindSafetyBlocked},
		{Kind: KindPermissionDenied, Model: "gemini-2.5-flash"},
		{Kind: KindMalformed},
		{Kind: KindFailed, Cause: errors.New("boom")},
	}

	for _, o := range outcomes {
		t.Run(o.Kind.String(), func(t *testing.T) {
			p := o.Flatten()
			if p.Caption == "" || p.ImagePrompt == "" || p.StoryIdea == "" {
				t.Errorf("expected all fields populated, got %+v", p)
			}
			if o.Kind != KindOK && !model.HasDiagnostic(p.Caption) {
				t.Errorf("expected diagnostic marker in %q", p.Caption)
			}
		})
	}
}

func TestRenormalizeFallbackIsStable(t *testing.T) {
	outcomes := []PlanOutcome{
		{Kind: KindSafetyBlocked},
		{Kind: KindPermissionDenied, Model: "gemini-3-pro-preview", Tier: model.TierPro},
		{Kind: KindFailed, Cause: errors.New("connection reset")},
	}

	for _, o := range outcomes {
		t.Run(o.Kind.String(), func(t *testing.T) {
			first := o.Flatten()
			data, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			second := ParsePlan(string(data)).Flatten()
			if first != second {
				t.Errorf("re-normalizing changed the result:\n%+v\n%+v", first, second)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"status code in text", errors.New("googleapi: Error 403: forbidden"), KindPermissionDenied},
		{"status name in text", errors.New("rpc error: PERMISSION_DENIED"), KindPermissionDenied},
		{"typed api error", fmt.Errorf("generate: %w", genai.APIError{Code: 403, Message: "denied"}), KindPermissionDenied},
		{"typed api error pointer", fmt.Errorf("generate: %w", &genai.APIError{Code: 403, Message: "denied"}), KindPermissionDenied},
		{"other api error", genai.APIError{Code: 500, Message: "internal", Status: "INTERNAL"}, KindFailed},
		{"network", errors.New("dial tcp: connection refused"), KindFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FromError(tt.err, "gemini-2.5-flash", model.TierFree)
			if out.Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, out.Kind)
			}
		})
	}
}

func TestFromErrorCaptions(t *testing.T) {
	denied := FromError(errors.New("Error 403"), "gemini-3-pro-preview", model.TierPro).Flatten()
	want := "System Error: Access Denied (403). Your API Key does not have permission to access 'gemini-3-pro-preview' on the PRO tier. Please check your project settings or try a different key."
	if denied.Caption != want {
		t.Errorf("unexpected permission caption %q", denied.Caption)
	}
	if denied.StoryIdea != PermissionStoryIdea || denied.ImagePrompt != PermissionImagePrompt {
		t.Errorf("unexpected permission fallback %+v", denied)
	}

	generic := FromError(errors.New("deadline exceeded"), "gemini-2.5-flash", model.TierFree).Flatten()
	if generic.Caption != "System Error: deadline exceeded" {
		t.Errorf("unexpected generic caption %q", generic.Caption)
	}

	unknown := FromError(nil, "gemini-2.5-flash", model.TierFree).Flatten()
	if unknown.Caption != "System Error: Unknown error occurred" {
		t.Errorf("unexpected caption for nil error %q", unknown.Caption)
	}
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind Kind
		want string
	}{
		{"plain", `{"topic":"Thrifting","context":"Pasar Cimol rame"}`, KindOK, "Thrifting (Pasar Cimol rame)"},
		{"fenced", "```json\n{\"topic\":\"Kopi\",\"context\":\"Braga\"}\n```", KindOK, "Kopi (Braga)"},
		{"empty", "", KindMalformed, "Hujan sore di Braga (Fallback Topic)"},
		{"garbage", "nothing here", KindMalformed, "Hujan sore di Braga (Fallback Topic)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseTopic(tt.text)
			if out.Kind != tt.kind {
				t.Fatalf("expected %v, got %v", tt.kind, out.Kind)
			}
			if got := out.Flatten().String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	if got := TopicFromError(errors.New("timeout")).Flatten().String(); got != "Hujan sore di Braga (Fallback Topic)" {
		t.Errorf("unexpected error fallback %q", got)
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prefix {\"a\":{\"b\":2}} suffix", `{"a":{"b":2}}`},
		{"no object", "no object"},
		{"} backwards {", "} backwards {"},
	}

	for _, tt := range tests {
		if got := CleanJSON(tt.in); got != tt.want {
			t.Errorf("CleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImageArtifact(t *testing.T) {
	tests := []struct {
		name    string
		resp    *llm.Response
		want    string
		wantErr error
	}{
		{
			name: "inline payload with mime",
			resp: &llm.Response{Parts: []llm.Part{
				llm.TextPart("here"),
				llm.BlobPart([]byte("img"), "image/jpeg"),
			}},
			want: "data:image/jpeg;base64,aW1n",
		},
		{
			name: "inline payload without mime",
			resp: &llm.Response{Parts: []llm.Part{llm.BlobPart([]byte("img"), "")}},
			want: "data:image/png;base64,aW1n",
		},
		{
			name:    "refusal",
			resp:    &llm.Response{Text: "I can't", Parts: []llm.Part{llm.TextPart("I can't")}},
			wantErr: ErrModelRefusal,
		},
		{
			name:    "empty",
			resp:    &llm.Response{},
			wantErr: ErrNoArtifact,
		},
		{
			name:    "nil",
			wantErr: ErrNoArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageArtifact(tt.resp)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestImageArtifactRefusalMessage(t *testing.T) {
	_, err := ImageArtifact(&llm.Response{Parts: []llm.Part{llm.TextPart("Policy violation")}})
	if err == nil || err.Error() != "AI Model Refusal: Policy violation" {
		t.Errorf("unexpected refusal error %v", err)
	}
}

func TestTextArtifact(t *testing.T) {
	got, err := TextArtifact(&llm.Response{Text: "  #cila #bandung \n"})
	if err != nil || got != "#cila #bandung" {
		t.Errorf("unexpected result %q, %v", got, err)
	}

	if _, err := TextArtifact(&llm.Response{Text: " "}); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("expected ErrNoArtifact, got %v", err)
	}
}

func TestDecodeDataURI(t *testing.T) {
	mime, data, err := DecodeDataURI(DataURI("image/webp", []byte("pixels")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != "image/webp" || string(data) != "pixels" {
		t.Errorf("unexpected decode %q %q", mime, data)
	}

	for _, bad := range []string{"http://x", "data:image/png;base64", "data:image/png,raw", "data:image/png;base64,@@"} {
		if _, _, err := DecodeDataURI(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
