package composer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"cilastudio/internal/app/model"
	"cilastudio/internal/tier"
	"cilastudio/pkg/prompts"
)

func newComposer() *Composer {
	return New(prompts.Default(), tier.DefaultPolicy())
}

func baseRequest() model.GenerationRequest {
	return model.GenerationRequest{
		Topic:       "Thrifting di Pasar Cimol",
		Mode:        model.ModeSun,
		VisualStyle: model.StyleUGC,
		CameraAngle: model.AngleLow,
		SubjectPose: model.PoseWalking,
	}
}

func TestComposeTopicDiscovery(t *testing.T) {
	c := newComposer()

	tests := []struct {
		tier  model.Tier
		model string
	}{
		{model.TierFree, tier.DefaultFastModel},
		{model.TierPro, tier.DefaultProModel},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			req := c.ComposeTopicDiscovery(tt.tier)
			if req.Model != tt.model {
				t.Errorf("expected model %q, got %q", tt.model, req.Model)
			}
			if !req.GoogleSearch {
				t.Error("expected search grounding to be enabled")
			}
			if !req.Idempotent {
				t.Error("expected topic discovery to be idempotent")
			}
			if req.ThinkingBudget != 0 {
				t.Errorf("expected no thinking budget, got %d", req.ThinkingBudget)
			}
			if !strings.Contains(req.Text(), "trending") {
				t.Errorf("unexpected topic task %q", req.Text())
			}
		})
	}
}

func TestComposeContentPlan(t *testing.T) {
	c := newComposer()
	product := &model.Image{Data: []byte("product"), MIMEType: "image/png"}
	location := &model.Image{Data: []byte("room")}

	tests := []struct {
		name      string
		tier      model.Tier
		product   *model.Image
		location  *model.Image
		wantModel string
		budget    int32
		// expected sequence of part kinds: "blob" or "text"
		layout []string
	}{
		{
			name:      "free without attachments",
			tier:      model.TierFree,
			wantModel: tier.DefaultFastModel,
			layout:    []string{"text"},
		},
		{
			name:      "pro with product",
			tier:      model.TierPro,
			product:   product,
			wantModel: tier.DefaultProModel,
			budget:    tier.DefaultContentPlanBudget,
			layout:    []string{"blob", "text", "text"},
		},
		{
			name:      "free with both attachments",
			tier:      model.TierFree,
			product:   product,
			location:  location,
			wantModel: tier.DefaultFastModel,
			layout:    []string{"blob", "text", "blob", "text", "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseRequest()
			in.ProductImage = tt.product
			in.LocationImage = tt.location

			req, err := c.ComposeContentPlan(tt.tier, in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Model != tt.wantModel {
				t.Errorf("expected model %q, got %q", tt.wantModel, req.Model)
			}
			if req.ThinkingBudget != tt.budget {
				t.Errorf("expected budget %d, got %d", tt.budget, req.ThinkingBudget)
			}
			if req.Schema == nil || !reflect.DeepEqual(req.Schema.Required, []string{"caption", "imagePrompt", "storyIdea"}) {
				t.Errorf("unexpected schema %+v", req.Schema)
			}
			if req.SystemInstruction == "" {
				t.Error("expected a system instruction")
			}

			var layout []string
			for _, p := range req.Parts {
				if p.IsBlob() {
					layout = append(layout, "blob")
				} else {
					layout = append(layout, "text")
				}
			}
			if !reflect.DeepEqual(layout, tt.layout) {
				t.Fatalf("expected layout %v, got %v", tt.layout, layout)
			}

			last := req.Parts[len(req.Parts)-1].Text
			if !strings.Contains(last, string(model.AngleLow)) || !strings.Contains(last, string(model.PoseWalking)) {
				t.Errorf("instruction block missing framing: %q", last)
			}
		})
	}
}

func TestComposeContentPlanAttachmentOrder(t *testing.T) {
	c := newComposer()
	in := baseRequest()
	in.ProductImage = &model.Image{Data: []byte("product"), MIMEType: "image/png"}
	in.LocationImage = &model.Image{Data: []byte("room")}

	req, err := c.ComposeContentPlan(model.TierFree, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := string(req.Parts[0].Data); got != "product" {
		t.Errorf("expected product first, got %q", got)
	}
	if req.Parts[0].MIMEType != "image/png" {
		t.Errorf("expected product mime image/png, got %q", req.Parts[0].MIMEType)
	}
	if !strings.Contains(req.Parts[1].Text, "Product") {
		t.Errorf("expected product caption, got %q", req.Parts[1].Text)
	}
	if got := string(req.Parts[2].Data); got != "room" {
		t.Errorf("expected location second, got %q", got)
	}
	if req.Parts[2].MIMEType != model.DefaultImageMIMEType {
		t.Errorf("expected default mime, got %q", req.Parts[2].MIMEType)
	}
	if !strings.Contains(req.Parts[3].Text, "Location") {
		t.Errorf("expected location caption, got %q", req.Parts[3].Text)
	}
}

func TestComposeContentPlanRejectsFraming(t *testing.T) {
	c := newComposer()

	tests := []struct {
		name   string
		mutate func(*model.GenerationRequest)
		want   error
	}{
		{"empty angle", func(r *model.GenerationRequest) { r.CameraAngle = "" }, ErrMissingAngle},
		{"unresolved angle", func(r *model.GenerationRequest) { r.CameraAngle = model.AngleDefault }, ErrUnresolvedAngle},
		{"empty pose", func(r *model.GenerationRequest) { r.SubjectPose = " " }, ErrMissingPose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseRequest()
			tt.mutate(&in)
			_, err := c.ComposeContentPlan(model.TierFree, in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestComposeContentPlanDefaultPose(t *testing.T) {
	c := newComposer()
	in := baseRequest()
	in.SubjectPose = model.PoseDefault

	if _, err := c.ComposeContentPlan(model.TierFree, in); err != nil {
		t.Fatalf("default pose should be accepted, got %v", err)
	}
}

func TestComposeImageSynthesis(t *testing.T) {
	c := newComposer()
	ref := &model.Image{Data: []byte("face"), MIMEType: "image/jpeg"}

	tests := []struct {
		name    string
		tier    model.Tier
		variant model.ImageModel
		ref     *model.Image
		model   string
		parts   int
	}{
		{"free default", model.TierFree, "", ref, tier.DefaultImageModel, 2},
		{"pro default", model.TierPro, "", ref, tier.DefaultProImageModel, 2},
		{"free with pro variant", model.TierFree, model.ImageNanoBananaPro, ref, tier.DefaultProImageModel, 2},
		{"no reference", model.TierFree, "", nil, tier.DefaultImageModel, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := c.ComposeImageSynthesis(tt.tier, tt.variant, "Cila di kafe", tt.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Model != tt.model {
				t.Errorf("expected model %q, got %q", tt.model, req.Model)
			}
			if req.AspectRatio != PortraitAspectRatio {
				t.Errorf("expected aspect ratio %q, got %q", PortraitAspectRatio, req.AspectRatio)
			}
			if len(req.Parts) != tt.parts {
				t.Fatalf("expected %d parts, got %d", tt.parts, len(req.Parts))
			}
			if !strings.Contains(req.Text(), "Cila di kafe") {
				t.Errorf("prompt missing from %q", req.Text())
			}
			if tt.ref != nil {
				if !req.Parts[0].IsBlob() {
					t.Error("expected reference image first")
				}
				if !strings.HasSuffix(req.Text(), "Ensure high fidelity and 8k resolution.") {
					t.Errorf("unexpected instruction %q", req.Text())
				}
			}
		})
	}
}

func TestComposeImageSynthesisEmptyPrompt(t *testing.T) {
	c := newComposer()
	if _, err := c.ComposeImageSynthesis(model.TierFree, "", "  ", nil); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestComposeVideoPrompt(t *testing.T) {
	c := newComposer()

	free, err := c.ComposeVideoPrompt(model.TierFree, "Kopi susu", "Cila holding iced coffee", "Pagi ceria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free.Model != tier.DefaultFastModel || free.ThinkingBudget != 0 {
		t.Errorf("unexpected free selection %q/%d", free.Model, free.ThinkingBudget)
	}

	pro, err := c.ComposeVideoPrompt(model.TierPro, "Kopi susu", "Cila holding iced coffee", "Pagi ceria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pro.Model != tier.DefaultProModel || pro.ThinkingBudget != tier.DefaultVideoPromptBudget {
		t.Errorf("unexpected pro selection %q/%d", pro.Model, pro.ThinkingBudget)
	}
	if pro.Schema != nil {
		t.Error("video prompt should be free text")
	}
	for _, want := range []string{"Kopi susu", "Cila holding iced coffee", "Pagi ceria"} {
		if !strings.Contains(pro.Text(), want) {
			t.Errorf("expected %q in %q", want, pro.Text())
		}
	}
	if pro.SystemInstruction == "" {
		t.Error("expected video system instruction")
	}
}

func TestComposeTool(t *testing.T) {
	c := newComposer()
	tc := model.ToolContext{
		Topic:       "Thrifting",
		Caption:     "Nemu jaket vintage!",
		Mode:        model.ModeMoon,
		VisualStyle: model.StyleCinematic,
		UserComment: "Beli dimana kak?",
	}

	tests := []struct {
		tool model.ToolType
		want []string
	}{
		{model.ToolAudio, []string{"Nemu jaket vintage!", "Cinematic", "MOON"}},
		{model.ToolHashtags, []string{`"Thrifting"`}},
		{model.ToolReply, []string{"Beli dimana kak?", "Poetic, soft"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			req, err := c.ComposeTool(tt.tool, tc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Model != tier.DefaultFastModel {
				t.Errorf("expected fast model, got %q", req.Model)
			}
			if !req.Idempotent {
				t.Error("expected tool requests to be idempotent")
			}
			if !strings.HasPrefix(req.SystemInstruction, "You are a helper tool for Cila's content engine.") {
				t.Errorf("unexpected system instruction %q", req.SystemInstruction)
			}
			for _, want := range tt.want {
				if !strings.Contains(req.Text(), want) {
					t.Errorf("expected %q in %q", want, req.Text())
				}
			}
		})
	}
}

func TestComposeToolReplyTone(t *testing.T) {
	c := newComposer()
	req, err := c.ComposeTool(model.ToolReply, model.ToolContext{Mode: model.ModeSun, UserComment: "Cantik!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(req.Text(), "Cheerful, bright") {
		t.Errorf("expected sun tone in %q", req.Text())
	}
}

func TestComposeToolErrors(t *testing.T) {
	c := newComposer()

	if _, err := c.ComposeTool(model.ToolReply, model.ToolContext{UserComment: "   "}); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	if _, err := c.ComposeTool("DANCE", model.ToolContext{}); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestResolveAngles(t *testing.T) {
	tests := []struct {
		name  string
		angle model.CameraAngle
		count int
		want  []model.CameraAngle
	}{
		{
			name:  "rotation wraps",
			angle: model.AngleDefault,
			count: 5,
			want: []model.CameraAngle{
				model.AngleEyeLevel, model.AngleLow, model.AngleHigh, model.AngleDutch, model.AngleEyeLevel,
			},
		},
		{
			name:  "explicit angle repeats",
			angle: model.AngleCloseUp,
			count: 3,
			want:  []model.CameraAngle{model.AngleCloseUp, model.AngleCloseUp, model.AngleCloseUp},
		},
		{
			name:  "zero count",
			angle: model.AngleDefault,
			count: 0,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAngles(tt.angle, tt.count)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAngleRotationIsCopy(t *testing.T) {
	r := AngleRotation()
	r[0] = model.AngleCloseUp
	if ResolveAngle(model.AngleDefault, 0) != model.AngleEyeLevel {
		t.Error("mutating the returned rotation changed the package state")
	}
}

func TestNewFallsBackToDefaults(t *testing.T) {
	c := New(nil, tier.Policy{})
	if c.Policy() != tier.DefaultPolicy() {
		t.Errorf("expected default policy, got %+v", c.Policy())
	}
	req := c.ComposeTopicDiscovery(model.TierFree)
	if len(req.Parts) != 1 || req.Parts[0].IsBlob() || req.Parts[0].Text == "" {
		t.Errorf("unexpected parts %+v", req.Parts)
	}
}
