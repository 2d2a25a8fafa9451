package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseCameraAngle(t *testing.T) {
	tests := []struct {
		in      string
		want    CameraAngle
		wantErr bool
	}{
		{"Low Angle (Heroic)", AngleLow, false},
		{"low", AngleLow, false},
		{"LOW", AngleLow, false},
		{"dutch", AngleDutch, false},
		{"eye-level", AngleEyeLevel, false},
		{"eye_level", AngleEyeLevel, false},
		{"close up", AngleCloseUp, false},
		{"default", AngleDefault, false},
		{"selfie", AngleSelfiePOV, false},
		{"sideways", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCameraAngle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCameraAngle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCameraAngle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if got, err := ParseTier("pro"); err != nil || got != TierPro {
		t.Errorf("ParseTier(pro) = %q, %v", got, err)
	}
	if _, err := ParseTier("gold"); err == nil {
		t.Error("ParseTier(gold) expected error")
	}
	if got, err := ParseMode("moon"); err != nil || got != ModeMoon {
		t.Errorf("ParseMode(moon) = %q, %v", got, err)
	}
	if got, err := ParseVisualStyle("ugc"); err != nil || got != StyleUGC {
		t.Errorf("ParseVisualStyle(ugc) = %q, %v", got, err)
	}
	if got, err := ParseSubjectPose("standing"); err != nil || got != PoseStanding {
		t.Errorf("ParseSubjectPose(standing) = %q, %v", got, err)
	}
	if got, err := ParseSubjectPose("Holding Product"); err != nil || got != PoseProductShowcase {
		t.Errorf("ParseSubjectPose(Holding Product) = %q, %v", got, err)
	}
	if got, err := ParseToolType("hashtags"); err != nil || got != ToolHashtags {
		t.Errorf("ParseToolType(hashtags) = %q, %v", got, err)
	}
	if got, err := ParseImageModel("nano-banana-pro"); err != nil || got != ImageNanoBananaPro {
		t.Errorf("ParseImageModel(nano-banana-pro) = %q, %v", got, err)
	}
}

func TestCatalogsRoundTrip(t *testing.T) {
	for _, a := range CameraAngles() {
		if got, err := ParseCameraAngle(string(a)); err != nil || got != a {
			t.Errorf("ParseCameraAngle(%q) = %q, %v", a, got, err)
		}
	}
	for _, p := range SubjectPoses() {
		if got, err := ParseSubjectPose(string(p)); err != nil || got != p {
			t.Errorf("ParseSubjectPose(%q) = %q, %v", p, got, err)
		}
	}
	for _, s := range VisualStyles() {
		if got, err := ParseVisualStyle(string(s)); err != nil || got != s {
			t.Errorf("ParseVisualStyle(%q) = %q, %v", s, got, err)
		}
	}
}

func TestHasDiagnostic(t *testing.T) {
	tests := []struct {
		caption string
		want    bool
	}{
		{"Pagi ceria di Braga!", false},
		{"Safety Warning: blocked", true},
		{"System Error: timeout", true},
		{"Error", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasDiagnostic(tt.caption); got != tt.want {
			t.Errorf("HasDiagnostic(%q) = %v, want %v", tt.caption, got, tt.want)
		}
		r := ContentResult{Caption: tt.caption}
		if r.CanSynthesizeImage() == tt.want {
			t.Errorf("CanSynthesizeImage() for %q should be %v", tt.caption, !tt.want)
		}
	}
}

func TestTrendingTopicString(t *testing.T) {
	if got := (TrendingTopic{Topic: "Thrifting", Context: "Pasar Cimol"}).String(); got != "Thrifting (Pasar Cimol)" {
		t.Errorf("String() = %q", got)
	}
	if got := (TrendingTopic{Topic: "Thrifting"}).String(); got != "Thrifting" {
		t.Errorf("String() without context = %q", got)
	}
}

func TestContentResultJSON(t *testing.T) {
	r := ContentResult{
		ID:              "id-1",
		Topic:           "Braga",
		Mode:            ModeSun,
		Caption:         "c",
		Tier:            TierPro,
		CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		GeneratingImage: true,
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	for _, key := range []string{`"id"`, `"visualStyle"`, `"imagePrompt"`, `"storyIdea"`, `"tier":"PRO"`, `"createdAt"`} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %s in %s", key, s)
		}
	}
	for _, key := range []string{"generatedImageUrl", "videoPrompt", "Generating"} {
		if strings.Contains(s, key) {
			t.Errorf("did not expect %s in %s", key, s)
		}
	}
}

func TestToolContext(t *testing.T) {
	r := ContentResult{Topic: "t", Caption: "c", Mode: ModeMoon, VisualStyle: StyleLuxury}
	tc := r.ToolContext("halo kak")
	if tc.Topic != "t" || tc.Caption != "c" || tc.Mode != ModeMoon || tc.VisualStyle != StyleLuxury || tc.UserComment != "halo kak" {
		t.Errorf("ToolContext() = %+v", tc)
	}
}

func TestImagePresent(t *testing.T) {
	var nilImage *Image
	if nilImage.Present() {
		t.Error("nil image should not be present")
	}
	if (&Image{}).Present() {
		t.Error("empty image should not be present")
	}
	if !(&Image{Data: []byte{1}}).Present() {
		t.Error("image with data should be present")
	}
}
