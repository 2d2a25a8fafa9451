package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	ModeSun  ContentMode = "SUN"
	ModeMoon ContentMode = "MOON"
)

const (
	TierFree Tier = "FREE"
	TierPro  Tier = "PRO"
)

const (
	StyleDefault    VisualStyle = "Default"
	StyleCinematic  VisualStyle = "Cinematic"
	StyleMinimalist VisualStyle = "Minimalist"
	StylePlayful    VisualStyle = "Playful"
	StyleSpicy      VisualStyle = "Spicy"
	StyleUGC        VisualStyle = "UGC (Raw)"
	StyleLuxury     VisualStyle = "Luxury"
)

// AngleDefault is the sentinel for "resolve via rotation"; it is never sent to the provider.
const (
	AngleDefault   CameraAngle = "Default (AI Decides)"
	AngleEyeLevel  CameraAngle = "Eye Level"
	AngleLow       CameraAngle = "Low Angle (Heroic)"
	AngleHigh      CameraAngle = "High Angle (Cute)"
	AngleOverhead  CameraAngle = "Overhead (Flat Lay)"
	AngleDutch     CameraAngle = "Dutch Angle (Dynamic)"
	AngleSelfiePOV CameraAngle = "Selfie (POV)"
	AngleWideShot  CameraAngle = "Wide Shot"
	AngleCloseUp   CameraAngle = "Close Up"
)

const (
	PoseDefault            SubjectPose = "Default (AI Decides)"
	PoseStanding           SubjectPose = "Standing / Posing"
	PoseSitting            SubjectPose = "Sitting / Relaxed"
	PoseWalking            SubjectPose = "Walking / Moving"
	PoseCandid             SubjectPose = "Candid / Looking Away"
	PoseSelfie             SubjectPose = "Taking a Selfie"
	PoseProductShowcase    SubjectPose = "Holding Product"
	PoseDancing            SubjectPose = "Dancing / Dynamic"
	PoseEating             SubjectPose = "Eating / Drinking"
	PoseReading            SubjectPose = "Reading a Book"
	PoseInteractingProduct SubjectPose = "Interacting with Product (Active)"
)

const (
	ToolAudio    ToolType = "AUDIO"
	ToolHashtags ToolType = "HASHTAGS"
	ToolReply    ToolType = "REPLY"
)

const (
	ImageNanoBanana    ImageModel = "nano-banana"
	ImageNanoBananaPro ImageModel = "nano-banana-pro"
)

const DefaultImageMIMEType = "image/jpeg"

type (
	ContentMode string
	Tier        string
	VisualStyle string
	CameraAngle string
	SubjectPose string
	ToolType    string
	ImageModel  string
)

var diagnosticMarkers = []string{"Error", "Safety Warning", "System Error"}

type Image struct {
	Data     []byte
	MIMEType string
}

func (img *Image) Present() bool {
	return img != nil && len(img.Data) > 0
}

type GenerationRequest struct {
	Topic         string
	Mode          ContentMode
	VisualStyle   VisualStyle
	CameraAngle   CameraAngle
	SubjectPose   SubjectPose
	ProductFocus  string
	ProductImage  *Image
	LocationImage *Image
}

type ContentPlan struct {
	Caption     string `json:"caption"`
	ImagePrompt string `json:"imagePrompt"`
	StoryIdea   string `json:"storyIdea"`
}

type TrendingTopic struct {
	Topic   string `json:"topic"`
	Context string `json:"context"`
}

func (t TrendingTopic) String() string {
	if t.Context == "" {
		return t.Topic
	}
	return fmt.Sprintf("%s (%s)", t.Topic, t.Context)
}

type ContentResult struct {
	ID                string      `json:"id"`
	Topic             string      `json:"topic"`
	Mode              ContentMode `json:"mode"`
	VisualStyle       VisualStyle `json:"visualStyle"`
	Caption           string      `json:"caption"`
	ImagePrompt       string      `json:"imagePrompt"`
	StoryIdea         string      `json:"storyIdea"`
	GeneratedImageURL string      `json:"generatedImageUrl,omitempty"`
	VideoPrompt       string      `json:"videoPrompt,omitempty"`
	Tier              Tier        `json:"tier"`
	CreatedAt         time.Time   `json:"createdAt"`

	GeneratingImage       bool `json:"-"`
	GeneratingVideoPrompt bool `json:"-"`
}

func (r ContentResult) HasDiagnostic() bool {
	return HasDiagnostic(r.Caption)
}

// CanSynthesizeImage is false for fallback results, whose image prompt is a placeholder.
func (r ContentResult) CanSynthesizeImage() bool {
	return !r.HasDiagnostic()
}

func (r ContentResult) ToolContext(comment string) ToolContext {
	return ToolContext{
		Topic:       r.Topic,
		Caption:     r.Caption,
		Mode:        r.Mode,
		VisualStyle: r.VisualStyle,
		UserComment: comment,
	}
}

type ToolContext struct {
	Topic       string
	Caption     string
	Mode        ContentMode
	VisualStyle VisualStyle
	UserComment string
}

func HasDiagnostic(caption string) bool {
	for _, marker := range diagnosticMarkers {
		if strings.Contains(caption, marker) {
			return true
		}
	}
	return false
}

func Modes() []ContentMode {
	return []ContentMode{ModeSun, ModeMoon}
}

func Tiers() []Tier {
	return []Tier{TierFree, TierPro}
}

func VisualStyles() []VisualStyle {
	return []VisualStyle{StyleDefault, StyleCinematic, StyleMinimalist, StylePlayful, StyleSpicy, StyleUGC, StyleLuxury}
}

func CameraAngles() []CameraAngle {
	return []CameraAngle{
		AngleDefault, AngleEyeLevel, AngleLow, AngleHigh, AngleOverhead,
		AngleDutch, AngleSelfiePOV, AngleWideShot, AngleCloseUp,
	}
}

func SubjectPoses() []SubjectPose {
	return []SubjectPose{
		PoseDefault, PoseStanding, PoseSitting, PoseWalking, PoseCandid, PoseSelfie,
		PoseProductShowcase, PoseDancing, PoseEating, PoseReading, PoseInteractingProduct,
	}
}

func ToolTypes() []ToolType {
	return []ToolType{ToolAudio, ToolHashtags, ToolReply}
}

func ImageModels() []ImageModel {
	return []ImageModel{ImageNanoBanana, ImageNanoBananaPro}
}

func ParseMode(s string) (ContentMode, error) {
	return parseEnum(s, "mode", Modes())
}

func ParseTier(s string) (Tier, error) {
	return parseEnum(s, "tier", Tiers())
}

func ParseVisualStyle(s string) (VisualStyle, error) {
	return parseEnum(s, "visual style", VisualStyles())
}

func ParseCameraAngle(s string) (CameraAngle, error) {
	return parseEnum(s, "camera angle", CameraAngles())
}

func ParseSubjectPose(s string) (SubjectPose, error) {
	return parseEnum(s, "subject pose", SubjectPoses())
}

func ParseToolType(s string) (ToolType, error) {
	return parseEnum(s, "tool", ToolTypes())
}

func ParseImageModel(s string) (ImageModel, error) {
	return parseEnum(s, "image model", ImageModels())
}

// parseEnum accepts the display value or its short key ("low" for "Low Angle (Heroic)").
func parseEnum[T ~string](s, kind string, values []T) (T, error) {
	want := normalizeKey(s)
	if want == "" {
		var zero T
		return zero, fmt.Errorf("empty %s", kind)
	}
	for _, v := range values {
		if normalizeKey(string(v)) == want || shortKey(string(v)) == want {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, s)
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(" ", "-", "_", "-", "/", "", "(", "", ")", "")
	s = replacer.Replace(s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func shortKey(s string) string {
	if idx := strings.IndexAny(s, "(/"); idx > 0 {
		s = s[:idx]
	}
	key := normalizeKey(s)
	key = strings.TrimSuffix(key, "-angle")
	return key
}
