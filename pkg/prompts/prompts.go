package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System SystemPrompts `yaml:"system"`
	Task   TaskPrompts   `yaml:"task"`
	Tools  ToolPrompts   `yaml:"tools"`
}

type SystemPrompts struct {
	Persona     string `yaml:"persona"`
	ModeRules   string `yaml:"mode_rules"`
	AngleSystem string `yaml:"angle_system"`
	Video       string `yaml:"video"`
	Tool        string `yaml:"tool"`
}

type TaskPrompts struct {
	Topic              string `yaml:"topic"`
	ContentPlan        string `yaml:"content_plan"`
	ProductAttachment  string `yaml:"product_attachment"`
	LocationAttachment string `yaml:"location_attachment"`
	ImageWithReference string `yaml:"image_with_reference"`
	Video              string `yaml:"video"`
}

type ToolPrompts struct {
	Audio    string `yaml:"audio"`
	Hashtags string `yaml:"hashtags"`
	Reply    string `yaml:"reply"`
}

type ContentPlanParams struct {
	Topic        string
	Mode         string
	VisualStyle  string
	CameraAngle  string
	SubjectPose  string
	ProductFocus string
	HasProduct   bool
	HasLocation  bool
}

type ImageParams struct {
	Prompt string
}

type VideoParams struct {
	Topic       string
	ImagePrompt string
	Caption     string
}

type AudioParams struct {
	Caption     string
	VisualStyle string
	Mode        string
}

type HashtagsParams struct {
	Topic string
}

type ReplyParams struct {
	Persona  string
	Mode     string
	ModeTone string
	Comment  string
}

type toolSystemParams struct {
	ModeRules string
}

// Load returns the prompts at path, or the embedded defaults when path is empty.
func Load(path string) (*Prompts, error) {
	if path == "" {
		return parse(defaultPrompts)
	}
	return LoadFrom(path)
}

func Default() *Prompts {
	p, err := parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return p
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	return &p, nil
}

// ContentPlanSystem is the system instruction for content-plan calls.
func (p *Prompts) ContentPlanSystem() string {
	return strings.Join([]string{
		strings.TrimSpace(p.System.Persona),
		strings.TrimSpace(p.System.ModeRules),
		strings.TrimSpace(p.System.AngleSystem),
	}, "\n\n")
}

func (p *Prompts) VideoSystem() string {
	return strings.TrimSpace(p.System.Video)
}

func (p *Prompts) TopicTask() string {
	return strings.TrimSpace(p.Task.Topic)
}

func (p *Prompts) ProductAttachment() string {
	return strings.TrimSpace(p.Task.ProductAttachment)
}

func (p *Prompts) LocationAttachment() string {
	return strings.TrimSpace(p.Task.LocationAttachment)
}

func (p *Prompts) RenderContentPlan(params ContentPlanParams) (string, error) {
	return render(p.Task.ContentPlan, params)
}

func (p *Prompts) RenderImage(params ImageParams) (string, error) {
	return render(p.Task.ImageWithReference, params)
}

func (p *Prompts) RenderVideo(params VideoParams) (string, error) {
	return render(p.Task.Video, params)
}

func (p *Prompts) RenderToolSystem() (string, error) {
	return render(p.System.Tool, toolSystemParams{ModeRules: strings.TrimSpace(p.System.ModeRules)})
}

func (p *Prompts) RenderAudio(params AudioParams) (string, error) {
	return render(p.Tools.Audio, params)
}

func (p *Prompts) RenderHashtags(params HashtagsParams) (string, error) {
	return render(p.Tools.Hashtags, params)
}

func (p *Prompts) RenderReply(params ReplyParams) (string, error) {
	if params.Persona == "" {
		params.Persona = strings.TrimSpace(p.System.Persona)
	}
	return render(p.Tools.Reply, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
