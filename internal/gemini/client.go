package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"cilastudio/internal/llm"
	"cilastudio/pkg/httputil"
)

var ErrMissingAPIKey = errors.New("gemini API key is empty")

type Options struct {
	BaseURL string
	// HTTPClient serves non-idempotent calls. RetryHTTPClient serves idempotent ones.
	HTTPClient      *http.Client
	RetryHTTPClient *http.Client
}

func DefaultOptions() Options {
	retry := httputil.DefaultRetryConfig()
	return Options{
		HTTPClient:      httputil.NewClient(httputil.Options{}),
		RetryHTTPClient: httputil.NewClient(httputil.Options{Retry: &retry}),
	}
}

// Client is bound to a single API key.
type Client struct {
	plain    *genai.Client
	retrying *genai.Client
}

func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RetryHTTPClient == nil {
		opts.RetryHTTPClient = opts.HTTPClient
	}

	plain, err := newGenaiClient(ctx, apiKey, opts.BaseURL, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	retrying, err := newGenaiClient(ctx, apiKey, opts.BaseURL, opts.RetryHTTPClient)
	if err != nil {
		return nil, err
	}

	return &Client{plain: plain, retrying: retrying}, nil
}

// NewFactory returns a constructor that creates one Client per credential.
func NewFactory(opts Options) func(ctx context.Context, apiKey string) (llm.Generator, error) {
	return func(ctx context.Context, apiKey string) (llm.Generator, error) {
		return NewClient(ctx, apiKey, opts)
	}
}

func newGenaiClient(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

func (c *Client) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("generate: model is empty")
	}

	client := c.plain
	if req.Idempotent {
		client = c.retrying
	}

	slog.Debug("Calling Gemini", "model", req.Model, "parts", len(req.Parts), "idempotent", req.Idempotent)

	contents := []*genai.Content{genai.NewContentFromParts(toParts(req.Parts), genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, toConfig(req))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return fromResponse(resp), nil
}

func toParts(parts []llm.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			out = append(out, &genai.Part{InlineData: &genai.Blob{Data: p.Data, MIMEType: p.MIMEType}})
			continue
		}
		out = append(out, &genai.Part{Text: p.Text})
	}
	return out
}

func toConfig(req llm.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toSchema(req.Schema)
	}
	if req.ThinkingBudget > 0 {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(req.ThinkingBudget)}
	}
	if req.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}
	if req.GoogleSearch {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return config
}

func toSchema(s *llm.ObjectSchema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	for _, name := range s.Properties {
		props[name] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		PropertyOrdering: append([]string(nil), s.Properties...),
		Required:         s.Required,
	}
}

func fromResponse(resp *genai.GenerateContentResponse) *llm.Response {
	out := &llm.Response{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}

	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			out.Parts = append(out.Parts, llm.BlobPart(p.InlineData.Data, p.InlineData.MIMEType))
			continue
		}
		if p.Thought || p.Text == "" {
			continue
		}
		text.WriteString(p.Text)
		out.Parts = append(out.Parts, llm.TextPart(p.Text))
	}
	out.Text = text.String()

	return out
}
