package normalize

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"cilastudio/internal/llm"
)

const defaultArtifactMIMEType = "image/png"

var (
	ErrModelRefusal = errors.New("AI Model Refusal")
	ErrNoArtifact   = errors.New("no data returned from AI provider")
)

// ImageArtifact returns the first inline payload of resp as a data URI. A text-only response is a refusal.
func ImageArtifact(resp *llm.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: the content might have been blocked or is invalid", ErrNoArtifact)
	}

	for _, p := range resp.Parts {
		if p.IsBlob() {
			return DataURI(p.MIMEType, p.Data), nil
		}
	}

	for _, p := range resp.Parts {
		if text := strings.TrimSpace(p.Text); text != "" {
			return "", fmt.Errorf("%w: %s", ErrModelRefusal, text)
		}
	}

	return "", fmt.Errorf("%w: the content might have been blocked or is invalid", ErrNoArtifact)
}

func TextArtifact(resp *llm.Response) (string, error) {
	if resp == nil {
		return "", ErrNoArtifact
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoArtifact
	}
	return text, nil
}

func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = defaultArtifactMIMEType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI is the inverse of DataURI. Only base64 payloads are accepted.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	if mimeType == "" {
		mimeType = defaultArtifactMIMEType
	}
	return mimeType, data, nil
}
