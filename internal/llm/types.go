package llm

import "strings"

// Part is either a text segment or an inline binary attachment.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

// ObjectSchema is a flat JSON object contract with string-typed properties.
type ObjectSchema struct {
	Properties []string
	Required   []string
}

type Request struct {
	Model             string
	Parts             []Part
	SystemInstruction string
	Schema            *ObjectSchema
	ThinkingBudget    int32
	AspectRatio       string
	GoogleSearch      bool
	// Idempotent requests may be retried on transient transport failures.
	Idempotent bool
}

// Text joins the text parts of the request, mostly for logging and tests.
func (r Request) Text() string {
	var b strings.Builder
	for _, p := range r.Parts {
		if p.IsBlob() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// Response carries the first candidate's parts. Text is the concatenation of its text parts.
type Response struct {
	Text  string
	Parts []Part
}
