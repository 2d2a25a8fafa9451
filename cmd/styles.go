package cmd

import (
	"fmt"
	"strings"

	"cilastudio/internal/app/model"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1).
			Width(80)
)

func renderResult(index int, r model.ContentResult, path string) string {
	var b strings.Builder

	header := fmt.Sprintf("#%d  %s  %s • %s", index+1, r.Topic, modeLabel(r.Mode), r.VisualStyle)
	b.WriteString(titleStyle.UnsetMarginBottom().Render(header))
	b.WriteString("\n")

	caption := r.Caption
	if r.HasDiagnostic() {
		caption = warnStyle.Render(caption)
	}
	writeField(&b, "Caption", caption)
	writeField(&b, "Image prompt", r.ImagePrompt)
	writeField(&b, "Story", r.StoryIdea)
	if r.VideoPrompt != "" {
		writeField(&b, "Video prompt", r.VideoPrompt)
	}
	if r.GeneratedImageURL != "" {
		writeField(&b, "Image", "attached")
	}
	if path != "" {
		writeField(&b, "Saved", infoStyle.Render(path))
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(labelStyle.Render(label + ": "))
	b.WriteString(value)
	b.WriteString("\n")
}

func modeLabel(m model.ContentMode) string {
	if m == model.ModeMoon {
		return "🌙 MOON"
	}
	return "☀️ SUN"
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
