package presenter

import (
	"fmt"
	"io"
	"strings"

	"gradi-client/internal/models"

	"github.com/charmbracelet/lipgloss"
)

const progressWidth = 20

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22d3ee"))
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	overallBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)

	colorStyles = map[ColorClass]lipgloss.Style{
		ColorGood:     lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
		ColorModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		ColorPoor:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")),
	}
)

// Stars renders n filled stars out of five.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > int(MaxScore) {
		n = int(MaxScore)
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", int(MaxScore)-n)
}

// ProgressBar renders percent as a fixed-width bar.
func ProgressBar(percent float64) string {
	filled := int(percent / 100 * progressWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > progressWidth {
		filled = progressWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

func colored(class ColorClass, s string) string {
	style, ok := colorStyles[class]
	if !ok {
		return s
	}
	return style.Render(s)
}

// RenderVideo writes a one-line header for video.
func RenderVideo(w io.Writer, video *models.Video) error {
	if video == nil {
		return nil
	}
	line := titleStyle.Render(video.Title)
	if video.ChannelTitle != "" {
		line += mutedStyle.Render(" · " + video.ChannelTitle)
	}
	if video.Duration != "" {
		line += mutedStyle.Render(" · " + video.Duration)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Render writes view as a terminal report.
func Render(w io.Writer, view *View) error {
	var b strings.Builder

	overall := fmt.Sprintf("%s\n%s  %s\n%s",
		titleStyle.Render("Overall Score"),
		colored(view.Overall.Color, fmt.Sprintf("Score %s/5", view.Overall.Formatted)),
		Stars(view.Overall.Stars),
		view.Overall.Label,
	)
	b.WriteString(overallBox.Render(overall))
	b.WriteString("\n\n")

	if view.Summary != "" {
		b.WriteString(headingStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(view.Summary)
		b.WriteString("\n\n")
	}

	writeList(&b, "Strengths", "+", view.Positives)
	writeList(&b, "Areas for Improvement", "-", view.Negatives)
	writeList(&b, "Suggestions", "→", view.Suggestions)

	if len(view.Categories) > 0 {
		b.WriteString(headingStyle.Render("Detailed Ratings"))
		b.WriteString("\n")
	}
	for _, c := range view.Categories {
		fmt.Fprintf(&b, "%s %s\n", c.Icon.Glyph(), titleStyle.Render(c.Name))
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			colored(c.Score.Color, fmt.Sprintf("Score %s/5", c.Score.Formatted)),
			Stars(c.Score.Stars),
			c.Score.Label,
		)
		fmt.Fprintf(&b, "  %s\n", colored(c.Score.Color, ProgressBar(c.Score.Progress)))
		if c.Reason != "" {
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(c.Reason))
		}
		for _, p := range c.Positives {
			fmt.Fprintf(&b, "    + %s\n", p)
		}
		for _, n := range c.Negatives {
			fmt.Fprintf(&b, "    - %s\n", n)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(&b, "    → %s\n", s)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "  %s %s\n", bullet, item)
	}
	b.WriteString("\n")
}
