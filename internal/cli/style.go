package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244")).Width(15)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderError formats err for the terminal.
func RenderError(err error) string {
	return errorStyle.Render("Error: " + err.Error())
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label+":")+value)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
