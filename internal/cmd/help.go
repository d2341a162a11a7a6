package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderGenerateHelp renders the help text for the generate command with
// lipgloss styling
func renderGenerateHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Default 40 mm chip as a printer package"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("maker-chips generate chip.3mf"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Custom size and pattern"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("maker-chips generate chip.3mf --radius 25 --height 4 --pattern honeycomb"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("With a QR code part, spread flat for a viewer"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("maker-chips generate chip.glb --assembly flat \\"))
	b.WriteString("\n")
	b.WriteString("    " + commandStyle.Render("--qr-content \"https://cadit.app\" --qr-size 20"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("From a YAML parameter file"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("maker-chips generate chip.3mf --config example/full.yaml"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Part flags:"))
	b.WriteString("\n")

	flags := []struct {
		flag string
		desc string
	}{
		{"--qr-content TEXT", "Add a QR code part encoding TEXT"},
		{"--image FILE", "Add an engraved image part from a PNG or JPEG"},
		{"--assembly MODE", "flat spreads parts out, printable stacks them"},
		{"--resolution N", "Mesh fineness; higher is smoother and slower"},
	}

	maxWidth := 0
	for _, f := range flags {
		if len(f.flag) > maxWidth {
			maxWidth = len(f.flag)
		}
	}

	for _, f := range flags {
		padding := strings.Repeat(" ", maxWidth-len(f.flag)+2)
		b.WriteString("  " + flagStyle.Render(f.flag) + padding + commentStyle.Render(f.desc))
		b.WriteString("\n")
	}

	return b.String()
}
