package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4") // Purple
	secondaryColor = lipgloss.Color("#00D9FF") // Cyan
	successColor   = lipgloss.Color("#04B575") // Green
	errorColor     = lipgloss.Color("#FF5F87") // Pink/Red
	warningColor   = lipgloss.Color("#FFAF00") // Orange
	mutedColor     = lipgloss.Color("#626262") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1).
			MarginBottom(1).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			MarginTop(1).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	checkmark = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true).
			SetString("✓")

	cross = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		SetString("✗")

	arrow = lipgloss.NewStyle().
		Foreground(secondaryColor).
		SetString("→")

	dot = lipgloss.NewStyle().
		Foreground(mutedColor).
		SetString("•")

	stepStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(lipgloss.Color("#FAFAFA"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)
)

var verbose bool

// SetVerbose enables verbose output for the current run.
func SetVerbose(v bool) {
	verbose = v
}

// IsVerbose reports whether verbose output is enabled, either explicitly
// or because we are running in a CI environment.
func IsVerbose() bool {
	return verbose || os.Getenv("CI") != ""
}

// PrintTitle prints a major title (for app name or major sections)
func PrintTitle(title string) {
	fmt.Println(titleStyle.Render("╭─ " + title + " ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	fmt.Println(headerStyle.Render("\n▸ " + title))
}

// PrintStep prints a step with indentation
func PrintStep(step string) {
	fmt.Println(stepStyle.Render(arrow.String() + " " + step))
}

// PrintItem prints an item in a list
func PrintItem(item string) {
	fmt.Println(itemStyle.Render(dot.String() + " " + item))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(stepStyle.Render(checkmark.String() + " " + successStyle.Render(message)))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(stepStyle.Render(cross.String() + " " + errorStyle.Render(message)))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println(stepStyle.Render("⚠ " + warningStyle.Render(message)))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Println(stepStyle.Render(infoStyle.Render(message)))
}

// PrintKeyValue prints a key-value pair with nice formatting
func PrintKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().
		Foreground(secondaryColor).
		Bold(true)
	fmt.Println(stepStyle.Render(keyStyle.Render(key+":") + " " + value))
}

// PrintBox prints text in a rounded box
func PrintBox(content string) {
	fmt.Println(boxStyle.Render(content))
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	separator := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render("─────────────────────────────────────────────")
	fmt.Println(separator)
}

// PrintProgress prints a progress indicator
func PrintProgress(current, total int, message string) {
	if IsVerbose() {
		return // Step headers replace the bar in verbose mode
	}

	barWidth := 30
	filled := (current * barWidth) / total
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	pct := (current * 100) / total

	// Use carriage return to overwrite the line
	fmt.Printf("\r  [%s] %d%% %s", bar, pct, message)

	if current >= total {
		fmt.Println()
	}
}
