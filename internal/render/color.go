package render

import "github.com/fatih/color"

// colorEnabled is resolved once; colors are used only on real terminals.
var colorEnabled = !color.NoColor

func colorSuccess(text string) string {
	if !colorEnabled {
		return text
	}
	return color.GreenString(text)
}

func colorFailure(text string) string {
	if !colorEnabled {
		return text
	}
	return color.RedString(text)
}

func colorWarning(text string) string {
	if !colorEnabled {
		return text
	}
	return color.YellowString(text)
}

func colorHeader(text string) string {
	if !colorEnabled {
		return text
	}
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}

// formatPass renders a PASS/FAIL cell.
func formatPass(passed bool) string {
	if passed {
		return colorSuccess("PASS")
	}
	return colorFailure("FAIL")
}
