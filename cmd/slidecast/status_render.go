package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"slidecast/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
)

var statusStyles = map[statusKind]struct {
	tag    string
	colors text.Colors
}{
	statusInfo:  {"INFO", text.Colors{text.FgBlue}},
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusError: {"ERROR", text.Colors{text.FgRed, text.Bold}},
}

const statusLabelWidth = 16

// renderStatusLine formats "  Label:          [TAG] message".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.tag)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.colors.Sprint(line)
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	title = strings.TrimSpace(title)
	header := []string{title, strings.Repeat("=", len(title))}
	if colorize {
		for i := range header {
			header[i] = text.Colors{text.FgBlue, text.Bold}.Sprint(header[i])
		}
	}
	return header
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, len(results))
	for i, r := range results {
		kind := statusError
		if r.Passed {
			kind = statusOK
		}
		lines[i] = renderStatusLine(r.Name, kind, r.Detail, colorize)
	}
	return lines
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
