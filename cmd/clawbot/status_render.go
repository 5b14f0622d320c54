package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"clawbot/internal/organizer"
	"clawbot/internal/plan"
	"clawbot/internal/publisher"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// organizeResultLines renders an organize pass for humans.
func organizeResultLines(result organizer.Result, colorize bool) []string {
	lines := renderSectionHeader("Organize", colorize)
	if !result.Found() {
		return append(lines, renderStatusLine("Status", statusWarn, "no matching document found", colorize))
	}
	publishDetail := result.Symlink
	switch result.Method {
	case publisher.MethodCopy:
		publishDetail += " (copied; links unavailable)"
	case publisher.MethodExisting:
		publishDetail += " (already published)"
	}
	publishKind := statusOK
	if result.Method == publisher.MethodCopy {
		publishKind = statusWarn
	}
	return append(lines,
		renderStatusLine("Status", statusOK, result.Status, colorize),
		renderStatusLine("Document", statusInfo, result.Manual, colorize),
		renderStatusLine("Published", publishKind, publishDetail, colorize),
		renderStatusLine("Metadata", statusInfo, result.Metadata, colorize),
	)
}

func outcomeKind(outcome plan.Outcome) statusKind {
	if outcome.Status == plan.StatusApplied {
		return statusOK
	}
	switch outcome.Reason {
	case plan.ReasonIOError, plan.ReasonInvalidAction:
		return statusError
	default:
		return statusWarn
	}
}

// planSummaryLine renders the applied/skipped totals.
func planSummaryLine(outcomes []plan.Outcome, colorize bool) string {
	applied, skipped := plan.Summarize(outcomes)
	kind := statusOK
	if skipped > 0 {
		kind = statusWarn
	}
	return renderStatusLine("Summary", kind, fmt.Sprintf("%d applied, %d skipped", applied, skipped), colorize)
}
