package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/triahq/tria/internal/priority"
)

// Puts prints a styled line to stdout.
func Puts(s string) {
	fmt.Println(s)
}

// Putsf prints a formatted styled line to stdout.
func Putsf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// Warn prints a warning message.
func Warn(msg string) {
	fmt.Println(Warning.Render(IconWarn + msg))
}

// Err prints an error message.
func Err(msg string) {
	// Force color output for errors to ensure visibility
	styled := Error.Copy().Bold(true).Render(IconError + msg)
	fmt.Fprintln(os.Stderr, styled)
}

// Ok prints a success message.
func Ok(msg string) {
	fmt.Println(Success.Render(IconOk + msg))
}

// Inf prints an info message.
func Inf(msg string) {
	fmt.Println(Info.Render("  " + msg))
}

// Header prints a section header.
func Header(s string) {
	fmt.Println()
	fmt.Println(Title.Render(s))
	fmt.Println(Muted.Render(strings.Repeat("─", len(s)+2)))
}

// Tip prints a helpful tip.
func Tip(msg string) {
	fmt.Println()
	fmt.Println(Muted.Render("  tip: " + msg))
}

// Kv prints a key-value pair, padded.
func Kv(key string, value string) {
	k := KeyStyle.Render(fmt.Sprintf("  %-12s", key))
	v := ValueStyle.Render(value)
	fmt.Printf("%s %s\n", k, v)
}

// Breakdown renders a score's component list, one signed line per component,
// followed by the total.
func Breakdown(score priority.Score) string {
	var b strings.Builder
	for _, c := range score.Components {
		val := fmt.Sprintf("%+.1f", c.Value)
		if c.Value >= 0 {
			b.WriteString(fmt.Sprintf("  %s %s\n", Success.Render(fmt.Sprintf("%8s", val)), c.Label))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s\n", Error.Render(fmt.Sprintf("%8s", val)), c.Label))
		}
	}
	b.WriteString(Muted.Render("  ────────") + "\n")
	b.WriteString(fmt.Sprintf("  %s total\n", Accent.Render(fmt.Sprintf("%8.1f", score.Total))))
	return b.String()
}

// Die prints an error message and exits.
func Die(msg string) {
	Err(msg)
	os.Exit(1)
}

// Dief prints a formatted error message and exits.
func Dief(format string, args ...any) {
	Die(fmt.Sprintf(format, args...))
}
