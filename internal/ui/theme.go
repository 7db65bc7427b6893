package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/triahq/tria/internal/priority"
)

// tria's color palette — hot signal reds through calm slate.
var (
	// Primary colors
	Crimson = lipgloss.Color("#E0115F")
	Ember   = lipgloss.Color("#FF6B35")
	Amber   = lipgloss.Color("#FFBF00")
	Teal    = lipgloss.Color("#2EC4B6")
	Slate   = lipgloss.Color("#8B8D98")
	Deep    = lipgloss.Color("#2D2D2D")
	Dim     = lipgloss.Color("#666666")
	Bright  = lipgloss.Color("#FFFFFF")
	Subtle  = lipgloss.Color("#AAAAAA")

	// Semantic styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Ember)

	Subtitle = lipgloss.NewStyle().
			Foreground(Amber)

	Success = lipgloss.NewStyle().
		Foreground(Teal)

	Error = lipgloss.NewStyle().
		Foreground(Crimson)

	Warning = lipgloss.NewStyle().
		Foreground(Amber)

	Info = lipgloss.NewStyle().
		Foreground(Teal)

	Muted = lipgloss.NewStyle().
		Foreground(Dim)

	Accent = lipgloss.NewStyle().
		Foreground(Ember).
		Bold(true)

	// Component styles
	Banner = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Ember).
		Padding(0, 1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Bright)

	// Zone badge styles
	zoneCritical = lipgloss.NewStyle().Foreground(Bright).Background(Crimson).Padding(0, 1).Bold(true)
	zoneHigh     = lipgloss.NewStyle().Foreground(Deep).Background(Ember).Padding(0, 1).Bold(true)
	zoneMedium   = lipgloss.NewStyle().Foreground(Deep).Background(Amber).Padding(0, 1)
	zoneLow      = lipgloss.NewStyle().Foreground(Bright).Background(Slate).Padding(0, 1)
	zoneParked   = lipgloss.NewStyle().Foreground(Subtle).Padding(0, 1)
)

// Icon constants — consistent emoji language.
const (
	IconInbox   = "📥"
	IconEmail   = "✉️ "
	IconEvent   = "📅"
	IconTask    = "📋"
	IconDone    = "✅"
	IconSnooze  = "💤"
	IconFire    = "🔥"
	IconWarn    = "⚠️ "
	IconError   = "✗ "
	IconOk      = "✓ "
	IconArrow   = "→"
	IconDot     = "·"
	IconTria    = "🎛 "
	IconAction  = "⚡"
	IconPreset  = "🎚 "
)

// ZoneBadge renders a colored badge for a priority zone.
func ZoneBadge(z priority.Zone) string {
	switch z {
	case priority.ZoneCritical:
		return zoneCritical.Render("CRIT")
	case priority.ZoneHigh:
		return zoneHigh.Render("HIGH")
	case priority.ZoneMedium:
		return zoneMedium.Render("MED")
	case priority.ZoneLow:
		return zoneLow.Render("LOW")
	case priority.ZoneSnoozed:
		return zoneParked.Render("SNOOZED")
	default:
		return zoneParked.Render("RESOLVED")
	}
}

// KindIcon returns the icon for an item kind string.
func KindIcon(kind string) string {
	switch kind {
	case "email":
		return IconEmail
	case "timeline":
		return IconEvent
	case "task":
		return IconTask
	default:
		return IconDot
	}
}
