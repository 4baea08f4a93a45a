package main

import (
	"picsort/internal/config"

	"github.com/charmbracelet/lipgloss"
)

var palette = config.GetTheme("default")

func primaryText(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(palette["primary"])).Render(s)
}

func errorText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette["error"])).Render(s)
}

func infoText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(palette["info"])).Render(s)
}
