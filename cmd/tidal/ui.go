package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"tidal/internal/buildpipeline"
	"tidal/internal/driver"
	"tidal/internal/ui"
)

func tidalUI(m *driver.Manifest, events <-chan buildpipeline.Event) tea.Model {
	title := "building " + m.Package.Name
	return ui.NewProgressModel(title, m.Build.Sources, events)
}
