package components

import (
	"strings"

	"picsort/internal/metadata"
	"picsort/internal/tui/styles"
)

// RenderMetadata renders the EXIF fields of the current image as a boxed
// "Label: value" list.
func RenderMetadata(theme styles.Theme, result metadata.Result) string {
	rows := []struct{ label, value string }{
		{"File Name", result.Fields.FileName},
		{"Date/Time", result.Fields.DateTime},
		{"Aperture", result.Fields.Aperture},
		{"Shutter Speed", result.Fields.ShutterSpeed},
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(theme.Label.Render(row.label+":") + " " + theme.Value.Render(row.value))
	}
	return theme.Panel.Render(sb.String())
}
