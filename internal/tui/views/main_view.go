package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"picsort/internal/config"
	"picsort/internal/notify"
	"picsort/internal/session"
	"picsort/internal/tui/common"
	"picsort/internal/tui/components"
)

// RenderMainView draws the whole screen for the current model state.
func RenderMainView(m common.ModelReader) string {
	theme := m.Theme()
	sess := m.Session()

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(renderTitle(sess)))
	sb.WriteString("\n")

	switch sess.Phase() {
	case session.Empty:
		sb.WriteString(theme.Info.Render("Choose a folder of images to start sorting."))
		sb.WriteString("\n")
	case session.Done:
		sb.WriteString(theme.Success.Render(notify.AllSortedMessage))
		sb.WriteString("\n")
	case session.Browsing:
		sb.WriteString(renderCurrent(m))
	}

	if labels := sess.Destinations().Labels(); len(labels) > 0 {
		sb.WriteString(theme.Label.Render("Folders:") + " " + strings.Join(labels, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.InputView())
	sb.WriteString("\n")

	if status := m.StatusView(); status != "" {
		sb.WriteString("\n" + status + "\n")
	}
	sb.WriteString("\n" + m.HelpView())

	return theme.App.Render(sb.String())
}

func renderTitle(sess session.Session) string {
	mode := "Image Sorter"
	if sess.Mode() == config.ModeCopy {
		mode = "Athlete Sorter"
	}
	if sess.Source() == "" {
		return mode
	}
	return fmt.Sprintf("%s · %s", mode, sess.Source())
}

func renderCurrent(m common.ModelReader) string {
	theme := m.Theme()
	sess := m.Session()
	current, _ := sess.Current()

	var sb strings.Builder
	sb.WriteString(theme.Label.Render(fmt.Sprintf("Image %d/%d:", sess.Cursor()+1, sess.Remaining())))
	sb.WriteString(" " + theme.Value.Render(filepath.Base(current)))
	sb.WriteString("\n")

	if meta, ok := m.Metadata(); ok {
		sb.WriteString(components.RenderMetadata(theme, meta))
		sb.WriteString("\n")
	}
	return sb.String()
}
