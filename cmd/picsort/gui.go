package main

import (
	"picsort/internal/gui"
	"picsort/internal/imageset"
	"picsort/internal/log"
	"picsort/internal/watch"

	"github.com/spf13/cobra"
)

func newGUICmd(root *rootOptions) *cobra.Command {
	var mode string
	var dest string

	cmd := &cobra.Command{
		Use:   "gui [dir]",
		Short: "Launch the graphical sorter",
		Long:  `Open the desktop window. Without a folder argument, use Open Folder to pick one.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.applyMode(cmd, mode); err != nil {
				return err
			}
			if !gui.IsGUIAvailable() {
				return gui.Run(root.cfg, gui.Options{})
			}

			opts := gui.Options{Source: sourceArg(args), Destination: dest}
			if !root.cfg.Display.NoWatch {
				w, err := newWatcher(root)
				if err != nil {
					log.LogWithError(err).Warn("Source folder changes will not be reported")
				} else {
					opts.Watcher = w
				}
			}
			return gui.Run(root.cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "sorting mode: move or copy (default from config)")
	cmd.Flags().StringVar(&dest, "dest", "", "fixed base folder for move mode")
	return cmd
}

func newWatcher(root *rootOptions) (*watch.Watcher, error) {
	m, err := imageset.NewMatcher(root.cfg.Settings.Extensions)
	if err != nil {
		return nil, err
	}
	return watch.New(m)
}
