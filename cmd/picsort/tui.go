package main

import (
	"picsort/internal/log"
	"picsort/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(root *rootOptions) *cobra.Command {
	var mode string
	var dest string

	cmd := &cobra.Command{
		Use:   "tui [dir]",
		Short: "Launch the terminal sorter",
		Long:  `Sort images from the terminal. Without a folder argument you are asked for one.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.applyMode(cmd, mode); err != nil {
				return err
			}

			opts := tui.Options{Source: sourceArg(args), Destination: dest}
			if !root.cfg.Display.NoWatch {
				w, err := newWatcher(root)
				if err != nil {
					log.LogWithError(err).Warn("Source folder changes will not be reported")
				} else if err := w.Start(); err != nil {
					log.LogWithError(err).Warn("Source folder changes will not be reported")
				} else {
					defer w.Stop()
					opts.Watcher = w
				}
			}
			return tui.Run(root.cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "sorting mode: move or copy (default from config)")
	cmd.Flags().StringVar(&dest, "dest", "", "fixed base folder for move mode")
	return cmd
}
