package main

import (
	"fmt"
	"os"

	"picsort/internal/errors"
	"picsort/internal/imageset"
	"picsort/internal/imaging"
	"picsort/internal/metadata"
	"picsort/internal/notify"

	"github.com/spf13/cobra"
)

func newScanCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the images a session would show",
		Long:  `List the images of a folder in session order with their size, dimensions and EXIF data.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := sourceArg(args)
			if dir == "" {
				dir = root.cfg.Directories.Source
			}
			if dir == "" {
				var err error
				if dir, err = os.Getwd(); err != nil {
					return fmt.Errorf("error getting current directory: %w", err)
				}
			}

			m, err := imageset.NewMatcher(root.cfg.Settings.Extensions)
			if err != nil {
				return err
			}
			set, err := imageset.Scan(dir, m)
			if err != nil {
				return err
			}
			if set.IsEmpty() {
				msg := notify.Message(root.cfg.Settings.Mode, errors.ErrEmptyImageSet)
				return errors.NewSessionError(fmt.Sprintf("%s: %s", msg, dir), errors.EmptyImageSet, nil)
			}

			var notifier notify.Notifier = notify.LogNotifier{}
			out := cmd.OutOrStdout()
			if !jsonOutput {
				fmt.Fprintln(out, primaryText(fmt.Sprintf("%d images in %s", set.Len(), dir)))
			}
			for _, path := range set.Paths() {
				info, err := metadata.Describe(path)
				if err != nil {
					notifier.Error(err)
					continue
				}
				if w, h, err := imaging.DecodeConfig(path); err == nil {
					info.Width, info.Height = w, h
				}

				if jsonOutput {
					fmt.Fprintln(out, info.ToJSON())
					continue
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, info.String())
				fmt.Fprintln(out, infoText("Metadata: "+info.MetadataStatus))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "print one JSON object per image")
	return cmd
}
