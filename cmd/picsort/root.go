package main

import (
	"fmt"
	"strings"

	"picsort/internal/config"
	"picsort/internal/log"

	"github.com/spf13/cobra"
)

// rootOptions holds the global flags and the configuration they produce.
type rootOptions struct {
	cfgFile string
	debug   bool
	dryRun  bool
	cfg     *config.Config
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "picsort",
		Short:   "Sort a folder of images into labelled folders",
		Version: version,
		Long: `picsort shows the images of a folder one at a time and files each one
under a label you type.

In move mode the image is moved into <base>/<label>, asking for the base
folder the first time a label is used. In copy mode the image is copied into
<source>/<number> for every comma-separated athlete number, and its EXIF data
is shown alongside.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/picsort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "log file operations without touching any file")

	rootCmd.AddCommand(newGUICmd(opts))
	rootCmd.AddCommand(newTUICmd(opts))
	rootCmd.AddCommand(newScanCmd(opts))

	return rootCmd
}

// load reads the configuration, applies the global flags and sets up logging.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var err error
	if o.cfgFile != "" {
		o.cfg, err = config.LoadConfigFile(o.cfgFile)
	} else {
		o.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("dry-run") {
		o.cfg.Settings.DryRun = o.dryRun
	}
	if o.debug {
		o.cfg.Settings.Debug = true
	}

	if o.cfg.Settings.LogFile != "" {
		log.Configure(log.WithFile(o.cfg.Settings.LogFile))
	}
	log.SetDebug(o.cfg.Settings.Debug)
	log.LogWithFields(
		log.F("mode", o.cfg.Settings.Mode),
		log.F("dry_run", o.cfg.Settings.DryRun),
		log.F("collision", o.cfg.Settings.Collision),
	).Debug("Configuration loaded")
	return nil
}

// applyMode overrides the configured mode from a --mode flag.
func (o *rootOptions) applyMode(cmd *cobra.Command, mode string) error {
	if !cmd.Flags().Changed("mode") {
		return nil
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case config.ModeMove, config.ModeCopy:
		o.cfg.Settings.Mode = mode
		return nil
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", mode, config.ModeMove, config.ModeCopy)
	}
}

func sourceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
