// Package cli provides the command-line interface for vfsutil.
package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"vfsutil/internal/config"
	"vfsutil/internal/logging"
	"vfsutil/pkg/fileops"
	"vfsutil/pkg/location"
	"vfsutil/pkg/volume"
)

// Version is set by the main package at startup.
var Version = "v0.1.0-dev"

// app carries the state shared by all subcommands. Fields left nil are
// filled in before any command runs.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *logging.AppLogger
	fs      afero.Fs
	mounts  volume.Lister

	files   *fileops.Manager
	volumes *volume.Table
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vfsutil",
		Short: "Location and file utilities for local and virtual filesystems",
		Long: `vfsutil ` + Version + `
Inspect and manipulate files addressed by path or URI.

Locations may be given as plain paths, "~/..." or URIs such as
trash:/// or sftp://host/dir. Copies are partial-safe: data is written to
a temporary *.partial~ file and renamed into place when complete.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init() },
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.Version = Version

	rootCmd.AddCommand(
		newCopyCmd(a),
		newContainsCmd(a),
		newChecksumCmd(a),
		newDisplayNameCmd(a),
		newFreeSpaceCmd(a),
		newDeviceTypeCmd(a),
		newSymlinkTargetCmd(a),
		newLinkCmd(a),
		newMakeExecutableCmd(a),
		newURIListCmd(a),
		newKeyfileCmd(a),
		newInfoCmd(a),
		newLaunchCmd(a),
		newMCPCmd(a),
	)

	return rootCmd
}

func (a *app) init() error {
	if a.logger == nil {
		a.logger = logging.NewAppLogger()
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.cfg == nil {
		var err error
		if a.cfgFile != "" {
			a.cfg, err = config.LoadFrom(a.cfgFile)
		} else {
			a.cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	a.files = fileops.NewManager(a.fs, a.logger)
	a.volumes = volume.NewTable(a.fs, a.mounts, a.logger)
	return nil
}

// parse turns a command line argument into a location and rejects schemes
// the configuration does not allow.
func (a *app) parse(arg string) (location.Location, error) {
	loc, err := location.ParseCommandline(arg)
	if err != nil {
		return location.Location{}, err
	}
	if !a.cfg.IsSchemeSupported(loc) {
		return location.Location{}, fmt.Errorf("unsupported location scheme %q", loc.Scheme())
	}
	return loc, nil
}

func (a *app) parseAll(args []string) ([]location.Location, error) {
	locs := make([]location.Location, 0, len(args))
	for _, arg := range args {
		loc, err := a.parse(arg)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
