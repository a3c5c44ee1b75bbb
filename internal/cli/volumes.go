package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vfsutil/pkg/volume"
)

func newFreeSpaceCmd(a *app) *cobra.Command {
	var binary, si bool

	cmd := &cobra.Command{
		Use:   "free-space LOCATION",
		Short: "Show used and free space of the volume holding LOCATION",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			useBinary := a.cfg.FileSizeBinary
			if cmd.Flags().Changed("binary") {
				useBinary = binary
			}
			if si {
				useBinary = false
			}

			text := volume.FreeSpaceString(loc, useBinary)
			if text == "" {
				return fmt.Errorf("free space of %s is unavailable", loc)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&binary, "binary", false, "Use IEC units (KiB, MiB, ...)")
	cmd.Flags().BoolVar(&si, "si", false, "Use SI units (kB, MB, ...)")
	cmd.MarkFlagsMutuallyExclusive("binary", "si")
	return cmd
}

func newDeviceTypeCmd(a *app) *cobra.Command {
	var iconName string

	cmd := &cobra.Command{
		Use:   "device-type [LOCATION]",
		Short: "Guess the kind of device LOCATION is stored on",
		Long: `Guess the kind of device (USB Drive, Optical Media, ...) LOCATION is stored
on. With --icon, the device type for a freedesktop icon name is printed
instead. Nothing is printed when the device is not recognised.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if iconName != "" {
				if deviceType := volume.GuessDeviceType(iconName); deviceType != "" {
					fmt.Fprintln(cmd.OutOrStdout(), deviceType)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("either LOCATION or --icon is required")
			}

			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			deviceType, err := a.volumes.GuessDeviceType(loc)
			if err != nil {
				return err
			}
			if deviceType != "" {
				fmt.Fprintln(cmd.OutOrStdout(), deviceType)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&iconName, "icon", "", "Map a freedesktop icon name instead of a location")
	return cmd
}
