package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vfsutil/pkg/location"
	"vfsutil/pkg/volume"
)

func newContainsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "contains ANCESTOR LOCATION",
		Short: "Report whether LOCATION is ANCESTOR or nested inside it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(location.IsDescendant(locs[1], locs[0])))
			return nil
		},
	}
}

func displayName(loc location.Location) string {
	if !loc.IsNative() && loc.Host() != "" {
		return location.RemoteDisplayName(loc)
	}
	return location.DisplayName(loc)
}

func newDisplayNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "display-name LOCATION...",
		Short: "Print the name a file manager shows for each location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			for _, loc := range locs {
				fmt.Fprintln(cmd.OutOrStdout(), displayName(loc))
			}
			return nil
		},
	}
}

func newURIListCmd(a *app) *cobra.Command {
	var parents bool

	cmd := &cobra.Command{
		Use:   "uri-list LOCATION...",
		Short: "Print locations as a text/uri-list",
		Long: `Print the given locations as a text/uri-list (one URI per line,
CRLF separated). With --parents, the distinct parent directories are
printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			if parents {
				locs = location.ListParents(locs)
			}
			fmt.Fprint(cmd.OutOrStdout(), location.ListToString(locs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&parents, "parents", false, "Print the distinct parents instead")
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info LOCATION",
		Short: "Describe a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, titleStyle.Render(displayName(loc)))
			printField(out, "URI", loc.URI())
			if p, ok := loc.Path(); ok {
				printField(out, "Path", p)
			}
			printField(out, "Kind", locationKind(loc))

			if !loc.IsNative() {
				return nil
			}

			if isLink, err := a.files.IsSymlink(loc); err == nil && isLink {
				if target, err := a.files.SymlinkTarget(loc); err == nil {
					printField(out, "Link target", target.String())
				}
			}
			if ct, err := a.files.ContentType(loc); err == nil {
				printField(out, "Content type", ct)
			}
			printField(out, "Desktop file", yesNo(a.files.IsDesktopFile(loc)))
			printField(out, "Local device", yesNo(a.volumes.IsOnLocalDevice(loc)))
			if deviceType, err := a.volumes.GuessDeviceType(loc); err == nil && deviceType != "" {
				printField(out, "Device", deviceType)
			}
			if p, ok := loc.Path(); ok {
				printField(out, "Extended attrs", yesNo(volume.MetadataSupported(p)))
			}
			if space := volume.FreeSpaceString(loc, a.cfg.FileSizeBinary); space != "" {
				printField(out, "Space", space)
			}
			return nil
		},
	}
}

func locationKind(loc location.Location) string {
	switch {
	case location.IsRoot(loc) && loc.IsNative():
		return "filesystem root"
	case location.IsHome(loc):
		return "home folder"
	case location.IsTrash(loc):
		return "trash"
	case location.IsTrashed(loc):
		return "trashed item"
	case location.IsRecent(loc):
		return "recent files"
	case location.IsInRecent(loc):
		return "recent item"
	case location.IsComputer(loc):
		return "computer"
	case location.IsNetwork(loc):
		return "network"
	case location.IsInXDGDataDir(loc):
		return "application data"
	case loc.IsNative():
		return "local"
	default:
		return "remote (" + loc.Scheme() + ")"
	}
}
