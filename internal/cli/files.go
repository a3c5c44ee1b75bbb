package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vfsutil/pkg/fileops"
)

func newCopyCmd(a *app) *cobra.Command {
	var (
		overwrite bool
		noFollow  bool
		direct    bool
	)

	cmd := &cobra.Command{
		Use:   "copy SOURCE DESTINATION",
		Short: "Copy a file without ever leaving a truncated destination",
		Long: `Copy SOURCE to DESTINATION.

Unless --direct is given (or use_partial is off in the configuration), the
data is written to "<name>.partial~" next to the destination and renamed
into place once complete. On failure the temporary file is removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.parse(args[0])
			if err != nil {
				return err
			}
			dst, err := a.parse(args[1])
			if err != nil {
				return err
			}

			var copied int64
			opts := fileops.CopyOptions{
				UsePartial: a.cfg.UsePartial && !direct,
				Progress:   func(current, total int64) { copied = current },
			}
			if overwrite {
				opts.Flags |= fileops.CopyOverwrite
			}
			if noFollow {
				opts.Flags |= fileops.CopyNoFollowSymlinks
			}

			if err := a.files.Copy(cmd.Context(), src, dst, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Copied %s to %s (%s)", src, dst, humanize.Bytes(uint64(copied)))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&overwrite, "overwrite", "f", false, "Replace DESTINATION if it exists")
	cmd.Flags().BoolVarP(&noFollow, "no-dereference", "P", false, "Copy symlinks as symlinks")
	cmd.Flags().BoolVar(&direct, "direct", false, "Write straight to DESTINATION without a .partial~ file")
	return cmd
}

func newChecksumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum FILE [OTHER]",
		Short: "Print the SHA-256 of FILE, or compare two files",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(locs) == 1 {
				sum, err := a.files.Checksum(cmd.Context(), locs[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s\n", sum, locs[0])
				return nil
			}

			equal, err := a.files.CompareChecksum(cmd.Context(), locs[0], locs[1])
			if err != nil {
				return err
			}
			if equal {
				fmt.Fprintln(out, okStyle.Render("identical"))
			} else {
				fmt.Fprintln(out, errorStyle.Render("different"))
			}
			return nil
		},
	}
}

func newSymlinkTargetCmd(a *app) *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "symlink-target LINK",
		Short: "Print the location a symbolic link points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := a.parse(args[0])
			if err != nil {
				return err
			}
			if resolve {
				p, err := a.files.ResolvedPath(link)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return nil
			}
			target, err := a.files.SymlinkTarget(link)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Resolve every symlink in the path and print the absolute result")
	return cmd
}

func newLinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link TARGET LINK",
		Short: "Create a symbolic link LINK pointing at TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			return a.files.CreateSymlink(locs[0], locs[1])
		},
	}
}

func newMakeExecutableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "make-executable FILE...",
		Short: "Add execute permission for user, group and others",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := a.parseAll(args)
			if err != nil {
				return err
			}
			for _, loc := range locs {
				if err := a.files.SetExecutableFlags(loc); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
