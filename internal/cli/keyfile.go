package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"

	"vfsutil/pkg/keyfile"
)

func newKeyfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyfile",
		Short: "Read and edit desktop-entry style key files",
	}
	cmd.AddCommand(newKeyfileGetCmd(a), newKeyfileSetCmd(a), newKeyfileShowCmd(a))
	return cmd
}

func newKeyfileGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE GROUP KEY",
		Short: "Print the value of KEY in GROUP",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			kf, err := keyfile.Query(cmd.Context(), a.fs, loc)
			if err != nil {
				return err
			}
			section, err := kf.GetSection(args[1])
			if err != nil {
				return fmt.Errorf("group %q not found", args[1])
			}
			if !section.HasKey(args[2]) {
				return fmt.Errorf("key %q not found in group %q", args[2], args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), section.Key(args[2]).String())
			return nil
		},
	}
}

func newKeyfileSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE GROUP KEY VALUE",
		Short: "Set KEY in GROUP, creating the file if needed",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			kf, err := keyfile.Query(cmd.Context(), a.fs, loc)
			if errors.Is(err, fs.ErrNotExist) {
				kf = keyfile.New()
			} else if err != nil {
				return err
			}
			kf.Section(args[1]).Key(args[2]).SetValue(args[3])
			if err := keyfile.Write(cmd.Context(), a.fs, loc, kf); err != nil {
				return err
			}
			a.logger.Debug("Key file updated", "file", loc.String(), "group", args[1], "key", args[2])
			return nil
		},
	}
}

func newKeyfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the groups and keys of a key file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.parse(args[0])
			if err != nil {
				return err
			}
			kf, err := keyfile.Query(cmd.Context(), a.fs, loc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, section := range kf.Sections() {
				if len(section.Keys()) == 0 && section.Name() == ini.DefaultSection {
					continue
				}
				fmt.Fprintln(out, titleStyle.Render("["+section.Name()+"]"))
				for _, key := range section.Keys() {
					printField(out, key.Name(), key.String())
				}
			}
			return nil
		},
	}
}
