package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vfsutil/internal/launch"
	"vfsutil/pkg/location"
)

func newLaunchCmd(a *app) *cobra.Command {
	var (
		command string
		workDir string
		wait    bool
	)

	cmd := &cobra.Command{
		Use:   "launch --command CMD [FILE...]",
		Short: "Run a helper program on files",
		Long: `Run CMD with FILE arguments appended. Local files are passed as paths,
other locations as URIs. The helper runs in --workdir when given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := strings.Fields(command)
			if len(argv) == 0 {
				return fmt.Errorf("--command is required")
			}
			files, err := a.parseAll(args)
			if err != nil {
				return err
			}
			var dir location.Location
			if workDir != "" {
				if dir, err = a.parse(workDir); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if !wait {
				// the helper outlives this process
				ctx = context.WithoutCancel(ctx)
			}
			proc, err := launch.Start(ctx, argv, dir, files)
			if err != nil {
				return err
			}
			if wait {
				return proc.Wait()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started %s (pid %d)\n", argv[0], proc.Process.Pid)
			return proc.Process.Release()
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "Program and arguments to run")
	cmd.Flags().StringVarP(&workDir, "workdir", "C", "", "Working directory of the helper")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the helper to exit")
	return cmd
}
