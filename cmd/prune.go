package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foomo/snapstore/pkg/snapstore"
)

func NewPruneCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "prune <folder>",
		Short: "Recursively delete every object under a folder",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the folder to delete, including the trailing /")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L()

			gw, err := newGateway(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer gw.Close()

			deleted, err := snapstore.DeleteFolder(cmd.Context(), l, gw, args[0],
				snapstore.FolderWithConcurrency(concurrencyFlag(v)),
			)
			if err != nil {
				return err
			}
			l.Info("prune finished",
				zap.String("folder", args[0]),
				zap.Int("deleted", deleted),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addBucketFlag(flags, v)
	addConcurrencyFlag(flags, v)

	return cmd
}
