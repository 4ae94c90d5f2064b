package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewLatestCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the newest snapshot version not newer than the current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L()

			gw, err := newGateway(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer gw.Close()

			store, err := newStore(v, l, gw)
			if err != nil {
				return err
			}

			latest, err := store.DetectLatestVersion(cmd.Context())
			if err != nil {
				return err
			}
			if latest == "" {
				return fmt.Errorf("no compatible snapshot found under %q", prefixFlag(v))
			}
			fmt.Println(store.BucketURI(latest))
			return nil
		},
	}

	flags := cmd.Flags()
	addBucketFlag(flags, v)
	addPrefixFlag(flags, v)
	addRuntimeVersionFlag(flags, v)
	addKeepVersionsFlag(flags, v)

	return cmd
}
