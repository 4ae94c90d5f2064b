package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewGCCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Garbage collect snapshots of retired runtime versions",
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

			if interval := intervalFlag(v); interval > 0 {
				return store.GCRoutine(cmd.Context(), interval, minAgeFlag(v))
			}

			counts, err := store.DeleteOldData(cmd.Context(), minAgeFlag(v))
			if err != nil {
				return err
			}
			l.Info("gc finished",
				zap.Int("found", counts.Found),
				zap.Int("deleted", counts.Deleted),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	addBucketFlag(flags, v)
	addPrefixFlag(flags, v)
	addRuntimeVersionFlag(flags, v)
	addKeepVersionsFlag(flags, v)
	addMinAgeFlag(flags, v)
	addIntervalFlag(flags, v)
	addConcurrencyFlag(flags, v)

	return cmd
}
