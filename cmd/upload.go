package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewUploadCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Publish a JSON document as the current version's snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L()

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %q: %w", args[0], err)
			}
			var data map[string]any
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("failed to parse %q: %w", args[0], err)
			}

			gw, err := newGateway(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer gw.Close()

			store, err := newStore(v, l, gw)
			if err != nil {
				return err
			}

			// best-effort by contract, failures only surface in the logs
			store.UploadJSONMap(cmd.Context(), data)
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
