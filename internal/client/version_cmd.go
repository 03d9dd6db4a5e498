package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VinMeld/feishu-voice/internal/version"
)

func newVersionCmd() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if !long {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return nil
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print detailed version information as JSON")
	return cmd
}
