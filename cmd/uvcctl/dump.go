//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDumpCommand(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the parsed descriptors of a camera",
		Example: `  uvcctl dump -d /dev/bus/usb/001/004
  uvcctl dump -d /dev/bus/usb/001/004 --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.open()
			if err != nil {
				return err
			}
			defer d.Close()

			s := summarize(d.Info(), d.Controls())
			switch output {
			case "text":
				printSummary(cmd.OutOrStdout(), s)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(s)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text or yaml)")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
