//go:build linux

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	uvc "github.com/kevmo314/go-uvc-engine"
	"github.com/kevmo314/go-uvc-engine/pkg/requests"
)

func newCtrlCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctrl",
		Short: "Read and write camera terminal and processing unit controls",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the controls the camera advertises",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDevice(opts, func(d *uvc.Device) error {
					w := cmd.OutOrStdout()
					for _, c := range d.Controls() {
						if c.Definition.Size > 4 {
							fmt.Fprintf(w, "%-40s %s\n", c, color.New(color.Faint).Sprintf("%d byte block", c.Definition.Size))
							continue
						}
						cur, err := d.Get(c)
						if err != nil {
							fmt.Fprintf(w, "%-40s %s\n", c, color.RedString(err.Error()))
							continue
						}
						r, err := d.Range(c)
						if err != nil {
							fmt.Fprintf(w, "%-40s %d\n", c, cur)
							continue
						}
						fmt.Fprintf(w, "%-40s %d (min %d, max %d, step %d, default %d)\n", c, cur, r.Min, r.Max, r.Resolution, r.Default)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print the current value of a control",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDevice(opts, func(d *uvc.Device) error {
					c, err := d.Control(args[0])
					if err != nil {
						return err
					}
					v, err := d.Get(c)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set NAME VALUE",
			Short: "Write the current value of a control",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseInt(args[1], 0, 64)
				if err != nil {
					return errors.Wrapf(err, "invalid value %q", args[1])
				}
				return withDevice(opts, func(d *uvc.Device) error {
					c, err := d.Control(args[0])
					if err != nil {
						return err
					}
					if err := d.Set(c, v); err != nil {
						if code, cerr := d.RequestErrorCode(); cerr == nil && code != requests.RequestErrorCodeNoError {
							return errors.Wrapf(err, "device reported %s", code)
						}
						return err
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "power [full|vendor]",
			Short:     "Print or set the video power mode",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{"full", "vendor"},
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDevice(opts, func(d *uvc.Device) error {
					if len(args) == 1 {
						mode, err := parsePowerMode(args[0])
						if err != nil {
							return err
						}
						return d.SetPowerMode(mode)
					}
					mode, err := d.PowerMode()
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), mode)
					return nil
				})
			},
		},
	)
	return cmd
}

func parsePowerMode(s string) (requests.PowerMode, error) {
	switch s {
	case "full":
		return requests.PowerModeFullPower, nil
	case "vendor":
		return requests.PowerModeVendorDependent, nil
	}
	return 0, errors.Errorf("unknown power mode %q", s)
}

func withDevice(opts *globalOptions, fn func(d *uvc.Device) error) error {
	d, err := opts.open()
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(d)
}
