//go:build linux

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
)

type formatFlags struct {
	iface    uint8
	format   uint8
	frame    uint8
	interval time.Duration
}

func (f *formatFlags) register(flags *pflag.FlagSet) {
	flags.Uint8Var(&f.iface, "interface", 0, "streaming interface number (default: the first)")
	flags.Uint8Var(&f.format, "format", 0, "format index (default: the first)")
	flags.Uint8Var(&f.frame, "frame", 0, "frame index (default: the first of the format)")
	flags.DurationVar(&f.interval, "interval", 0, "frame interval, e.g. 33.3333ms (default: the frame's default)")
}

func (f *formatFlags) request() *transfers.FormatRequest {
	return &transfers.FormatRequest{FormatIndex: f.format, FrameIndex: f.frame, FrameInterval: f.interval}
}

func newProbeCommand(opts *globalOptions) *cobra.Command {
	var (
		ff     formatFlags
		bounds bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Negotiate a format and print the committed stream parameters",
		Example: `  uvcctl probe -d /dev/bus/usb/001/004 --format 2 --frame 1
  uvcctl probe -d /dev/bus/usb/001/004 --bounds`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.open()
			if err != nil {
				return err
			}
			defer d.Close()

			w := cmd.OutOrStdout()
			if bounds {
				b, err := d.ProbeBounds(cmd.Context(), ff.iface)
				if err != nil {
					return err
				}
				printProbe(w, "min", b.Min)
				printProbe(w, "max", b.Max)
				printProbe(w, "def", b.Def)
				return nil
			}
			params, err := d.Negotiate(cmd.Context(), ff.iface, ff.request())
			if err != nil {
				return err
			}
			printParams(w, params)
			return d.StopStream(params.InterfaceNumber)
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().BoolVar(&bounds, "bounds", false, "print the GET_MIN/GET_MAX/GET_DEF probe blocks instead of committing")
	return cmd
}

func printProbe(w io.Writer, label string, p *descriptors.VideoProbeCommitControl) {
	fmt.Fprintf(w, "%s: format %d frame %d interval %s frame size %d payload %d\n",
		label, p.FormatIndex, p.FrameIndex, p.FrameInterval, p.MaxVideoFrameSize, p.MaxPayloadTransferSize)
}

func printParams(w io.Writer, p *transfers.NegotiatedStreamParameters) {
	fmt.Fprintf(w, "interface:         %d\n", p.InterfaceNumber)
	fmt.Fprintf(w, "alternate setting: %d\n", p.AlternateSetting)
	fmt.Fprintf(w, "endpoint:          0x%02x\n", p.EndpointAddress)
	fmt.Fprintf(w, "format/frame:      %d/%d\n", p.FormatIndex, p.FrameIndex)
	fmt.Fprintf(w, "frame interval:    %s\n", p.FrameInterval)
	fmt.Fprintf(w, "max frame size:    %d\n", p.MaxVideoFrameSize)
	fmt.Fprintf(w, "max payload size:  %d\n", p.MaxPayloadTransferSize)
	fmt.Fprintf(w, "packet size:       %d\n", p.PacketSize)
	if p.ClockFrequency != 0 {
		fmt.Fprintf(w, "clock frequency:   %d Hz\n", p.ClockFrequency)
	}
}
