//go:build linux

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	uvc "github.com/kevmo314/go-uvc-engine"
	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/formats"
	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
)

func newInspectCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Browse the interfaces, formats and controls of a camera",
		Long:  "Browse the interfaces, formats and controls of a camera in a terminal UI. When stdout is not a terminal the descriptor tree is printed instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.open()
			if err != nil {
				return err
			}
			defer d.Close()

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				printSummary(cmd.OutOrStdout(), summarize(d.Info(), d.Controls()))
				return nil
			}
			return runInspector(d, opts.log)
		},
	}
}

func runInspector(d *uvc.Device, logger *logrus.Logger) error {
	info := d.Info()
	app := tview.NewApplication()

	streamingIfaces := tview.NewList()
	streamingIfaces.SetBorder(true).SetTitle("Streaming Interfaces")

	units := tview.NewList()
	units.SetBorder(true).SetTitle("Units")

	controls := tview.NewList()
	controls.SetBorder(true).SetTitle("Controls")

	ifaces := tview.NewFlex().SetDirection(tview.FlexRow).AddItem(streamingIfaces, 0, 1, true).AddItem(units, 0, 1, false)

	formatList := tview.NewList()
	formatList.SetBorder(true).SetTitle("Formats")

	secondColumn := tview.NewFlex().SetDirection(tview.FlexRow).AddItem(formatList, 0, 1, false).AddItem(controls, 0, 1, false)

	frames := tview.NewList()
	frames.SetBorder(true).SetTitle("Frames")

	logText := tview.NewTextView()
	logText.SetMaxLines(10).SetBorder(true).SetTitle("Log")

	// the UI owns the terminal, so both loggers are redirected into the log pane.
	logger.SetOutput(logText)
	log.SetOutput(logText)

	for _, si := range info.Streaming {
		streamingIfaces.AddItem(fmt.Sprintf("Interface %d", si.Number()), fmt.Sprintf("%d formats, %d alt settings", len(si.Formats), len(si.AlternateSettings)), 0, func() {
			formatList.Clear()
			for _, vf := range si.Formats {
				formatList.AddItem(formatTitle(vf), formatSubtitle(vf), 0, func() {
					frames.Clear()
					for _, fr := range vf.Frames {
						frames.AddItem(fmt.Sprintf("%dx%d", fr.Width, fr.Height), frameSubtitle(fr), 0, func() {
							params, err := d.Negotiate(context.Background(), si.Number(), &transfers.FormatRequest{
								FormatIndex: vf.Index,
								FrameIndex:  fr.Index,
							})
							if err != nil {
								log.Printf("negotiation failed: %s", err)
								return
							}
							log.Printf("committed format %d frame %d at %s: alt %d, %d bytes/packet, %d byte frames",
								params.FormatIndex, params.FrameIndex, params.FrameInterval,
								params.AlternateSetting, params.PacketSize, params.MaxVideoFrameSize)
							if err := d.StopStream(si.Number()); err != nil {
								log.Printf("failed to release bandwidth: %s", err)
							}
						})
					}
					app.SetFocus(frames)
				})
			}
			app.SetFocus(formatList)
		})
	}

	for _, u := range info.Control.Graph().Topological() {
		units.AddItem(fmt.Sprintf("%d: %s", u.ID(), unitKind(u)), fmt.Sprintf("sources %v", u.Sources()), 0, nil)
	}

	for _, c := range d.Controls() {
		controls.AddItem(c.String(), fmt.Sprintf("selector 0x%02x, %d bytes", c.Definition.Selector, c.Definition.Size), 0, func() {
			if c.Definition.Size > 4 {
				log.Printf("%s is not an integer control", c)
				return
			}
			cur, err := d.Get(c)
			if err != nil {
				log.Printf("GET_CUR %s failed: %s", c, err)
				return
			}
			r, err := d.Range(c)
			if err != nil {
				log.Printf("range of %s unavailable: %s", c, err)
			}
			input := tview.NewInputField()
			input.SetLabel(fmt.Sprintf("%s [%d..%d step %d]: ", c.Definition.Name, r.Min, r.Max, r.Resolution)).
				SetText(strconv.FormatInt(cur, 10)).
				SetFieldWidth(10).
				SetAcceptanceFunc(tview.InputFieldInteger).
				SetDoneFunc(func(key tcell.Key) {
					defer func() {
						secondColumn.RemoveItem(input)
						app.SetFocus(controls)
					}()
					if key != tcell.KeyEnter {
						return
					}
					v, err := strconv.ParseInt(input.GetText(), 10, 64)
					if err != nil {
						log.Printf("failed parsing value %s", err)
						return
					}
					if err := d.Set(c, v); err != nil {
						log.Printf("control request failed %s", err)
					}
				})
			secondColumn.AddItem(input, 1, 0, false)
			app.SetFocus(input)
		})
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})

	flex := tview.NewFlex().
		AddItem(ifaces, 0, 1, true).
		AddItem(secondColumn, 0, 1, false).
		AddItem(frames, 0, 1, false)

	return app.SetRoot(tview.NewFlex().SetDirection(tview.FlexRow).AddItem(flex, 0, 1, true).AddItem(logText, 10, 0, false), true).Run()
}

func formatTitle(vf *descriptors.VideoFormat) string {
	return fmt.Sprintf("%d: %s (%d frames)", vf.Index, formats.Name(vf), len(vf.Frames))
}

func formatSubtitle(vf *descriptors.VideoFormat) string {
	switch fd := vf.Descriptor.(type) {
	case *descriptors.MJPEGFormat:
		return fmt.Sprintf("Aspect Ratio: %d:%d, fixed size: %t", vf.AspectRatioX, vf.AspectRatioY, fd.FixedSizeSamples())
	case *descriptors.UncompressedFormat:
		return fmt.Sprintf("%s, bpp: %d", fd.GUIDFormat, fd.BitsPerPixel)
	case *descriptors.FrameBasedFormat:
		return fmt.Sprintf("%s, Aspect Ratio: %d:%d, bpp: %d", fd.GUIDFormat, vf.AspectRatioX, vf.AspectRatioY, fd.BitsPerPixel)
	case *descriptors.VP8Format:
		return fmt.Sprintf("Max MB/s: %d", fd.MaxMBPerSec)
	case *descriptors.StreamBasedFormat:
		return fd.GUIDFormat.String()
	}
	return formats.MIMEType(vf)
}

func frameSubtitle(fr *descriptors.VideoFrame) string {
	return fmt.Sprintf("%.2f fps, Bitrate: %d-%d bps", fr.FrameRate(), fr.MinBitRate, fr.MaxBitRate)
}
