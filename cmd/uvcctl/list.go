//go:build linux

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kevmo314/go-uvc-engine/pkg/transport/usbfs"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attached USB devices",
		Long:  "List attached USB devices. Only composite devices, which is where video functions live, are shown unless --all is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := usbfs.List()
			if err != nil {
				return err
			}
			printDevices(cmd.OutOrStdout(), devices, all)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every device")
	return cmd
}

func printDevices(w io.Writer, devices []usbfs.DeviceInfo, all bool) {
	shown := 0
	for _, dev := range devices {
		if !all && !dev.IsComposite() {
			continue
		}
		shown++
		path := dev.Path
		if path == "" {
			path = usbfs.DevicePath(dev.Bus, dev.Address)
		}
		id := fmt.Sprintf("%04x:%04x", dev.VendorID, dev.ProductID)
		if dev.IsComposite() {
			id = color.New(color.FgCyan).Sprint(id)
		}
		fmt.Fprintf(w, "%s  %s  usb %d.%02d  class %02x/%02x/%02x\n",
			path, id, dev.USBVersion>>8, dev.USBVersion&0xFF,
			dev.DeviceClass, dev.DeviceSubClass, dev.DeviceProtocol)
	}
	if shown == 0 {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("no devices found"))
	}
}
