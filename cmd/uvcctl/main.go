//go:build linux

// Command uvcctl inspects, configures and relays UVC cameras attached through usbfs.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	uvc "github.com/kevmo314/go-uvc-engine"
)

type globalOptions struct {
	configPath string
	devicePath string

	v   *viper.Viper
	cfg *uvc.Config
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{v: uvc.NewViper()}

	cmd := &cobra.Command{
		Use:           "uvcctl",
		Short:         "Inspect and stream from UVC cameras",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := uvc.ReadConfig(opts.v, opts.configPath)
			if err != nil {
				return err
			}
			log, err := uvc.NewLogger(cfg)
			if err != nil {
				return err
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: search ., $XDG_CONFIG_HOME/uvc, /etc/uvc)")
	flags.StringVarP(&opts.devicePath, "device", "d", "", "usbfs node of the camera, e.g. /dev/bus/usb/001/004")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")
	flags.Duration("timeout", 0, "control transfer timeout")
	opts.v.BindPFlag("log.level", flags.Lookup("log-level"))
	opts.v.BindPFlag("log.format", flags.Lookup("log-format"))
	opts.v.BindPFlag("negotiation.timeout", flags.Lookup("timeout"))

	cmd.AddCommand(
		newListCommand(opts),
		newDumpCommand(opts),
		newInspectCommand(opts),
		newProbeCommand(opts),
		newCtrlCommand(opts),
		newServeCommand(opts),
	)
	return cmd
}

// open opens the device named by --device with the loaded configuration.
func (o *globalOptions) open() (*uvc.Device, error) {
	if o.devicePath == "" {
		return nil, errors.New("--device is required")
	}
	d, err := uvc.OpenPath(o.devicePath, uvc.WithLogger(o.log), uvc.WithConfig(o.cfg))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", o.devicePath)
	}
	return d, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
