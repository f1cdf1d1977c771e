//go:build linux

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	uvc "github.com/kevmo314/go-uvc-engine"
	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/formats"
)

type summary struct {
	UVC       string             `yaml:"uvc"`
	Control   controlSummary     `yaml:"control"`
	Streaming []streamingSummary `yaml:"streaming"`
}

type controlSummary struct {
	Interface uint8         `yaml:"interface"`
	Units     []unitSummary `yaml:"units"`
	Controls  []string      `yaml:"controls,omitempty"`
}

type unitSummary struct {
	ID      uint8  `yaml:"id"`
	Kind    string `yaml:"kind"`
	Sources []int  `yaml:"sources,flow,omitempty"`
}

type streamingSummary struct {
	Interface   uint8           `yaml:"interface"`
	Endpoint    string          `yaml:"endpoint,omitempty"`
	AltSettings []altSummary    `yaml:"alt_settings"`
	Formats     []formatSummary `yaml:"formats"`
}

type altSummary struct {
	Alt        uint8  `yaml:"alt"`
	PacketSize uint32 `yaml:"packet_size"`
}

type formatSummary struct {
	Index  uint8          `yaml:"index"`
	Name   string         `yaml:"name"`
	Frames []frameSummary `yaml:"frames"`
}

type frameSummary struct {
	Index     uint8    `yaml:"index"`
	Size      string   `yaml:"size"`
	Default   string   `yaml:"default_interval"`
	Intervals []string `yaml:"intervals,flow"`
}

func unitKind(u descriptors.Unit) string {
	switch u := u.(type) {
	case *descriptors.CameraTerminal:
		return "camera terminal"
	case *descriptors.InputTerminal:
		return "input terminal"
	case *descriptors.OutputTerminal:
		return "output terminal"
	case *descriptors.SelectorUnit:
		return "selector unit"
	case *descriptors.ProcessingUnit:
		return "processing unit"
	case *descriptors.EncodingUnit:
		return "encoding unit"
	case *descriptors.ExtensionUnit:
		return "extension unit " + u.GUIDExtensionCode.String()
	}
	return fmt.Sprintf("%T", u)
}

func summarize(info *uvc.DeviceInfo, controls []uvc.Control) *summary {
	s := &summary{
		UVC:     info.UVCVersion,
		Control: controlSummary{Interface: info.Control.Number()},
	}
	for _, u := range info.Control.Graph().Topological() {
		us := unitSummary{ID: u.ID(), Kind: unitKind(u)}
		for _, src := range u.Sources() {
			us.Sources = append(us.Sources, int(src))
		}
		s.Control.Units = append(s.Control.Units, us)
	}
	for _, c := range controls {
		s.Control.Controls = append(s.Control.Controls, c.String())
	}
	for _, si := range info.Streaming {
		ss := streamingSummary{Interface: si.Number()}
		addr, ok := si.EndpointAddress()
		if ok {
			ss.Endpoint = fmt.Sprintf("0x%02x", addr)
		}
		for _, as := range si.AlternateSettings {
			alt := altSummary{Alt: as.AlternateSetting}
			if ep := as.EndpointByAddress(addr); ok && ep != nil {
				alt.PacketSize = ep.EffectiveMaxPacketSize()
			}
			ss.AltSettings = append(ss.AltSettings, alt)
		}
		for _, vf := range si.Formats {
			fs := formatSummary{Index: vf.Index, Name: formats.Name(vf)}
			for _, fr := range vf.Frames {
				frs := frameSummary{
					Index:   fr.Index,
					Size:    fmt.Sprintf("%dx%d", fr.Width, fr.Height),
					Default: fr.DefaultFrameInterval.String(),
				}
				for _, iv := range fr.Intervals() {
					frs.Intervals = append(frs.Intervals, iv.String())
				}
				fs.Frames = append(fs.Frames, frs)
			}
			ss.Formats = append(ss.Formats, fs)
		}
		s.Streaming = append(s.Streaming, ss)
	}
	return s
}

// printSummary writes the human readable tree used by dump and by inspect when stdout is not
// a terminal.
func printSummary(w io.Writer, s *summary) {
	heading := color.New(color.Bold)
	faint := color.New(color.Faint)

	heading.Fprintf(w, "UVC %s\n", s.UVC)
	fmt.Fprintf(w, "control interface %d\n", s.Control.Interface)
	for _, u := range s.Control.Units {
		fmt.Fprintf(w, "  unit %d: %s", u.ID, u.Kind)
		if len(u.Sources) > 0 {
			faint.Fprintf(w, " <- %v", u.Sources)
		}
		fmt.Fprintln(w)
	}
	if len(s.Control.Controls) > 0 {
		fmt.Fprintf(w, "  controls: %s\n", strings.Join(s.Control.Controls, ", "))
	}
	for _, ss := range s.Streaming {
		heading.Fprintf(w, "streaming interface %d", ss.Interface)
		if ss.Endpoint != "" {
			fmt.Fprintf(w, " (endpoint %s)", ss.Endpoint)
		}
		fmt.Fprintln(w)
		for _, alt := range ss.AltSettings {
			faint.Fprintf(w, "  alt %d: %d bytes/interval\n", alt.Alt, alt.PacketSize)
		}
		for _, fs := range ss.Formats {
			color.New(color.FgCyan).Fprintf(w, "  format %d: %s\n", fs.Index, fs.Name)
			for _, fr := range fs.Frames {
				fmt.Fprintf(w, "    frame %d: %s @ %s [%s]\n", fr.Index, fr.Size, fr.Default, strings.Join(fr.Intervals, " "))
			}
		}
	}
}
