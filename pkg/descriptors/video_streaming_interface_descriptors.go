// This file implements the descriptors as defined in the UVC spec 1.5, section 3.9.
package descriptors

import (
	"encoding/binary"
)

type VideoStreamingInterfaceDescriptorSubtype byte

const (
	VideoStreamingInterfaceDescriptorSubtypeUndefined           VideoStreamingInterfaceDescriptorSubtype = 0x00
	VideoStreamingInterfaceDescriptorSubtypeInputHeader         VideoStreamingInterfaceDescriptorSubtype = 0x01
	VideoStreamingInterfaceDescriptorSubtypeOutputHeader        VideoStreamingInterfaceDescriptorSubtype = 0x02
	VideoStreamingInterfaceDescriptorSubtypeStillImageFrame     VideoStreamingInterfaceDescriptorSubtype = 0x03
	VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed  VideoStreamingInterfaceDescriptorSubtype = 0x04
	VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed   VideoStreamingInterfaceDescriptorSubtype = 0x05
	VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG         VideoStreamingInterfaceDescriptorSubtype = 0x06
	VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG          VideoStreamingInterfaceDescriptorSubtype = 0x07
	VideoStreamingInterfaceDescriptorSubtypeFormatMPEG2TS       VideoStreamingInterfaceDescriptorSubtype = 0x0A
	VideoStreamingInterfaceDescriptorSubtypeFormatDV            VideoStreamingInterfaceDescriptorSubtype = 0x0C
	VideoStreamingInterfaceDescriptorSubtypeColorFormat         VideoStreamingInterfaceDescriptorSubtype = 0x0D
	VideoStreamingInterfaceDescriptorSubtypeFormatFrameBased    VideoStreamingInterfaceDescriptorSubtype = 0x10
	VideoStreamingInterfaceDescriptorSubtypeFrameFrameBased     VideoStreamingInterfaceDescriptorSubtype = 0x11
	VideoStreamingInterfaceDescriptorSubtypeFormatStreamBased   VideoStreamingInterfaceDescriptorSubtype = 0x12
	VideoStreamingInterfaceDescriptorSubtypeFormatH264          VideoStreamingInterfaceDescriptorSubtype = 0x13
	VideoStreamingInterfaceDescriptorSubtypeFrameH264           VideoStreamingInterfaceDescriptorSubtype = 0x14
	VideoStreamingInterfaceDescriptorSubtypeFormatH264Simulcast VideoStreamingInterfaceDescriptorSubtype = 0x15
	VideoStreamingInterfaceDescriptorSubtypeFormatVP8           VideoStreamingInterfaceDescriptorSubtype = 0x16
	VideoStreamingInterfaceDescriptorSubtypeFrameVP8            VideoStreamingInterfaceDescriptorSubtype = 0x17
	VideoStreamingInterfaceDescriptorSubtypeFormatVP8Simulcast  VideoStreamingInterfaceDescriptorSubtype = 0x18
)

func (s VideoStreamingInterfaceDescriptorSubtype) isFormat() bool {
	switch s {
	case VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed,
		VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG,
		VideoStreamingInterfaceDescriptorSubtypeFormatMPEG2TS,
		VideoStreamingInterfaceDescriptorSubtypeFormatDV,
		VideoStreamingInterfaceDescriptorSubtypeFormatFrameBased,
		VideoStreamingInterfaceDescriptorSubtypeFormatStreamBased,
		VideoStreamingInterfaceDescriptorSubtypeFormatH264,
		VideoStreamingInterfaceDescriptorSubtypeFormatH264Simulcast,
		VideoStreamingInterfaceDescriptorSubtypeFormatVP8,
		VideoStreamingInterfaceDescriptorSubtypeFormatVP8Simulcast:
		return true
	}
	return false
}

func (s VideoStreamingInterfaceDescriptorSubtype) isFrame() bool {
	switch s {
	case VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed,
		VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG,
		VideoStreamingInterfaceDescriptorSubtypeFrameFrameBased,
		VideoStreamingInterfaceDescriptorSubtypeFrameH264,
		VideoStreamingInterfaceDescriptorSubtypeFrameVP8:
		return true
	}
	return false
}

// InputHeaderDescriptor as defined in UVC spec 1.5, 3.9.2.1
type InputHeaderDescriptor struct {
	NumFormats         uint8
	TotalLength        uint16
	EndpointAddress    uint8
	InfoBitmask        uint8
	TerminalLink       uint8
	StillCaptureMethod uint8
	TriggerSupport     uint8
	TriggerUsage       uint8
	ControlBitmasks    [][]byte
}

func (ihd *InputHeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 13); err != nil {
		return err
	}
	if VideoStreamingInterfaceDescriptorSubtype(buf[2]) != VideoStreamingInterfaceDescriptorSubtypeInputHeader {
		return ErrInvalidDescriptor
	}
	p := int(buf[3])
	n := int(buf[12])
	if err := need(buf, 13+p*n); err != nil {
		return err
	}
	ihd.NumFormats = buf[3]
	ihd.TotalLength = binary.LittleEndian.Uint16(buf[4:6])
	ihd.EndpointAddress = buf[6]
	ihd.InfoBitmask = buf[7]
	ihd.TerminalLink = buf[8]
	ihd.StillCaptureMethod = buf[9]
	ihd.TriggerSupport = buf[10]
	ihd.TriggerUsage = buf[11]
	ihd.ControlBitmasks = make([][]byte, p)
	for i := 0; i < p; i++ {
		ihd.ControlBitmasks[i] = append([]byte(nil), buf[13+i*n:13+(i+1)*n]...)
	}
	return nil
}

// DynamicFormatChangeSupported reports bmInfo bit 0.
func (ihd *InputHeaderDescriptor) DynamicFormatChangeSupported() bool {
	return ihd.InfoBitmask&0x01 != 0
}

// OutputHeaderDescriptor as defined in UVC spec 1.5, 3.9.2.2
type OutputHeaderDescriptor struct {
	NumFormats      uint8
	TotalLength     uint16
	EndpointAddress uint8
	TerminalLink    uint8
	ControlBitmasks [][]byte
}

func (ohd *OutputHeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 9); err != nil {
		return err
	}
	if VideoStreamingInterfaceDescriptorSubtype(buf[2]) != VideoStreamingInterfaceDescriptorSubtypeOutputHeader {
		return ErrInvalidDescriptor
	}
	p := int(buf[3])
	n := int(buf[8])
	if err := need(buf, 9+p*n); err != nil {
		return err
	}
	ohd.NumFormats = buf[3]
	ohd.TotalLength = binary.LittleEndian.Uint16(buf[4:6])
	ohd.EndpointAddress = buf[6]
	ohd.TerminalLink = buf[7]
	ohd.ControlBitmasks = make([][]byte, p)
	for i := 0; i < p; i++ {
		ohd.ControlBitmasks[i] = append([]byte(nil), buf[9+i*n:9+(i+1)*n]...)
	}
	return nil
}

type ImageSize struct {
	Width, Height uint16
}

// StillImageFrameDescriptor as defined in UVC spec 1.5, 3.9.2.5
type StillImageFrameDescriptor struct {
	EndpointAddress     uint8
	ImageSizePatterns   []ImageSize
	CompressionPatterns []uint8
}

func (sifd *StillImageFrameDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 6); err != nil {
		return err
	}
	if VideoStreamingInterfaceDescriptorSubtype(buf[2]) != VideoStreamingInterfaceDescriptorSubtypeStillImageFrame {
		return ErrInvalidDescriptor
	}
	sifd.EndpointAddress = buf[3]
	n := int(buf[4])
	if err := need(buf, 6+4*n); err != nil {
		return err
	}
	sifd.ImageSizePatterns = make([]ImageSize, n)
	for i := 0; i < n; i++ {
		sifd.ImageSizePatterns[i].Width = binary.LittleEndian.Uint16(buf[5+4*i : 7+4*i])
		sifd.ImageSizePatterns[i].Height = binary.LittleEndian.Uint16(buf[7+4*i : 9+4*i])
	}
	m := int(buf[5+4*n])
	if err := need(buf, 6+4*n+m); err != nil {
		return err
	}
	sifd.CompressionPatterns = append([]byte(nil), buf[6+4*n:6+4*n+m]...)
	return nil
}

// ColorMatchingDescriptor as defined in UVC spec 1.5, 3.9.2.6
type ColorMatchingDescriptor struct {
	ColorPrimaries          uint8
	TransferCharacteristics uint8
	MatrixCoefficients      uint8
}

func (cmd *ColorMatchingDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 6); err != nil {
		return err
	}
	if VideoStreamingInterfaceDescriptorSubtype(buf[2]) != VideoStreamingInterfaceDescriptorSubtypeColorFormat {
		return ErrInvalidDescriptor
	}
	cmd.ColorPrimaries = buf[3]
	cmd.TransferCharacteristics = buf[4]
	cmd.MatrixCoefficients = buf[5]
	return nil
}
