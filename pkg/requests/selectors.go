package requests

// InterfaceControlSelector as defined in UVC spec 1.5, A.9.1
type InterfaceControlSelector uint8

const (
	InterfaceControlSelectorUndefined               InterfaceControlSelector = 0x00
	InterfaceControlSelectorVideoPowerModeControl   InterfaceControlSelector = 0x01
	InterfaceControlSelectorRequestErrorCodeControl InterfaceControlSelector = 0x02
)

type VideoStreamingInterfaceControlSelector uint8

const (
	VideoStreamingInterfaceControlSelectorUndefined                 VideoStreamingInterfaceControlSelector = 0x00
	VideoStreamingInterfaceControlSelectorProbeControl              VideoStreamingInterfaceControlSelector = 0x01
	VideoStreamingInterfaceControlSelectorCommitControl             VideoStreamingInterfaceControlSelector = 0x02
	VideoStreamingInterfaceControlSelectorStillProbeControl         VideoStreamingInterfaceControlSelector = 0x03
	VideoStreamingInterfaceControlSelectorStillCommitControl        VideoStreamingInterfaceControlSelector = 0x04
	VideoStreamingInterfaceControlSelectorStillImageTriggerControl  VideoStreamingInterfaceControlSelector = 0x05
	VideoStreamingInterfaceControlSelectorStreamErrorCodeControl    VideoStreamingInterfaceControlSelector = 0x06
	VideoStreamingInterfaceControlSelectorGenerateKeyFrameControl   VideoStreamingInterfaceControlSelector = 0x07
	VideoStreamingInterfaceControlSelectorUpdateFrameSegmentControl VideoStreamingInterfaceControlSelector = 0x08
	VideoStreamingInterfaceControlSelectorSynchDelayControl         VideoStreamingInterfaceControlSelector = 0x09
)

type SelectorUnitControlSelector uint8

const (
	SelectorUnitControlSelectorUndefined SelectorUnitControlSelector = 0x00
	SelectorUnitInputSelectControl       SelectorUnitControlSelector = 0x01
)

type EncodingUnitControlSelector uint8

const (
	EncodingUnitControlSelectorUndefined                 EncodingUnitControlSelector = 0x00
	EncodingUnitControlSelectorSelectLayerControl        EncodingUnitControlSelector = 0x01
	EncodingUnitControlSelectorProfileToolsetControl     EncodingUnitControlSelector = 0x02
	EncodingUnitControlSelectorVideoResolutionControl    EncodingUnitControlSelector = 0x03
	EncodingUnitControlSelectorMinFrameIntervalControl   EncodingUnitControlSelector = 0x04
	EncodingUnitControlSelectorSliceModeControl          EncodingUnitControlSelector = 0x05
	EncodingUnitControlSelectorRateControlModeControl    EncodingUnitControlSelector = 0x06
	EncodingUnitControlSelectorAverageBitrateControl     EncodingUnitControlSelector = 0x07
	EncodingUnitControlSelectorCPBSizeControl            EncodingUnitControlSelector = 0x08
	EncodingUnitControlSelectorPeakBitRateControl        EncodingUnitControlSelector = 0x09
	EncodingUnitControlSelectorQuantizationParamsControl EncodingUnitControlSelector = 0x0A
	EncodingUnitControlSelectorSyncRefFrameControl       EncodingUnitControlSelector = 0x0B
	EncodingUnitControlSelectorLTRBufferControl          EncodingUnitControlSelector = 0x0C
	EncodingUnitControlSelectorLTRPictureControl         EncodingUnitControlSelector = 0x0D
	EncodingUnitControlSelectorLTRValidationControl      EncodingUnitControlSelector = 0x0E
	EncodingUnitControlSelectorLevelIDCControl           EncodingUnitControlSelector = 0x0F
	EncodingUnitControlSelectorSEIPayloadTypeControl     EncodingUnitControlSelector = 0x10
	EncodingUnitControlSelectorQPRangeControl            EncodingUnitControlSelector = 0x11
	EncodingUnitControlSelectorPriorityControl           EncodingUnitControlSelector = 0x12
	EncodingUnitControlSelectorStartOrStopLayerControl   EncodingUnitControlSelector = 0x13
	EncodingUnitControlSelectorErrorResiliencyControl    EncodingUnitControlSelector = 0x14
)
