package descriptors

type CameraTerminalControlSelector int

const (
	CameraTerminalControlSelectorUndefined                   CameraTerminalControlSelector = 0x00
	CameraTerminalControlSelectorScanningModeControl         CameraTerminalControlSelector = 0x01
	CameraTerminalControlSelectorAutoExposureModeControl     CameraTerminalControlSelector = 0x02
	CameraTerminalControlSelectorAutoExposurePriorityControl CameraTerminalControlSelector = 0x03
	CameraTerminalControlSelectorExposureTimeAbsoluteControl CameraTerminalControlSelector = 0x04
	CameraTerminalControlSelectorExposureTimeRelativeControl CameraTerminalControlSelector = 0x05
	CameraTerminalControlSelectorFocusAbsoluteControl        CameraTerminalControlSelector = 0x06
	CameraTerminalControlSelectorFocusRelativeControl        CameraTerminalControlSelector = 0x07
	CameraTerminalControlSelectorFocusAutoControl            CameraTerminalControlSelector = 0x08
	CameraTerminalControlSelectorIrisAbsoluteControl         CameraTerminalControlSelector = 0x09
	CameraTerminalControlSelectorIrisRelativeControl         CameraTerminalControlSelector = 0x0A
	CameraTerminalControlSelectorZoomAbsoluteControl         CameraTerminalControlSelector = 0x0B
	CameraTerminalControlSelectorZoomRelativeControl         CameraTerminalControlSelector = 0x0C
	CameraTerminalControlSelectorPanTiltAbsoluteControl      CameraTerminalControlSelector = 0x0D
	CameraTerminalControlSelectorPanTiltRelativeControl      CameraTerminalControlSelector = 0x0E
	CameraTerminalControlSelectorRollAbsoluteControl         CameraTerminalControlSelector = 0x0F
	CameraTerminalControlSelectorRollRelativeControl         CameraTerminalControlSelector = 0x10
	CameraTerminalControlSelectorPrivacyControl              CameraTerminalControlSelector = 0x11
	CameraTerminalControlSelectorFocusSimpleControl          CameraTerminalControlSelector = 0x12
	CameraTerminalControlSelectorWindowControl               CameraTerminalControlSelector = 0x13
	CameraTerminalControlSelectorRegionOfInterestControl     CameraTerminalControlSelector = 0x14
)

type ProcessingUnitControlSelector int

const (
	ProcessingUnitControlSelectorUndefined           ProcessingUnitControlSelector = 0x00
	ProcessingUnitBacklightCompensationControl       ProcessingUnitControlSelector = 0x01
	ProcessingUnitBrightnessControl                  ProcessingUnitControlSelector = 0x02
	ProcessingUnitContrastControl                    ProcessingUnitControlSelector = 0x03
	ProcessingUnitGainControl                        ProcessingUnitControlSelector = 0x04
	ProcessingUnitPowerLineFrequencyControl          ProcessingUnitControlSelector = 0x05
	ProcessingUnitHueControl                         ProcessingUnitControlSelector = 0x06
	ProcessingUnitSaturationControl                  ProcessingUnitControlSelector = 0x07
	ProcessingUnitSharpnessControl                   ProcessingUnitControlSelector = 0x08
	ProcessingUnitGammaControl                       ProcessingUnitControlSelector = 0x09
	ProcessingUnitWhiteBalanceTemperatureControl     ProcessingUnitControlSelector = 0x0A
	ProcessingUnitWhiteBalanceTemperatureAutoControl ProcessingUnitControlSelector = 0x0B
	ProcessingUnitWhiteBalanceComponentControl       ProcessingUnitControlSelector = 0x0C
	ProcessingUnitWhiteBalanceComponentAutoControl   ProcessingUnitControlSelector = 0x0D
	ProcessingUnitDigitalMultiplierControl           ProcessingUnitControlSelector = 0x0E
	ProcessingUnitDigitalMultiplierLimitControl      ProcessingUnitControlSelector = 0x0F
	ProcessingUnitHueAutoControl                     ProcessingUnitControlSelector = 0x10
	ProcessingUnitAnalogVideoStandardControl         ProcessingUnitControlSelector = 0x11
	ProcessingUnitAnalogVideoLockStatusControl       ProcessingUnitControlSelector = 0x12
	ProcessingUnitContrastAutoControl                ProcessingUnitControlSelector = 0x13
)

type AutoExposureMode int

const (
	AutoExposureModeManual           AutoExposureMode = 1
	AutoExposureModeAuto             AutoExposureMode = 2
	AutoExposureModeShutterPriority  AutoExposureMode = 4
	AutoExposureModeAperturePriority AutoExposureMode = 8
)

// ControlDefinition describes one terminal or unit control: its selector, the bmControls bit
// that advertises it and the length of its GET_CUR/SET_CUR data.
type ControlDefinition struct {
	Name     string
	Selector uint8
	// FeatureBit indicates the position of the control on the controls bitmap.
	FeatureBit int
	Size       int
	Signed     bool
}

// Supported reports whether the control's bit is set in a unit's bmControls.
func (cd ControlDefinition) Supported(bitmask uint32) bool {
	return bitmask&(1<<uint(cd.FeatureBit)) != 0
}

// CameraTerminalControls as defined in UVC spec 1.5, 3.7.2.3 and 4.2.2.1
var CameraTerminalControls = []ControlDefinition{
	{"scanning_mode", uint8(CameraTerminalControlSelectorScanningModeControl), 0, 1, false},
	{"auto_exposure_mode", uint8(CameraTerminalControlSelectorAutoExposureModeControl), 1, 1, false},
	{"auto_exposure_priority", uint8(CameraTerminalControlSelectorAutoExposurePriorityControl), 2, 1, false},
	{"exposure_time_absolute", uint8(CameraTerminalControlSelectorExposureTimeAbsoluteControl), 3, 4, false},
	{"exposure_time_relative", uint8(CameraTerminalControlSelectorExposureTimeRelativeControl), 4, 1, true},
	{"focus_absolute", uint8(CameraTerminalControlSelectorFocusAbsoluteControl), 5, 2, false},
	{"focus_relative", uint8(CameraTerminalControlSelectorFocusRelativeControl), 6, 2, false},
	{"iris_absolute", uint8(CameraTerminalControlSelectorIrisAbsoluteControl), 7, 2, false},
	{"iris_relative", uint8(CameraTerminalControlSelectorIrisRelativeControl), 8, 1, true},
	{"zoom_absolute", uint8(CameraTerminalControlSelectorZoomAbsoluteControl), 9, 2, false},
	{"zoom_relative", uint8(CameraTerminalControlSelectorZoomRelativeControl), 10, 3, false},
	{"pan_tilt_absolute", uint8(CameraTerminalControlSelectorPanTiltAbsoluteControl), 11, 8, false},
	{"pan_tilt_relative", uint8(CameraTerminalControlSelectorPanTiltRelativeControl), 12, 4, false},
	{"roll_absolute", uint8(CameraTerminalControlSelectorRollAbsoluteControl), 13, 2, true},
	{"roll_relative", uint8(CameraTerminalControlSelectorRollRelativeControl), 14, 2, false},
	{"focus_auto", uint8(CameraTerminalControlSelectorFocusAutoControl), 17, 1, false},
	{"privacy", uint8(CameraTerminalControlSelectorPrivacyControl), 18, 1, false},
	{"focus_simple", uint8(CameraTerminalControlSelectorFocusSimpleControl), 19, 1, false},
	{"window", uint8(CameraTerminalControlSelectorWindowControl), 20, 12, false},
	{"region_of_interest", uint8(CameraTerminalControlSelectorRegionOfInterestControl), 21, 10, false},
}

// ProcessingUnitControls as defined in UVC spec 1.5, 3.7.2.5 and 4.2.2.3
var ProcessingUnitControls = []ControlDefinition{
	{"brightness", uint8(ProcessingUnitBrightnessControl), 0, 2, true},
	{"contrast", uint8(ProcessingUnitContrastControl), 1, 2, false},
	{"hue", uint8(ProcessingUnitHueControl), 2, 2, true},
	{"saturation", uint8(ProcessingUnitSaturationControl), 3, 2, false},
	{"sharpness", uint8(ProcessingUnitSharpnessControl), 4, 2, false},
	{"gamma", uint8(ProcessingUnitGammaControl), 5, 2, false},
	{"white_balance_temperature", uint8(ProcessingUnitWhiteBalanceTemperatureControl), 6, 2, false},
	{"white_balance_component", uint8(ProcessingUnitWhiteBalanceComponentControl), 7, 4, false},
	{"backlight_compensation", uint8(ProcessingUnitBacklightCompensationControl), 8, 2, false},
	{"gain", uint8(ProcessingUnitGainControl), 9, 2, false},
	{"power_line_frequency", uint8(ProcessingUnitPowerLineFrequencyControl), 10, 1, false},
	{"hue_auto", uint8(ProcessingUnitHueAutoControl), 11, 1, false},
	{"white_balance_temperature_auto", uint8(ProcessingUnitWhiteBalanceTemperatureAutoControl), 12, 1, false},
	{"white_balance_component_auto", uint8(ProcessingUnitWhiteBalanceComponentAutoControl), 13, 1, false},
	{"digital_multiplier", uint8(ProcessingUnitDigitalMultiplierControl), 14, 2, false},
	{"digital_multiplier_limit", uint8(ProcessingUnitDigitalMultiplierLimitControl), 15, 2, false},
	{"analog_video_standard", uint8(ProcessingUnitAnalogVideoStandardControl), 16, 1, false},
	{"analog_video_lock_status", uint8(ProcessingUnitAnalogVideoLockStatusControl), 17, 1, false},
	{"contrast_auto", uint8(ProcessingUnitContrastAutoControl), 18, 1, false},
}
