package client

import (
	"github.com/tidwall/sjson"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
)

// Notification is something the console told us without being asked. The
// concrete types below are the only implementations.
type Notification interface {
	notification()
}

// CueIdentifier names a cue within its cue list.
type CueIdentifier struct {
	CueList   protocol.TargetNumber `json:"cueList"`
	CueNumber protocol.TargetNumber `json:"cueNumber"`
}

type CueSlot string

const (
	SlotActive   CueSlot = "active"
	SlotPending  CueSlot = "pending"
	SlotPrevious CueSlot = "previous"
)

type ConsoleMode string

const (
	ModeBlind ConsoleMode = "blind"
	ModeLive  ConsoleMode = "live"
)

type WheelMode string

const (
	WheelCoarse WheelMode = "coarse"
	WheelFine   WheelMode = "fine"
)

type WheelCategory string

const (
	CategoryIntensity WheelCategory = "intensity"
	CategoryFocus     WheelCategory = "focus"
	CategoryColor     WheelCategory = "color"
	CategoryImage     WheelCategory = "image"
	CategoryForm      WheelCategory = "form"
	CategoryShutter   WheelCategory = "shutter"
)

type ConnectionStateChanged struct {
	State ConnectionState `json:"state"`
}

type CommandLine struct {
	CommandLine string `json:"commandLine"`
}

type UserCommandLine struct {
	UserID      int    `json:"userId"`
	CommandLine string `json:"commandLine"`
}

type UserChanged struct {
	UserID int `json:"userId"`
}

type ShowName struct {
	ShowName string `json:"showName"`
}

// CueChanged reports the active, pending or previous cue. Cue is nil when
// there is no pending or previous cue.
type CueChanged struct {
	Slot CueSlot        `json:"slot"`
	Cue  *CueIdentifier `json:"cue"`
}

type CueText struct {
	Slot CueSlot `json:"slot"`
	Text string  `json:"text"`
}

type ActiveCuePercent struct {
	PercentComplete int `json:"percentComplete"`
}

type SoftKey struct {
	// Index is 0 based
	Index int    `json:"index"`
	Label string `json:"label"`
}

type ConsoleState struct {
	Mode ConsoleMode `json:"mode"`
}

type Locked struct {
	Locked bool `json:"locked"`
}

type HueSat struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
}

// ColorHueSat is nil Color when the selection has no color parameters.
type ColorHueSat struct {
	Color *HueSat `json:"color"`
}

type PanTilt struct {
	PanMin  float64 `json:"panMin"`
	PanMax  float64 `json:"panMax"`
	TiltMin float64 `json:"tiltMin"`
	TiltMax float64 `json:"tiltMax"`
	Pan     float64 `json:"pan"`
	Tilt    float64 `json:"tilt"`
}

type FocusPanTilt struct {
	Focus *PanTilt `json:"focus"`
}

type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type FocusXYZ struct {
	Focus *XYZ `json:"focus"`
}

type Wheel struct {
	Category  WheelCategory `json:"category"`
	Parameter string        `json:"parameter"`
	Value     float64       `json:"value"`
}

// ActiveWheel is nil Wheel when the encoder has no parameter.
type ActiveWheel struct {
	Index int    `json:"index"`
	Wheel *Wheel `json:"wheel"`
}

type ActiveChannels struct {
	Channels []protocol.TargetNumber `json:"channels"`
}

// WheelModeChanged reports the mode of the encoder wheels, or with Switch
// set, of the switch.
type WheelModeChanged struct {
	Switch bool      `json:"switch"`
	Mode   WheelMode `json:"mode"`
}

type ShowLoaded struct {
	FilePath string `json:"filePath"`
}

type ShowSaved struct {
	FilePath string `json:"filePath"`
}

type ShowCleared struct{}

type CueFired struct {
	Cue   CueIdentifier `json:"cue"`
	Label string        `json:"label"`
}

type CueStopped struct {
	Cue   CueIdentifier `json:"cue"`
	Label string        `json:"label"`
}

type MacroFired struct {
	Macro protocol.TargetNumber `json:"macro"`
}

type SubBumped struct {
	Sub  protocol.TargetNumber `json:"sub"`
	Bump bool                  `json:"bump"`
}

type RelayState struct {
	Relay  int  `json:"relay"`
	Group  int  `json:"group"`
	Active bool `json:"active"`
}

type FaderBankLabel struct {
	FaderBank int    `json:"faderBank"`
	Label     string `json:"label"`
}

type FaderLabel struct {
	FaderBank int    `json:"faderBank"`
	Fader     int    `json:"fader"`
	Label     string `json:"label"`
}

type FaderRange struct {
	FaderBank int `json:"faderBank"`
	Fader     int `json:"fader"`
	Min       int `json:"min"`
	Max       int `json:"max"`
}

type FaderLevel struct {
	FaderBank int     `json:"faderBank"`
	Fader     int     `json:"fader"`
	Percent   float64 `json:"percent"`
}

type CueListBank struct {
	CueListBank int    `json:"cueListBank"`
	ItemCount   int    `json:"itemCount"`
	Label       string `json:"label"`
}

type CueListBankEntry struct {
	CueIdentifier string `json:"cueIdentifier"`
	Label         string `json:"label"`
	Scene         string `json:"scene"`
	SceneEnd      bool   `json:"sceneEnd"`
	DurationMs    int    `json:"durationMs"`
	// TimeRemainingMs is nil unless the cue is running
	TimeRemainingMs *int `json:"timeRemainingMs"`
}

// CueListBankItem is nil Item for an empty row.
type CueListBankItem struct {
	CueListBank int               `json:"cueListBank"`
	ItemIndex   int               `json:"itemIndex"`
	Item        *CueListBankEntry `json:"item"`
}

type CueListBankReset struct {
	CueListBank int `json:"cueListBank"`
}

// RecordTargetChanged reports record targets that were created, changed or
// deleted. CueList is set for cues.
type RecordTargetChanged struct {
	TargetType    records.TargetType      `json:"targetType"`
	TargetNumbers []protocol.TargetNumber `json:"targetNumbers"`
	CueList       *protocol.TargetNumber  `json:"cueList,omitempty"`
}

// RawMessage carries a message outside the /eos/ namespace.
type RawMessage struct {
	Message *protocol.Message `json:"message"`
}

func (ConnectionStateChanged) notification() {}
func (CommandLine) notification()            {}
func (UserCommandLine) notification()        {}
func (UserChanged) notification()            {}
func (ShowName) notification()               {}
func (CueChanged) notification()             {}
func (CueText) notification()                {}
func (ActiveCuePercent) notification()       {}
func (SoftKey) notification()                {}
func (ConsoleState) notification()           {}
func (Locked) notification()                 {}
func (ColorHueSat) notification()            {}
func (FocusPanTilt) notification()           {}
func (FocusXYZ) notification()               {}
func (ActiveWheel) notification()            {}
func (ActiveChannels) notification()         {}
func (WheelModeChanged) notification()       {}
func (ShowLoaded) notification()             {}
func (ShowSaved) notification()              {}
func (ShowCleared) notification()            {}
func (CueFired) notification()               {}
func (CueStopped) notification()             {}
func (MacroFired) notification()             {}
func (SubBumped) notification()              {}
func (RelayState) notification()             {}
func (FaderBankLabel) notification()         {}
func (FaderLabel) notification()             {}
func (FaderRange) notification()             {}
func (FaderLevel) notification()             {}
func (CueListBank) notification()            {}
func (CueListBankItem) notification()        {}
func (CueListBankReset) notification()       {}
func (RecordTargetChanged) notification()    {}
func (RawMessage) notification()             {}

// EventName returns a stable name for the kind of n, used as the event field
// of serialised notifications and as a metrics label.
func EventName(n Notification) string {
	switch v := n.(type) {
	case ConnectionStateChanged:
		return "connection-state"
	case CommandLine:
		return "cmd"
	case UserCommandLine:
		return "user-cmd"
	case UserChanged:
		return "user"
	case ShowName:
		return "show-name"
	case CueChanged:
		return string(v.Slot) + "-cue"
	case CueText:
		return string(v.Slot) + "-cue-text"
	case ActiveCuePercent:
		return "active-cue-percent"
	case SoftKey:
		return "soft-key"
	case ConsoleState:
		return "state"
	case Locked:
		return "locked"
	case ColorHueSat:
		return "color-hs"
	case FocusPanTilt:
		return "focus-pan-tilt"
	case FocusXYZ:
		return "focus-xyz"
	case ActiveWheel:
		return "active-wheel"
	case ActiveChannels:
		return "active-channel"
	case WheelModeChanged:
		if v.Switch {
			return "switch-mode"
		}
		return "wheel-mode"
	case ShowLoaded:
		return "show-loaded"
	case ShowSaved:
		return "show-saved"
	case ShowCleared:
		return "show-cleared"
	case CueFired:
		return "cue-fired"
	case CueStopped:
		return "cue-stopped"
	case MacroFired:
		return "macro-fired"
	case SubBumped:
		return "sub-bumped"
	case RelayState:
		return "relay-state"
	case FaderBankLabel:
		return "fader-bank-label"
	case FaderLabel:
		return "fader-label"
	case FaderRange:
		return "fader-range"
	case FaderLevel:
		return "fader-level"
	case CueListBank:
		return "cue-list-bank"
	case CueListBankItem:
		return "cue-list-bank-item"
	case CueListBankReset:
		return "cue-list-bank-reset"
	case RecordTargetChanged:
		return "record-target-change"
	case RawMessage:
		return "osc"
	default:
		return "unknown"
	}
}

// MarshalNotification renders n as {"event": EventName(n), "data": n}.
func MarshalNotification(n Notification) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "event", EventName(n))
	if err != nil {
		return nil, err
	}

	return sjson.SetBytes(out, "data", n)
}
