package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/router"
)

type decoder func(msg *protocol.Message, params router.Params) (Notification, error)

var consoleModes = map[int]ConsoleMode{
	0: ModeBlind,
	1: ModeLive,
}

var wheelCategories = map[int]WheelCategory{
	1: CategoryIntensity,
	2: CategoryFocus,
	3: CategoryColor,
	4: CategoryImage,
	5: CategoryForm,
	6: CategoryShutter,
}

var wheelModes = map[int]WheelMode{
	0: WheelCoarse,
	1: WheelFine,
}

// implicitOutput maps every address the console sends on its own to the
// notification it becomes.
var implicitOutput = []struct {
	pattern string
	decode  decoder
}{
	{"/eos/out/color/hs", decodeColorHueSat},
	{"/eos/out/pantilt", decodePanTilt},
	{"/eos/out/xyz", decodeXYZ},
	{"/eos/out/softkey/{softkey}", decodeSoftKey},

	// Command lines
	{"/eos/out/cmd", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		line, err := stringArg(msg, 0)
		return CommandLine{CommandLine: line}, err
	}},
	{"/eos/out/user/{userId}/cmd", func(msg *protocol.Message, params router.Params) (Notification, error) {
		user, err := intParam(params, "userId")
		if err != nil {
			return nil, err
		}

		line, err := stringArg(msg, 0)
		return UserCommandLine{UserID: user, CommandLine: line}, err
	}},

	// Settings
	{"/eos/out/switch", decodeWheelMode(true)},
	{"/eos/out/wheel", decodeWheelMode(false)},
	{"/eos/out/user", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		user, err := intArg(msg, 0)
		return UserChanged{UserID: user}, err
	}},

	// Active channels and parameters
	{"/eos/out/active/chan", decodeActiveChannels},
	{"/eos/out/active/wheel/{wheelNumber}", decodeActiveWheel},

	// Cues
	{"/eos/out/active/cue", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		percent, err := intArg(msg, 0)
		return ActiveCuePercent{PercentComplete: percent}, err
	}},
	{"/eos/out/active/cue/{cueList}/{cueNumber}", decodeCue(SlotActive)},
	{"/eos/out/active/cue/text", decodeCueText(SlotActive)},
	{"/eos/out/pending/cue", decodeNoCue(SlotPending)},
	{"/eos/out/pending/cue/{cueList}/{cueNumber}", decodeCue(SlotPending)},
	{"/eos/out/pending/cue/text", decodeCueText(SlotPending)},
	{"/eos/out/previous/cue", decodeNoCue(SlotPrevious)},
	{"/eos/out/previous/cue/{cueList}/{cueNumber}", decodeCue(SlotPrevious)},
	{"/eos/out/previous/cue/text", decodeCueText(SlotPrevious)},

	// Cue list banks
	{"/eos/cuelist/{cueListBank}/reset", func(_ *protocol.Message, params router.Params) (Notification, error) {
		bank, err := intParam(params, "cueListBank")
		return CueListBankReset{CueListBank: bank}, err
	}},
	{"/eos/out/cuelist/{cueListBank}", decodeCueListBank},
	{"/eos/out/cuelist/{cueListBank}/{cueIndex}", decodeCueListBankItem},

	// Fader banks
	{"/eos/fader/{faderBank}/{fader}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		bank, fader, err := faderParams(params)
		if err != nil {
			return nil, err
		}

		percent, err := floatArg(msg, 0)
		return FaderLevel{FaderBank: bank, Fader: fader, Percent: percent}, err
	}},
	{"/eos/out/fader/range/{faderBank}/{fader}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		bank, fader, err := faderParams(params)
		if err != nil {
			return nil, err
		}

		low, err := intArg(msg, 0)
		if err != nil {
			return nil, err
		}

		high, err := intArg(msg, 1)
		return FaderRange{FaderBank: bank, Fader: fader, Min: low, Max: high}, err
	}},
	{"/eos/out/fader/{faderBank}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		bank, err := intParam(params, "faderBank")
		if err != nil {
			return nil, err
		}

		label, err := stringArg(msg, 0)
		return FaderBankLabel{FaderBank: bank, Label: label}, err
	}},
	{"/eos/out/fader/{faderBank}/{fader}/name", func(msg *protocol.Message, params router.Params) (Notification, error) {
		bank, fader, err := faderParams(params)
		if err != nil {
			return nil, err
		}

		label, err := stringArg(msg, 0)
		return FaderLabel{FaderBank: bank, Fader: fader, Label: label}, err
	}},

	// Show control events
	{"/eos/out/event/cue/{cueList}/{cueNumber}/fire", func(msg *protocol.Message, params router.Params) (Notification, error) {
		cue, label, err := cueEvent(msg, params)
		return CueFired{Cue: cue, Label: label}, err
	}},
	{"/eos/out/event/cue/{cueList}/{cueNumber}/stop", func(msg *protocol.Message, params router.Params) (Notification, error) {
		cue, label, err := cueEvent(msg, params)
		return CueStopped{Cue: cue, Label: label}, err
	}},
	{"/eos/out/event/macro/{macroNumber}", func(_ *protocol.Message, params router.Params) (Notification, error) {
		macro, err := numberParam(params, "macroNumber")
		return MacroFired{Macro: macro}, err
	}},
	{"/eos/out/event/relay/{relayNumber}/{groupNumber}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		relay, err := intParam(params, "relayNumber")
		if err != nil {
			return nil, err
		}

		group, err := intParam(params, "groupNumber")
		if err != nil {
			return nil, err
		}

		active, err := flagArg(msg, 0)
		return RelayState{Relay: relay, Group: group, Active: active}, err
	}},
	{"/eos/out/event/sub/{subNumber}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		sub, err := numberParam(params, "subNumber")
		if err != nil {
			return nil, err
		}

		bump, err := flagArg(msg, 0)
		return SubBumped{Sub: sub, Bump: bump}, err
	}},

	// Show file
	{"/eos/out/show/name", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		name, err := stringArg(msg, 0)
		return ShowName{ShowName: name}, err
	}},
	{"/eos/out/event/show/loaded", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		path, err := stringArg(msg, 0)
		return ShowLoaded{FilePath: path}, err
	}},
	{"/eos/out/event/show/saved", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		path, err := stringArg(msg, 0)
		return ShowSaved{FilePath: path}, err
	}},
	{"/eos/out/event/show/cleared", func(_ *protocol.Message, _ router.Params) (Notification, error) {
		return ShowCleared{}, nil
	}},

	// Console
	{"/eos/out/event/locked", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		locked, err := flagArg(msg, 0)
		return Locked{Locked: locked}, err
	}},
	{"/eos/out/event/state", func(msg *protocol.Message, _ router.Params) (Notification, error) {
		state, err := intArg(msg, 0)
		if err != nil {
			return nil, err
		}

		mode, ok := consoleModes[state]
		if !ok {
			return nil, fmt.Errorf("console state %d: %w", state, ErrUnknownValue)
		}

		return ConsoleState{Mode: mode}, nil
	}},

	// Show data changes
	{"/eos/out/notify/cue/{cueList}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		list, err := numberParam(params, "cueList")
		if err != nil {
			return nil, err
		}

		numbers, err := changedTargets(msg)
		return RecordTargetChanged{TargetType: records.TypeCue, TargetNumbers: numbers, CueList: &list}, err
	}},
	{"/eos/out/notify/{targetType}", func(msg *protocol.Message, params router.Params) (Notification, error) {
		t, err := records.ParseTargetType(params["targetType"])
		if err != nil {
			return nil, err
		}

		numbers, err := changedTargets(msg)
		return RecordTargetChanged{TargetType: t, TargetNumbers: numbers}, err
	}},
}

func decodeColorHueSat(msg *protocol.Message, _ router.Params) (Notification, error) {
	if len(msg.Args) != 2 {
		return ColorHueSat{}, nil
	}

	values, err := floatArgs(msg, 2)
	if err != nil {
		return nil, err
	}

	return ColorHueSat{Color: &HueSat{Hue: values[0], Saturation: values[1]}}, nil
}

func decodePanTilt(msg *protocol.Message, _ router.Params) (Notification, error) {
	if len(msg.Args) != 6 {
		return FocusPanTilt{}, nil
	}

	v, err := floatArgs(msg, 6)
	if err != nil {
		return nil, err
	}

	return FocusPanTilt{Focus: &PanTilt{
		PanMin:  v[0],
		PanMax:  v[1],
		TiltMin: v[2],
		TiltMax: v[3],
		Pan:     v[4],
		Tilt:    v[5],
	}}, nil
}

func decodeXYZ(msg *protocol.Message, _ router.Params) (Notification, error) {
	if len(msg.Args) != 3 {
		return FocusXYZ{}, nil
	}

	v, err := floatArgs(msg, 3)
	if err != nil {
		return nil, err
	}

	return FocusXYZ{Focus: &XYZ{X: v[0], Y: v[1], Z: v[2]}}, nil
}

func decodeSoftKey(msg *protocol.Message, params router.Params) (Notification, error) {
	key, err := intParam(params, "softkey")
	if err != nil {
		return nil, err
	}

	label, err := stringArg(msg, 0)
	return SoftKey{Index: key - 1, Label: label}, err
}

func decodeWheelMode(isSwitch bool) decoder {
	return func(msg *protocol.Message, _ router.Params) (Notification, error) {
		v, err := intArg(msg, 0)
		if err != nil {
			return nil, err
		}

		mode, ok := wheelModes[v]
		if !ok {
			return nil, fmt.Errorf("wheel mode %d: %w", v, ErrUnknownValue)
		}

		return WheelModeChanged{Switch: isSwitch, Mode: mode}, nil
	}
}

// decodeActiveChannels reads the channel list from text such as
// "1-5,7 @ 50". Everything after the first space is the level.
func decodeActiveChannels(msg *protocol.Message, _ router.Params) (Notification, error) {
	text, err := stringArg(msg, 0)
	if err != nil {
		return nil, err
	}

	if i := strings.IndexByte(text, ' '); i >= 0 {
		text = text[:i]
	}

	channels := make([]protocol.TargetNumber, 0)

	for _, part := range strings.Split(text, ",") {
		if part == "" {
			continue
		}

		numbers, err := protocol.ParseTargetNumberRange(part)
		if err != nil {
			return nil, err
		}
		channels = append(channels, numbers...)
	}

	return ActiveChannels{Channels: channels}, nil
}

func decodeActiveWheel(msg *protocol.Message, params router.Params) (Notification, error) {
	number, err := intParam(params, "wheelNumber")
	if err != nil {
		return nil, err
	}

	out := ActiveWheel{Index: number - 1}

	category := 0
	if arg, ok := msg.Arg(1); ok {
		if category, err = arg.AsInt(); err != nil {
			return nil, err
		}
	}

	// Category 0 is an encoder without a parameter
	if category == 0 {
		return out, nil
	}

	parameter, err := stringArg(msg, 0)
	if err != nil {
		return nil, err
	}

	// Drop the current value the console appends in square brackets
	if i := strings.LastIndexByte(parameter, '['); i >= 0 {
		parameter = strings.TrimRight(parameter[:i], " ")
	}

	value, err := floatArg(msg, 2)
	if err != nil {
		return nil, err
	}

	out.Wheel = &Wheel{
		Category:  wheelCategories[category],
		Parameter: parameter,
		Value:     value,
	}

	return out, nil
}

func decodeCue(slot CueSlot) decoder {
	return func(_ *protocol.Message, params router.Params) (Notification, error) {
		cue, err := cueParams(params)
		if err != nil {
			return nil, err
		}

		return CueChanged{Slot: slot, Cue: &cue}, nil
	}
}

func decodeNoCue(slot CueSlot) decoder {
	return func(_ *protocol.Message, _ router.Params) (Notification, error) {
		return CueChanged{Slot: slot}, nil
	}
}

func decodeCueText(slot CueSlot) decoder {
	return func(msg *protocol.Message, _ router.Params) (Notification, error) {
		text, err := stringArg(msg, 0)
		return CueText{Slot: slot, Text: text}, err
	}
}

func decodeCueListBank(msg *protocol.Message, params router.Params) (Notification, error) {
	bank, err := intParam(params, "cueListBank")
	if err != nil {
		return nil, err
	}

	label, err := stringArg(msg, 0)
	if err != nil {
		return nil, err
	}

	count, err := intArg(msg, 1)
	return CueListBank{CueListBank: bank, ItemCount: count, Label: label}, err
}

func decodeCueListBankItem(msg *protocol.Message, params router.Params) (Notification, error) {
	bank, err := intParam(params, "cueListBank")
	if err != nil {
		return nil, err
	}

	index, err := intParam(params, "cueIndex")
	if err != nil {
		return nil, err
	}

	out := CueListBankItem{CueListBank: bank, ItemIndex: index}

	text, err := stringArg(msg, 0)
	if err != nil || text == "" {
		return out, err
	}

	entry := CueListBankEntry{}

	if entry.CueIdentifier, err = stringArg(msg, 1); err != nil {
		return nil, err
	}
	if entry.Label, err = stringArg(msg, 2); err != nil {
		return nil, err
	}
	if entry.Scene, err = stringArg(msg, 4); err != nil {
		return nil, err
	}
	if entry.SceneEnd, err = flagArg(msg, 5); err != nil {
		return nil, err
	}
	if entry.DurationMs, err = intArg(msg, 6); err != nil {
		return nil, err
	}

	arg, err := argAt(msg, 7)
	if err != nil {
		return nil, err
	}

	remaining, ok, err := arg.AsOptionalInt()
	if err != nil {
		return nil, err
	}
	if ok {
		entry.TimeRemainingMs = &remaining
	}

	out.Item = &entry

	return out, nil
}

func cueEvent(msg *protocol.Message, params router.Params) (CueIdentifier, string, error) {
	cue, err := cueParams(params)
	if err != nil {
		return CueIdentifier{}, "", err
	}

	label, err := stringArg(msg, 0)
	return cue, label, err
}

// changedTargets expands every argument after the first, the console sends
// the changed numbers and ranges there.
func changedTargets(msg *protocol.Message) ([]protocol.TargetNumber, error) {
	if len(msg.Args) < 2 {
		return []protocol.TargetNumber{}, nil
	}

	return protocol.ExpandTargetNumbers(msg.Args[1:], false)
}

func cueParams(params router.Params) (CueIdentifier, error) {
	list, err := numberParam(params, "cueList")
	if err != nil {
		return CueIdentifier{}, err
	}

	number, err := numberParam(params, "cueNumber")
	if err != nil {
		return CueIdentifier{}, err
	}

	return CueIdentifier{CueList: list, CueNumber: number}, nil
}

func faderParams(params router.Params) (bank, fader int, err error) {
	if bank, err = intParam(params, "faderBank"); err != nil {
		return 0, 0, err
	}

	fader, err = intParam(params, "fader")
	return bank, fader, err
}

func argAt(msg *protocol.Message, i int) (protocol.Argument, error) {
	arg, ok := msg.Arg(i)
	if !ok {
		return protocol.Argument{}, fmt.Errorf("argument %d of '%s': %w", i, msg.Address, records.ErrMissingArgument)
	}

	return arg, nil
}

func stringArg(msg *protocol.Message, i int) (string, error) {
	arg, err := argAt(msg, i)
	if err != nil {
		return "", err
	}

	return arg.AsString()
}

func intArg(msg *protocol.Message, i int) (int, error) {
	arg, err := argAt(msg, i)
	if err != nil {
		return 0, err
	}

	return arg.AsInt()
}

func floatArg(msg *protocol.Message, i int) (float64, error) {
	arg, err := argAt(msg, i)
	if err != nil {
		return 0, err
	}

	return arg.AsFloat()
}

func floatArgs(msg *protocol.Message, n int) ([]float64, error) {
	values := make([]float64, n)

	for i := range values {
		v, err := floatArg(msg, i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	return values, nil
}

// flagArg accepts booleans and integers, the console uses both for on/off.
func flagArg(msg *protocol.Message, i int) (bool, error) {
	arg, err := argAt(msg, i)
	if err != nil {
		return false, err
	}

	switch v := arg.Value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return arg.AsBool()
	}
}

func intParam(params router.Params, name string) (int, error) {
	v, err := strconv.Atoi(params[name])
	if err != nil {
		return 0, fmt.Errorf("{%s} is not an integer: %w", name, err)
	}

	return v, nil
}

func numberParam(params router.Params, name string) (protocol.TargetNumber, error) {
	return protocol.ParseTargetNumber(params[name])
}
