package fakeconsole

import (
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
)

// Record is one scripted record target.
type Record struct {
	Type   records.TargetType
	Number protocol.TargetNumber

	// CueList is the list a cue belongs to
	CueList protocol.TargetNumber

	// Part is the cue part, or the patch part starting at 1
	Part int

	UID   string
	Label string

	// Args follow the label in the first response
	Args []interface{}

	// Extra are the further responses of a lookup
	Extra []Response
}

// Response is an extra response of a lookup. Suffix is appended to the
// record's address and Args follow the UID.
type Response struct {
	Suffix string
	Args   []interface{}
}

func Group(n protocol.TargetNumber, uid, label string, channels ...interface{}) Record {
	return Record{
		Type:   records.TypeGroup,
		Number: n,
		UID:    uid,
		Label:  label,
		Extra:  []Response{{Suffix: "/channels", Args: channels}},
	}
}

func Macro(n protocol.TargetNumber, uid, label, command string) Record {
	return Record{
		Type:   records.TypeMacro,
		Number: n,
		UID:    uid,
		Label:  label,
		Args:   []interface{}{"0"},
		Extra:  []Response{{Suffix: "/text", Args: []interface{}{command}}},
	}
}

func Snapshot(n protocol.TargetNumber, uid, label string) Record {
	return Record{Type: records.TypeSnapshot, Number: n, UID: uid, Label: label}
}

func CueList(n protocol.TargetNumber, uid, label string) Record {
	return Record{
		Type:   records.TypeCueList,
		Number: n,
		UID:    uid,
		Label:  label,
		Args:   []interface{}{"", "", false, false, false, false, false, false, -1, false},
		Extra:  []Response{{Suffix: "/links"}},
	}
}

// Cue scripts part 0 of a cue with an up time and nothing else set.
func Cue(list, n protocol.TargetNumber, uid, label string, upTimeMs int) Record {
	return Record{
		Type:    records.TypeCue,
		Number:  n,
		CueList: list,
		UID:     uid,
		Label:   label,
		Args: []interface{}{
			upTimeMs, 0,
			-1, -1, -1, -1, -1, -1, -1, -1,
			false, "", 0, "", "", "", "",
			-1, -1, false, -1, false, "", 0, "", "", false, -1,
		},
		Extra: []Response{{Suffix: "/fx"}, {Suffix: "/links"}, {Suffix: "/actions"}},
	}
}

// Patch scripts one part of a channel.
func Patch(channel protocol.TargetNumber, part, partCount int, uid, label, model string, address int) Record {
	return Record{
		Type:   records.TypePatch,
		Number: channel,
		Part:   part,
		UID:    uid,
		Label:  label,
		Args: []interface{}{
			"ETC", model, address, address, 0, "",
			"", "", "", "", "", "", "", "", "", "",
			partCount,
		},
		Extra: []Response{
			{Suffix: "/notes"},
			{Suffix: "/augment3d/position"},
			{Suffix: "/augment3d/beam"},
		},
	}
}

// DemoShow is a small show for trying clients out.
func DemoShow() []Record {
	return []Record{
		Patch(1, 1, 1, "p-1", "Front L", "Source Four", 1),
		Patch(2, 1, 1, "p-2", "Front R", "Source Four", 2),
		Patch(3, 1, 2, "p-3a", "Wash", "Desire D40", 10),
		Patch(3, 2, 2, "p-3b", "Wash Fan", "Desire D40", 16),
		Group(1, "g-1", "Front", "1-2"),
		Group(2, "g-2", "All", "1-3"),
		Macro(1, "m-1", "Full Front", "Group 1 At Full Enter"),
		Snapshot(1, "s-1", "Programming"),
		CueList(1, "l-1", "Main"),
		Cue(1, 1, "c-1", "Preset", 5000),
		Cue(1, 2, "c-2", "Opening", 3000),
		Cue(1, 2.5, "c-2.5", "Sunrise", 10000),
	}
}
