package records

import (
	"github.com/luma/eosc/protocol"
)

// Cues are looked up per cue list, see CueGet and CueIndex.
var Cues = newKind(TypeCue, 4, 5, func(c *Cue) *Record { return &c.Record },
	SegmentField("cueList", 0, 4, func(c *Cue) *protocol.TargetNumber { return &c.CueList }),
	SegmentField("part", 0, 6, func(c *Cue) *protocol.TargetNumber { return &c.Part }),
	IntField("upTimeDurationMs", 0, 3, func(c *Cue) *int { return &c.UpTimeDurationMs }),
	IntField("upTimeDelayMs", 0, 4, func(c *Cue) *int { return &c.UpTimeDelayMs }),
	OptionalIntField("downTimeDurationMs", 0, 5, func(c *Cue) **int { return &c.DownTimeDurationMs }),
	OptionalIntField("downTimeDelayMs", 0, 6, func(c *Cue) **int { return &c.DownTimeDelayMs }),
	OptionalIntField("focusTimeDurationMs", 0, 7, func(c *Cue) **int { return &c.FocusTimeDurationMs }),
	OptionalIntField("focusTimeDelayMs", 0, 8, func(c *Cue) **int { return &c.FocusTimeDelayMs }),
	OptionalIntField("colorTimeDurationMs", 0, 9, func(c *Cue) **int { return &c.ColorTimeDurationMs }),
	OptionalIntField("colorTimeDelayMs", 0, 10, func(c *Cue) **int { return &c.ColorTimeDelayMs }),
	OptionalIntField("beamTimeDurationMs", 0, 11, func(c *Cue) **int { return &c.BeamTimeDurationMs }),
	OptionalIntField("beamTimeDelayMs", 0, 12, func(c *Cue) **int { return &c.BeamTimeDelayMs }),
	BoolField("preheat", 0, 13, func(c *Cue) *bool { return &c.Preheat }),
	TextField("curve", 0, 14, func(c *Cue) *string { return &c.Curve }),
	IntField("rate", 0, 15, func(c *Cue) *int { return &c.Rate }),
	StringField("mark", 0, 16, func(c *Cue) *string { return &c.Mark }),
	StringField("block", 0, 17, func(c *Cue) *string { return &c.Block }),
	StringField("assert", 0, 18, func(c *Cue) *string { return &c.Assert }),
	TextField("link", 0, 19, func(c *Cue) *string { return &c.Link }),
	OptionalIntField("followTimeMs", 0, 20, func(c *Cue) **int { return &c.FollowTimeMs }),
	OptionalIntField("hangTimeMs", 0, 21, func(c *Cue) **int { return &c.HangTimeMs }),
	BoolField("allFade", 0, 22, func(c *Cue) *bool { return &c.AllFade }),
	OptionalIntField("loop", 0, 23, func(c *Cue) **int { return &c.Loop }),
	BoolField("solo", 0, 24, func(c *Cue) *bool { return &c.Solo }),
	StringField("timecode", 0, 25, func(c *Cue) *string { return &c.Timecode }),
	IntField("partCount", 0, 26, func(c *Cue) *int { return &c.PartCount }),
	StringField("notes", 0, 27, func(c *Cue) *string { return &c.Notes }),
	StringField("scene", 0, 28, func(c *Cue) *string { return &c.Scene }),
	BoolField("sceneEnd", 0, 29, func(c *Cue) *bool { return &c.SceneEnd }),
	OptionalIntField("cuePartIndex", 0, 30, func(c *Cue) **int { return &c.CuePartIndex }),
	TargetNumbersField("effects", 1, 2, func(c *Cue) *[]protocol.TargetNumber { return &c.Effects }),
	TargetNumbersField("linkedCueLists", 2, 2, func(c *Cue) *[]protocol.TargetNumber { return &c.LinkedCueLists }),
	StringField("externalLinkAction", 3, 2, func(c *Cue) *string { return &c.ExternalLinkAction }).AsOptional(),
)

var CueLists = newKind(TypeCueList, 2, numberSegment, func(c *CueList) *Record { return &c.Record },
	StringField("playbackMode", 0, 3, func(c *CueList) *string { return &c.PlaybackMode }),
	StringField("faderMode", 0, 4, func(c *CueList) *string { return &c.FaderMode }),
	BoolField("independent", 0, 5, func(c *CueList) *bool { return &c.Independent }),
	BoolField("htp", 0, 6, func(c *CueList) *bool { return &c.HTP }),
	BoolField("assert", 0, 7, func(c *CueList) *bool { return &c.Assert }),
	BoolField("block", 0, 8, func(c *CueList) *bool { return &c.Block }),
	BoolField("background", 0, 9, func(c *CueList) *bool { return &c.Background }),
	BoolField("solo", 0, 10, func(c *CueList) *bool { return &c.Solo }),
	OptionalIntField("timecodeList", 0, 11, func(c *CueList) **int { return &c.TimecodeList }),
	BoolField("oosSync", 0, 12, func(c *CueList) *bool { return &c.OOSSync }),
	TargetNumbersField("linkedCueLists", 1, 2, func(c *CueList) *[]protocol.TargetNumber { return &c.LinkedCueLists }),
)

var Groups = newKind(TypeGroup, 2, numberSegment, func(g *Group) *Record { return &g.Record },
	TargetNumbersField("channels", 1, 2, func(g *Group) *[]protocol.TargetNumber { return &g.Channels }),
)

var Macros = newKind(TypeMacro, 2, numberSegment, func(m *Macro) *Record { return &m.Record },
	StringField("mode", 0, 3, func(m *Macro) *string { return &m.Mode }),
	JoinedField("command", 1, 2, func(m *Macro) *string { return &m.Command }),
)

var Subs = newKind(TypeSub, 2, numberSegment, func(s *Sub) *Record { return &s.Record },
	StringField("mode", 0, 3, func(s *Sub) *string { return &s.Mode }),
	StringField("faderMode", 0, 4, func(s *Sub) *string { return &s.FaderMode }),
	BoolField("htp", 0, 5, func(s *Sub) *bool { return &s.HTP }),
	BoolField("exclusive", 0, 6, func(s *Sub) *bool { return &s.Exclusive }),
	BoolField("background", 0, 7, func(s *Sub) *bool { return &s.Background }),
	BoolField("restore", 0, 8, func(s *Sub) *bool { return &s.Restore }),
	TextField("priority", 0, 9, func(s *Sub) *string { return &s.Priority }),
	TextField("upTime", 0, 10, func(s *Sub) *string { return &s.UpTime }),
	TextField("dwellTime", 0, 11, func(s *Sub) *string { return &s.DwellTime }),
	TextField("downTime", 0, 12, func(s *Sub) *string { return &s.DownTime }),
	TargetNumbersField("effects", 1, 2, func(s *Sub) *[]protocol.TargetNumber { return &s.Effects }),
)

var Presets = newKind(TypePreset, 4, numberSegment, func(p *Preset) *Record { return &p.Record },
	BoolField("absolute", 0, 3, func(p *Preset) *bool { return &p.Absolute }),
	BoolField("locked", 0, 4, func(p *Preset) *bool { return &p.Locked }),
	TargetNumbersField("channels", 1, 2, func(p *Preset) *[]protocol.TargetNumber { return &p.Channels }),
	TargetNumbersField("byTypeChannels", 2, 2, func(p *Preset) *[]protocol.TargetNumber { return &p.ByTypeChannels }),
	TargetNumbersField("effects", 3, 2, func(p *Preset) *[]protocol.TargetNumber { return &p.Effects }),
)

var (
	IntensityPalettes = paletteKind(TypeIntensityPalette)
	FocusPalettes     = paletteKind(TypeFocusPalette)
	ColorPalettes     = paletteKind(TypeColorPalette)
	BeamPalettes      = paletteKind(TypeBeamPalette)
)

func paletteKind(t TargetType) Kind[Palette] {
	return newKind(t, 3, numberSegment, func(p *Palette) *Record { return &p.Record },
		BoolField("absolute", 0, 3, func(p *Palette) *bool { return &p.Absolute }),
		BoolField("locked", 0, 4, func(p *Palette) *bool { return &p.Locked }),
		TargetNumbersField("channels", 1, 2, func(p *Palette) *[]protocol.TargetNumber { return &p.Channels }),
		TargetNumbersField("byTypeChannels", 2, 2, func(p *Palette) *[]protocol.TargetNumber { return &p.ByTypeChannels }),
	)
}

// Patch is looked up per channel part, see PatchGet.
var Patches = newKind(TypePatch, 4, numberSegment, func(p *Patch) *Record { return &p.Record },
	SegmentIntField("partNumber", 0, 5, func(p *Patch) *int { return &p.PartNumber }),
	StringField("fixtureManufacturer", 0, 3, func(p *Patch) *string { return &p.FixtureManufacturer }),
	StringField("fixtureModel", 0, 4, func(p *Patch) *string { return &p.FixtureModel }),
	IntField("address", 0, 5, func(p *Patch) *int { return &p.Address }),
	IntField("intensityParameterAddress", 0, 6, func(p *Patch) *int { return &p.IntensityParameterAddress }),
	IntField("currentLevel", 0, 7, func(p *Patch) *int { return &p.CurrentLevel }),
	StringField("gel", 0, 8, func(p *Patch) *string { return &p.Gel }),
	StringField("text1", 0, 9, func(p *Patch) *string { return &p.Text1 }),
	StringField("text2", 0, 10, func(p *Patch) *string { return &p.Text2 }),
	StringField("text3", 0, 11, func(p *Patch) *string { return &p.Text3 }),
	StringField("text4", 0, 12, func(p *Patch) *string { return &p.Text4 }),
	StringField("text5", 0, 13, func(p *Patch) *string { return &p.Text5 }),
	StringField("text6", 0, 14, func(p *Patch) *string { return &p.Text6 }),
	StringField("text7", 0, 15, func(p *Patch) *string { return &p.Text7 }),
	StringField("text8", 0, 16, func(p *Patch) *string { return &p.Text8 }),
	StringField("text9", 0, 17, func(p *Patch) *string { return &p.Text9 }),
	StringField("text10", 0, 18, func(p *Patch) *string { return &p.Text10 }),
	IntField("partCount", 0, 19, func(p *Patch) *int { return &p.PartCount }),
	StringField("notes", 1, 2, func(p *Patch) *string { return &p.Notes }).AsOptional(),
)

var Curves = newKind(TypeCurve, 1, numberSegment, func(c *Curve) *Record { return &c.Record })

var Effects = newKind(TypeEffect, 1, numberSegment, func(e *Effect) *Record { return &e.Record },
	StringField("effectType", 0, 3, func(e *Effect) *string { return &e.EffectType }),
	StringField("entry", 0, 4, func(e *Effect) *string { return &e.Entry }),
	StringField("exit", 0, 5, func(e *Effect) *string { return &e.Exit }),
	TextField("duration", 0, 6, func(e *Effect) *string { return &e.Duration }),
	IntField("scale", 0, 7, func(e *Effect) *int { return &e.Scale }),
)

var Snapshots = newKind(TypeSnapshot, 1, numberSegment, func(s *Snapshot) *Record { return &s.Record })

var PixelMaps = newKind(TypePixelMap, 2, numberSegment, func(p *PixelMap) *Record { return &p.Record },
	IntField("serverChannel", 0, 3, func(p *PixelMap) *int { return &p.ServerChannel }),
	StringField("interface", 0, 4, func(p *PixelMap) *string { return &p.Interface }),
	IntField("width", 0, 5, func(p *PixelMap) *int { return &p.Width }),
	IntField("height", 0, 6, func(p *PixelMap) *int { return &p.Height }),
	IntField("pixelCount", 0, 7, func(p *PixelMap) *int { return &p.PixelCount }),
	IntField("fixtureCount", 0, 8, func(p *PixelMap) *int { return &p.FixtureCount }),
	TargetNumbersField("layerChannels", 1, 2, func(p *PixelMap) *[]protocol.TargetNumber { return &p.LayerChannels }),
)

var MagicSheets = newKind(TypeMagicSheet, 1, numberSegment, func(m *MagicSheet) *Record { return &m.Record })

// Kinds maps every target type to its Kind. Cues need a cue list and are
// looked up through Cues, they are included so callers can check response
// counts.
var Kinds = map[TargetType]AnyKind{
	TypePatch:            Patches,
	TypeCueList:          CueLists,
	TypeCue:              Cues,
	TypeGroup:            Groups,
	TypeMacro:            Macros,
	TypeSub:              Subs,
	TypePreset:           Presets,
	TypeIntensityPalette: IntensityPalettes,
	TypeFocusPalette:     FocusPalettes,
	TypeColorPalette:     ColorPalettes,
	TypeBeamPalette:      BeamPalettes,
	TypeCurve:            Curves,
	TypeEffect:           Effects,
	TypeSnapshot:         Snapshots,
	TypePixelMap:         PixelMaps,
	TypeMagicSheet:       MagicSheets,
}

// KindOf looks up the Kind of t.
func KindOf(t TargetType) (AnyKind, error) {
	kind, ok := Kinds[t]
	if !ok {
		return nil, ErrUnknownTargetType
	}

	return kind, nil
}
