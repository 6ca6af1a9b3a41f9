package records

import (
	"github.com/luma/eosc/protocol"
)

type Cue struct {
	Record

	CueList protocol.TargetNumber `json:"cueList"`
	Part    protocol.TargetNumber `json:"part"`

	UpTimeDurationMs    int    `json:"upTimeDurationMs"`
	UpTimeDelayMs       int    `json:"upTimeDelayMs"`
	DownTimeDurationMs  *int   `json:"downTimeDurationMs"`
	DownTimeDelayMs     *int   `json:"downTimeDelayMs"`
	FocusTimeDurationMs *int   `json:"focusTimeDurationMs"`
	FocusTimeDelayMs    *int   `json:"focusTimeDelayMs"`
	ColorTimeDurationMs *int   `json:"colorTimeDurationMs"`
	ColorTimeDelayMs    *int   `json:"colorTimeDelayMs"`
	BeamTimeDurationMs  *int   `json:"beamTimeDurationMs"`
	BeamTimeDelayMs     *int   `json:"beamTimeDelayMs"`
	Preheat             bool   `json:"preheat"`
	Curve               string `json:"curve"`
	Rate                int    `json:"rate"`
	Mark                string `json:"mark"`
	Block               string `json:"block"`
	Assert              string `json:"assert"`
	Link                string `json:"link"`
	FollowTimeMs        *int   `json:"followTimeMs"`
	HangTimeMs          *int   `json:"hangTimeMs"`
	AllFade             bool   `json:"allFade"`
	Loop                *int   `json:"loop"`
	Solo                bool   `json:"solo"`
	Timecode            string `json:"timecode"`
	PartCount           int    `json:"partCount"`
	Notes               string `json:"notes"`
	Scene               string `json:"scene"`
	SceneEnd            bool   `json:"sceneEnd"`
	CuePartIndex        *int   `json:"cuePartIndex"`

	Effects            []protocol.TargetNumber `json:"effects"`
	LinkedCueLists     []protocol.TargetNumber `json:"linkedCueLists"`
	ExternalLinkAction string                  `json:"externalLinkAction"`
}

type CueList struct {
	Record

	PlaybackMode   string                  `json:"playbackMode"`
	FaderMode      string                  `json:"faderMode"`
	Independent    bool                    `json:"independent"`
	HTP            bool                    `json:"htp"`
	Assert         bool                    `json:"assert"`
	Block          bool                    `json:"block"`
	Background     bool                    `json:"background"`
	Solo           bool                    `json:"solo"`
	TimecodeList   *int                    `json:"timecodeList"`
	OOSSync        bool                    `json:"oosSync"`
	LinkedCueLists []protocol.TargetNumber `json:"linkedCueLists"`
}

type Group struct {
	Record

	Channels []protocol.TargetNumber `json:"channels"`
}

type Macro struct {
	Record

	Mode    string `json:"mode"`
	Command string `json:"command"`
}

type Sub struct {
	Record

	Mode       string                  `json:"mode"`
	FaderMode  string                  `json:"faderMode"`
	HTP        bool                    `json:"htp"`
	Exclusive  bool                    `json:"exclusive"`
	Background bool                    `json:"background"`
	Restore    bool                    `json:"restore"`
	Priority   string                  `json:"priority"`
	UpTime     string                  `json:"upTime"`
	DwellTime  string                  `json:"dwellTime"`
	DownTime   string                  `json:"downTime"`
	Effects    []protocol.TargetNumber `json:"effects"`
}

type Preset struct {
	Record

	Absolute       bool                    `json:"absolute"`
	Locked         bool                    `json:"locked"`
	Channels       []protocol.TargetNumber `json:"channels"`
	ByTypeChannels []protocol.TargetNumber `json:"byTypeChannels"`
	Effects        []protocol.TargetNumber `json:"effects"`
}

// Palette is an intensity, focus, color or beam palette.
type Palette struct {
	Record

	Absolute       bool                    `json:"absolute"`
	Locked         bool                    `json:"locked"`
	Channels       []protocol.TargetNumber `json:"channels"`
	ByTypeChannels []protocol.TargetNumber `json:"byTypeChannels"`
}

// Patch is one part of a channel.
type Patch struct {
	Record

	PartNumber                int    `json:"partNumber"`
	FixtureManufacturer       string `json:"fixtureManufacturer"`
	FixtureModel              string `json:"fixtureModel"`
	Address                   int    `json:"address"`
	IntensityParameterAddress int    `json:"intensityParameterAddress"`
	CurrentLevel              int    `json:"currentLevel"`
	Gel                       string `json:"gel"`
	Text1                     string `json:"text1"`
	Text2                     string `json:"text2"`
	Text3                     string `json:"text3"`
	Text4                     string `json:"text4"`
	Text5                     string `json:"text5"`
	Text6                     string `json:"text6"`
	Text7                     string `json:"text7"`
	Text8                     string `json:"text8"`
	Text9                     string `json:"text9"`
	Text10                    string `json:"text10"`
	PartCount                 int    `json:"partCount"`
	Notes                     string `json:"notes"`
}

type Curve struct {
	Record
}

type Effect struct {
	Record

	EffectType string `json:"effectType"`
	Entry      string `json:"entry"`
	Exit       string `json:"exit"`
	Duration   string `json:"duration"`
	Scale      int    `json:"scale"`
}

type Snapshot struct {
	Record
}

type PixelMap struct {
	Record

	ServerChannel int                     `json:"serverChannel"`
	Interface     string                  `json:"interface"`
	Width         int                     `json:"width"`
	Height        int                     `json:"height"`
	PixelCount    int                     `json:"pixelCount"`
	FixtureCount  int                     `json:"fixtureCount"`
	LayerChannels []protocol.TargetNumber `json:"layerChannels"`
}

type MagicSheet struct {
	Record
}
