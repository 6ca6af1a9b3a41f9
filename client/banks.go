package client

import (
	"context"
	"fmt"

	"github.com/luma/eosc/protocol"
)

// pagedBanks is the paging shared by fader, cue list and direct selects
// banks.
type pagedBanks struct {
	session  Session
	bankType string
}

// PageDown moves bank delta pages down.
func (b pagedBanks) PageDown(ctx context.Context, bank, delta int) error {
	return b.session.SendMessage(ctx, fmt.Sprintf("/eos/%s/%d/page/%d", b.bankType, bank, delta))
}

// PageUp moves bank delta pages up.
func (b pagedBanks) PageUp(ctx context.Context, bank, delta int) error {
	return b.PageDown(ctx, bank, -delta)
}

type FaderBankConfig struct {
	FaderCount int
	// Page is optional, pages start at 1
	Page int
}

// FaderBanksModule controls virtual fader banks. Bank 0 is the master fader
// pair.
type FaderBanksModule struct {
	pagedBanks
}

func (m *FaderBanksModule) Create(ctx context.Context, bank int, config FaderBankConfig) error {
	address := fmt.Sprintf("/eos/fader/%d/config", bank)

	if config.Page >= 1 {
		address += fmt.Sprintf("/%d", config.Page)
	}

	return m.session.SendMessage(ctx, fmt.Sprintf("%s/%d", address, config.FaderCount))
}

func (m *FaderBanksModule) Reset(ctx context.Context, bank int) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/fader/%d/reset", bank))
}

type CueListBankConfig struct {
	// CueList 0 follows the current cue list
	CueList         protocol.TargetNumber
	PrevCueCount    int
	PendingCueCount int
	// Offset is optional
	Offset int
}

// CueListBanksModule controls virtual cue list views.
type CueListBanksModule struct {
	pagedBanks
}

func (m *CueListBanksModule) Create(ctx context.Context, bank int, config CueListBankConfig) error {
	address := fmt.Sprintf("/eos/cuelist/%d/config/%s/%d/%d",
		bank, config.CueList, config.PrevCueCount, config.PendingCueCount)

	if config.Offset > 0 {
		address += fmt.Sprintf("/%d", config.Offset)
	}

	return m.session.SendMessage(ctx, address)
}

// PageCurrent pages bank back to the current cue.
func (m *CueListBanksModule) PageCurrent(ctx context.Context, bank int) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/cuelist/%d/page/0", bank))
}

func (m *CueListBanksModule) Reset(ctx context.Context, bank int) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/cuelist/%d/reset", bank))
}

func (m *CueListBanksModule) SelectCue(ctx context.Context, bank int, cue protocol.TargetNumber) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/cuelist/%d/select/%s", bank, cue))
}

// DirectSelectsTarget is what the buttons of a direct selects bank select.
type DirectSelectsTarget string

const (
	DirectSelectsBeamPalettes      DirectSelectsTarget = "bp"
	DirectSelectsChannels          DirectSelectsTarget = "chan"
	DirectSelectsColorPalettes     DirectSelectsTarget = "cp"
	DirectSelectsCurves            DirectSelectsTarget = "curve"
	DirectSelectsFocusPalettes     DirectSelectsTarget = "fp"
	DirectSelectsEffects           DirectSelectsTarget = "fx"
	DirectSelectsGroups            DirectSelectsTarget = "group"
	DirectSelectsIntensityPalettes DirectSelectsTarget = "ip"
	DirectSelectsMacros            DirectSelectsTarget = "macro"
	DirectSelectsMagicSheets       DirectSelectsTarget = "ms"
	DirectSelectsPixelMaps         DirectSelectsTarget = "pixmap"
	DirectSelectsPresets           DirectSelectsTarget = "preset"
	DirectSelectsScenes            DirectSelectsTarget = "scene"
	DirectSelectsSnapshots         DirectSelectsTarget = "snap"
	DirectSelectsSubs              DirectSelectsTarget = "sub"
)

type DirectSelectsBankConfig struct {
	Target      DirectSelectsTarget
	ButtonCount int
	Flexi       bool
	// Page is optional, pages start at 1
	Page int
}

// DirectSelectsBanksModule controls virtual direct selects.
type DirectSelectsBanksModule struct {
	pagedBanks
}

func (m *DirectSelectsBanksModule) Create(ctx context.Context, bank int, config DirectSelectsBankConfig) error {
	address := fmt.Sprintf("/eos/ds/%d/%s", bank, config.Target)

	if config.Flexi {
		address += "/flexi"
	}

	if config.Page >= 1 {
		address += fmt.Sprintf("/%d", config.Page)
	}

	return m.session.SendMessage(ctx, fmt.Sprintf("%s/%d", address, config.ButtonCount))
}

// Press presses button of bank, buttons start at 1.
func (m *DirectSelectsBanksModule) Press(ctx context.Context, bank, button int) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/ds/%d/%d", bank, button))
}
