package records

import (
	"errors"
	"fmt"
)

type TargetType string

const (
	TypePatch            TargetType = "patch"
	TypeCueList          TargetType = "cuelist"
	TypeCue              TargetType = "cue"
	TypeGroup            TargetType = "group"
	TypeMacro            TargetType = "macro"
	TypeSub              TargetType = "sub"
	TypePreset           TargetType = "preset"
	TypeIntensityPalette TargetType = "ip"
	TypeFocusPalette     TargetType = "fp"
	TypeColorPalette     TargetType = "cp"
	TypeBeamPalette      TargetType = "bp"
	TypeCurve            TargetType = "curve"
	TypeEffect           TargetType = "fx"
	TypeSnapshot         TargetType = "snap"
	TypePixelMap         TargetType = "pixmap"
	TypeMagicSheet       TargetType = "ms"
)

var (
	ErrUnknownTargetType = errors.New("Unknown record target type")
)

// TargetTypes lists every record target type in the console's own order.
var TargetTypes = []TargetType{
	TypePatch,
	TypeCueList,
	TypeCue,
	TypeGroup,
	TypeMacro,
	TypeSub,
	TypePreset,
	TypeIntensityPalette,
	TypeFocusPalette,
	TypeColorPalette,
	TypeBeamPalette,
	TypeCurve,
	TypeEffect,
	TypeSnapshot,
	TypePixelMap,
	TypeMagicSheet,
}

func ParseTargetType(s string) (TargetType, error) {
	for _, t := range TargetTypes {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("'%s': %w", s, ErrUnknownTargetType)
}

// IsPalette is true for the four palette types.
func (t TargetType) IsPalette() bool {
	switch t {
	case TypeIntensityPalette, TypeFocusPalette, TypeColorPalette, TypeBeamPalette:
		return true
	default:
		return false
	}
}

func (t TargetType) String() string {
	return string(t)
}
