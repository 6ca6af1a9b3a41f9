package records

import (
	"errors"
	"fmt"
	"sort"

	"github.com/luma/eosc/protocol"
)

var (
	ErrMixedChannelParts = errors.New("Patch parts belong to different channels")
)

// ChannelPart is the per part view of a Patch entry.
type ChannelPart struct {
	UID                       string `json:"uid"`
	Label                     string `json:"label"`
	PartNumber                int    `json:"partNumber"`
	Address                   int    `json:"address"`
	CurrentLevel              int    `json:"currentLevel"`
	FixtureManufacturer       string `json:"fixtureManufacturer"`
	FixtureModel              string `json:"fixtureModel"`
	Gel                       string `json:"gel"`
	IntensityParameterAddress int    `json:"intensityParameterAddress"`
	Notes                     string `json:"notes"`
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
}

// Channel groups the patch parts of one channel.
type Channel struct {
	TargetType   TargetType            `json:"targetType"`
	TargetNumber protocol.TargetNumber `json:"targetNumber"`
	Parts        []ChannelPart         `json:"parts"`
}

// NewChannel builds a channel from its patch parts, in the order given.
func NewChannel(parts []*Patch) (*Channel, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("no parts: %w", ErrMixedChannelParts)
	}

	channel := &Channel{
		TargetType:   TypePatch,
		TargetNumber: parts[0].TargetNumber,
		Parts:        make([]ChannelPart, 0, len(parts)),
	}

	for _, p := range parts {
		if p.TargetNumber != channel.TargetNumber {
			return nil, fmt.Errorf("channel %s and %s: %w", channel.TargetNumber, p.TargetNumber, ErrMixedChannelParts)
		}

		channel.Parts = append(channel.Parts, ChannelPart{
			UID:                       p.UID,
			Label:                     p.Label,
			PartNumber:                p.PartNumber,
			Address:                   p.Address,
			CurrentLevel:              p.CurrentLevel,
			FixtureManufacturer:       p.FixtureManufacturer,
			FixtureModel:              p.FixtureModel,
			Gel:                       p.Gel,
			IntensityParameterAddress: p.IntensityParameterAddress,
			Notes:                     p.Notes,
			Text1:                     p.Text1,
			Text2:                     p.Text2,
			Text3:                     p.Text3,
			Text4:                     p.Text4,
			Text5:                     p.Text5,
			Text6:                     p.Text6,
			Text7:                     p.Text7,
			Text8:                     p.Text8,
			Text9:                     p.Text9,
			Text10:                    p.Text10,
		})
	}

	return channel, nil
}

// GroupChannels groups patch entries by channel number. Channels are sorted
// by number, parts keep their order.
func GroupChannels(patch []*Patch) ([]*Channel, error) {
	byNumber := make(map[protocol.TargetNumber][]*Patch)
	numbers := make([]protocol.TargetNumber, 0)

	for _, p := range patch {
		if _, ok := byNumber[p.TargetNumber]; !ok {
			numbers = append(numbers, p.TargetNumber)
		}
		byNumber[p.TargetNumber] = append(byNumber[p.TargetNumber], p)
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	channels := make([]*Channel, 0, len(numbers))
	for _, n := range numbers {
		channel, err := NewChannel(byNumber[n])
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}

	return channels, nil
}
