package records

import (
	"fmt"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/request"
)

const (
	VersionAddress         = RequestPrefix + "/version"
	VersionResponseAddress = ResponsePrefix + "/version"
)

// VersionRequest asks for the console's software version.
func VersionRequest() request.Request[string] {
	return request.Request[string]{
		Message:       protocol.NewMessage(VersionAddress),
		ResponseCount: 1,
		Unpack: func(responses []*protocol.Message) (string, error) {
			if responses[0].Address != VersionResponseAddress {
				return "", fmt.Errorf("'%s' for a version request: %w", responses[0].Address, ErrUnexpectedResponse)
			}

			arg, ok := responses[0].Arg(0)
			if !ok {
				return "", fmt.Errorf("version: %w", ErrMissingArgument)
			}

			return arg.AsString()
		},
	}
}

// CountRequest asks how many record targets of type t exist. Cues are
// counted per list with CueCountRequest.
func CountRequest(t TargetType) request.Request[int] {
	return countRequest(fmt.Sprintf("/%s/count", t))
}

func CueCountRequest(cueList protocol.TargetNumber) request.Request[int] {
	return countRequest(fmt.Sprintf("/%s/%s/noparts/count", TypeCue, cueList))
}

func countRequest(suffix string) request.Request[int] {
	response := ResponsePrefix + suffix

	return request.Request[int]{
		Message:       protocol.NewMessage(RequestPrefix + suffix),
		ResponseCount: 1,
		Unpack: func(responses []*protocol.Message) (int, error) {
			if responses[0].Address != response {
				return 0, fmt.Errorf("'%s' for a count request: %w", responses[0].Address, ErrUnexpectedResponse)
			}

			arg, ok := responses[0].Arg(0)
			if !ok {
				return 0, fmt.Errorf("count: %w", ErrMissingArgument)
			}

			return arg.AsInt()
		},
	}
}

// Get looks up the record target numbered n.
func Get[T any](kind Kind[T], n protocol.TargetNumber) request.Request[*T] {
	return recordRequest(kind, fmt.Sprintf("%s/%s/%s", RequestPrefix, kind.Type, n))
}

// Index looks up the record target at position i, 0 based, of the console's
// list.
func Index[T any](kind Kind[T], i int) request.Request[*T] {
	return recordRequest(kind, fmt.Sprintf("%s/%s/index/%d", RequestPrefix, kind.Type, i))
}

// CueGet looks up part of a cue, part 0 is the whole cue.
func CueGet(cueList, n protocol.TargetNumber, part int) request.Request[*Cue] {
	return recordRequest(Cues, fmt.Sprintf("%s/%s/%s/%s/%d", RequestPrefix, TypeCue, cueList, n, part))
}

// CueIndex looks up the cue at position i of cueList, skipping parts.
func CueIndex(cueList protocol.TargetNumber, i int) request.Request[*Cue] {
	return recordRequest(Cues, fmt.Sprintf("%s/%s/%s/noparts/index/%d", RequestPrefix, TypeCue, cueList, i))
}

// PatchGet looks up one part of a channel, parts start at 1.
func PatchGet(channel protocol.TargetNumber, part int) request.Request[*Patch] {
	return recordRequest(Patches, fmt.Sprintf("%s/%s/%s/%d", RequestPrefix, TypePatch, channel, part))
}

func recordRequest[T any](kind Kind[T], address string) request.Request[*T] {
	return request.Request[*T]{
		Message:       protocol.NewMessage(address),
		ResponseCount: kind.Responses,
		RecordTarget:  true,
		Unpack:        kind.Decode,
	}
}

// AnyGet is Get for a Kind picked at runtime.
func AnyGet(kind AnyKind, n protocol.TargetNumber) request.Request[RecordTarget] {
	return anyRequest(kind, fmt.Sprintf("%s/%s/%s", RequestPrefix, kind.TargetType(), n))
}

// AnyIndex is Index for a Kind picked at runtime.
func AnyIndex(kind AnyKind, i int) request.Request[RecordTarget] {
	return anyRequest(kind, fmt.Sprintf("%s/%s/index/%d", RequestPrefix, kind.TargetType(), i))
}

func anyRequest(kind AnyKind, address string) request.Request[RecordTarget] {
	return request.Request[RecordTarget]{
		Message:       protocol.NewMessage(address),
		ResponseCount: kind.ResponseCount(),
		RecordTarget:  true,
		Unpack:        kind.DecodeAny,
	}
}
