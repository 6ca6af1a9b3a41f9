package records

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luma/eosc/protocol"
)

const (
	RequestPrefix  = "/eos/get"
	ResponsePrefix = "/eos/out/get"

	// numberSegment is the position of <number> in /eos/out/get/<type>/<number>
	numberSegment = 4
)

var (
	ErrUnexpectedResponse = errors.New("Unexpected response for request")
)

// Record is the part every record target shares.
type Record struct {
	TargetType   TargetType            `json:"targetType"`
	TargetNumber protocol.TargetNumber `json:"targetNumber"`
	UID          string                `json:"uid"`
	Label        string                `json:"label"`
}

// Base gives generic code access to the shared fields.
func (r *Record) Base() *Record {
	return r
}

// RecordTarget is implemented by every record struct through the embedded
// Record.
type RecordTarget interface {
	Base() *Record
}

// AnyKind is a Kind with its record type erased, for code that picks the
// target type at runtime.
type AnyKind interface {
	TargetType() TargetType
	ResponseCount() int
	DecodeAny(responses []*protocol.Message) (RecordTarget, error)
}

// Kind describes one record target type: how many responses a lookup gets
// and how they decode into T.
type Kind[T any] struct {
	Type      TargetType
	Responses int
	Fields    []Field[T]

	base func(*T) *Record
}

func newKind[T any](t TargetType, responses, number int, base func(*T) *Record, fields ...Field[T]) Kind[T] {
	shared := []Field[T]{
		SegmentField("targetNumber", 0, number, func(r *T) *protocol.TargetNumber { return &base(r).TargetNumber }),
		StringField("uid", 0, 1, func(r *T) *string { return &base(r).UID }),
		StringField("label", 0, 2, func(r *T) *string { return &base(r).Label }),
	}

	return Kind[T]{
		Type:      t,
		Responses: responses,
		Fields:    append(shared, fields...),
		base:      base,
	}
}

func (k Kind[T]) TargetType() TargetType {
	return k.Type
}

func (k Kind[T]) ResponseCount() int {
	return k.Responses
}

// Decode validates the responses to a lookup and decodes them.
func (k Kind[T]) Decode(responses []*protocol.Message) (*T, error) {
	if len(responses) < k.Responses {
		return nil, fmt.Errorf("%s needs %d responses, received %d: %w",
			k.Type, k.Responses, len(responses), ErrUnexpectedResponse)
	}

	want := ResponsePrefix + "/" + string(k.Type) + "/"
	for _, msg := range responses {
		if !strings.HasPrefix(msg.Address, want) {
			return nil, fmt.Errorf("'%s' for a %s request: %w", msg.Address, k.Type, ErrUnexpectedResponse)
		}
	}

	record := new(T)
	k.base(record).TargetType = k.Type

	for _, field := range k.Fields {
		if err := field.Decode(record, responses); err != nil {
			return nil, fmt.Errorf("%s %s: %w", k.Type, responses[0].Address, err)
		}
	}

	return record, nil
}

func (k Kind[T]) DecodeAny(responses []*protocol.Message) (RecordTarget, error) {
	record, err := k.Decode(responses)
	if err != nil {
		return nil, err
	}

	return interface{}(record).(RecordTarget), nil
}
