package records

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/luma/eosc/protocol"
)

var (
	ErrMissingArgument = errors.New("Response is missing an argument")
	ErrMissingSegment  = errors.New("Response address is missing a segment")
)

// Field is one entry of a record schema. It reads a value from response
// Message, either argument Arg or, for address fields, segment Segment of the
// address, and stores it in the record.
type Field[T any] struct {
	Name    string
	Message int
	Arg     int
	Segment int

	// Optional fields keep their zero value when the argument is missing
	Optional bool

	decode func(record *T, msg *protocol.Message) error
}

// Decode reads the field from responses into record.
func (f Field[T]) Decode(record *T, responses []*protocol.Message) error {
	if f.Message >= len(responses) {
		return fmt.Errorf("%s needs response %d of %d: %w", f.Name, f.Message+1, len(responses), ErrMissingArgument)
	}

	if err := f.decode(record, responses[f.Message]); err != nil {
		if f.Optional && errors.Is(err, ErrMissingArgument) {
			return nil
		}

		return fmt.Errorf("Failed to decode %s: %w", f.Name, err)
	}

	return nil
}

// AsOptional returns a copy of f that tolerates a missing argument.
func (f Field[T]) AsOptional() Field[T] {
	f.Optional = true
	return f
}

func argAt(msg *protocol.Message, i int) (protocol.Argument, error) {
	arg, ok := msg.Arg(i)
	if !ok {
		return protocol.Argument{}, fmt.Errorf("argument %d of '%s': %w", i, msg.Address, ErrMissingArgument)
	}

	return arg, nil
}

func argField[T any](name string, message, arg int, decode func(record *T, arg protocol.Argument) error) Field[T] {
	return Field[T]{
		Name:    name,
		Message: message,
		Arg:     arg,
		Segment: -1,
		decode: func(record *T, msg *protocol.Message) error {
			a, err := argAt(msg, arg)
			if err != nil {
				return err
			}

			return decode(record, a)
		},
	}
}

func StringField[T any](name string, message, arg int, field func(*T) *string) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) (err error) {
		*field(record), err = a.AsString()
		return err
	})
}

// TextField accepts strings and numbers, some values such as a cue's link are
// either.
func TextField[T any](name string, message, arg int, field func(*T) *string) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) error {
		switch v := a.Value.(type) {
		case string:
			*field(record) = v
		case int64:
			*field(record) = strconv.FormatInt(v, 10)
		case float64:
			*field(record) = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			_, err := a.AsString()
			return err
		}

		return nil
	})
}

func IntField[T any](name string, message, arg int, field func(*T) *int) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) (err error) {
		*field(record), err = a.AsInt()
		return err
	})
}

// OptionalIntField stores nil when the console sends a negative value.
func OptionalIntField[T any](name string, message, arg int, field func(*T) **int) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) error {
		v, ok, err := a.AsOptionalInt()
		if err != nil {
			return err
		}

		if ok {
			*field(record) = &v
		} else {
			*field(record) = nil
		}

		return nil
	})
}

func FloatField[T any](name string, message, arg int, field func(*T) *float64) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) (err error) {
		*field(record), err = a.AsFloat()
		return err
	})
}

// BoolField accepts the T and F tags as well as integers.
func BoolField[T any](name string, message, arg int, field func(*T) *bool) Field[T] {
	return argField(name, message, arg, func(record *T, a protocol.Argument) error {
		switch v := a.Value.(type) {
		case bool:
			*field(record) = v
		case int64:
			*field(record) = v != 0
		default:
			_, err := a.AsBool()
			return err
		}

		return nil
	})
}

// TargetNumbersField expands every argument from arg onwards, the console
// sends lists of channels and effects that way.
func TargetNumbersField[T any](name string, message, arg int, field func(*T) *[]protocol.TargetNumber) Field[T] {
	return Field[T]{
		Name:    name,
		Message: message,
		Arg:     arg,
		Segment: -1,
		decode: func(record *T, msg *protocol.Message) error {
			var args []protocol.Argument
			if arg < len(msg.Args) {
				args = msg.Args[arg:]
			}

			numbers, err := protocol.ExpandTargetNumbers(args, false)
			if err != nil {
				return err
			}

			*field(record) = numbers
			return nil
		},
	}
}

// JoinedField concatenates every string argument from arg onwards, long
// macro commands arrive in pieces.
func JoinedField[T any](name string, message, arg int, field func(*T) *string) Field[T] {
	return Field[T]{
		Name:    name,
		Message: message,
		Arg:     arg,
		Segment: -1,
		decode: func(record *T, msg *protocol.Message) error {
			var b strings.Builder

			for i := arg; i < len(msg.Args); i++ {
				s, err := msg.Args[i].AsString()
				if err != nil {
					return err
				}
				b.WriteString(s)
			}

			*field(record) = b.String()
			return nil
		},
	}
}

// SegmentField reads a target number from an address segment, e.g. the cue
// number of /eos/out/get/cue/1/2/0 is segment 5.
func SegmentField[T any](name string, message, segment int, field func(*T) *protocol.TargetNumber) Field[T] {
	return segmentField(name, message, segment, func(record *T, n protocol.TargetNumber) {
		*field(record) = n
	})
}

// SegmentIntField reads a whole number, such as a patch part, from an address
// segment.
func SegmentIntField[T any](name string, message, segment int, field func(*T) *int) Field[T] {
	return segmentField(name, message, segment, func(record *T, n protocol.TargetNumber) {
		*field(record) = int(n)
	})
}

func segmentField[T any](name string, message, segment int, set func(*T, protocol.TargetNumber)) Field[T] {
	return Field[T]{
		Name:    name,
		Message: message,
		Arg:     -1,
		Segment: segment,
		decode: func(record *T, msg *protocol.Message) error {
			segments := msg.Segments()
			if segment >= len(segments) {
				return fmt.Errorf("segment %d of '%s': %w", segment, msg.Address, ErrMissingSegment)
			}

			n, err := protocol.ParseTargetNumber(segments[segment])
			if err != nil {
				return err
			}

			set(record, n)
			return nil
		},
	}
}
