package protocol

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrTypeMismatch = errors.New("Argument has the wrong type for the requested value")
)

// Type is an OSC type tag.
type Type byte

const (
	TypeInt32   Type = 'i'
	TypeInt64   Type = 'h'
	TypeFloat32 Type = 'f'
	TypeFloat64 Type = 'd'
	TypeString  Type = 's'
	TypeSymbol  Type = 'S'
	TypeBlob    Type = 'b'
	TypeTimeTag Type = 't'
	TypeTrue    Type = 'T'
	TypeFalse   Type = 'F'
	TypeNil     Type = 'N'
	TypeBang    Type = 'I'
)

func (t Type) String() string {
	if t == 0 {
		return "?"
	}

	return string(rune(t))
}

// TimeTag is an NTP formatted OSC time tag.
type TimeTag uint64

// Immediately is the special time tag meaning "now".
const Immediately TimeTag = 1

// Bang is the value of an OSC impulse argument.
type Bang struct{}

// Argument is one positional value in a Message. Value holds one of bool,
// int64, float64, string, []byte, TimeTag, Bang or nil. Type is the wire type
// tag, it is only used when encoding and for diagnostics.
type Argument struct {
	Value interface{}
	Type  Type
}

func Int(v int) Argument {
	return Argument{Value: int64(v), Type: TypeInt32}
}

func Int64(v int64) Argument {
	return Argument{Value: v, Type: TypeInt64}
}

func Float(v float32) Argument {
	return Argument{Value: float64(v), Type: TypeFloat32}
}

func Double(v float64) Argument {
	return Argument{Value: v, Type: TypeFloat64}
}

func String(v string) Argument {
	return Argument{Value: v, Type: TypeString}
}

func Bool(v bool) Argument {
	if v {
		return Argument{Value: true, Type: TypeTrue}
	}

	return Argument{Value: false, Type: TypeFalse}
}

func Blob(v []byte) Argument {
	return Argument{Value: v, Type: TypeBlob}
}

func NewTimeTag(v TimeTag) Argument {
	return Argument{Value: v, Type: TypeTimeTag}
}

func Nil() Argument {
	return Argument{Value: nil, Type: TypeNil}
}

func NewBang() Argument {
	return Argument{Value: Bang{}, Type: TypeBang}
}

// NewArgument wraps a Go value, picking the wire type from the value's type.
func NewArgument(v interface{}) (Argument, error) {
	switch value := v.(type) {
	case Argument:
		return value, nil
	case nil:
		return Nil(), nil
	case bool:
		return Bool(value), nil
	case int:
		if value > math.MaxInt32 || value < math.MinInt32 {
			return Int64(int64(value)), nil
		}
		return Int(value), nil
	case int32:
		return Int(int(value)), nil
	case int64:
		return Int64(value), nil
	case float32:
		return Float(value), nil
	case float64:
		return Double(value), nil
	case string:
		return String(value), nil
	case []byte:
		return Blob(value), nil
	case TimeTag:
		return NewTimeTag(value), nil
	case TargetNumber:
		return String(value.String()), nil
	case Bang:
		return NewBang(), nil
	default:
		return Argument{}, fmt.Errorf("Cannot send %T as an OSC argument: %w", v, ErrTypeMismatch)
	}
}

// NewArguments converts every value with NewArgument.
func NewArguments(values ...interface{}) ([]Argument, error) {
	args := make([]Argument, 0, len(values))

	for i, v := range values {
		arg, err := NewArgument(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, arg)
	}

	return args, nil
}

func (a Argument) mismatch(want string) error {
	return fmt.Errorf("argument %s is not %s: %w", a.String(), want, ErrTypeMismatch)
}

func (a Argument) AsBool() (bool, error) {
	v, ok := a.Value.(bool)
	if !ok {
		return false, a.mismatch("a boolean")
	}

	return v, nil
}

func (a Argument) AsInt() (int, error) {
	v, ok := a.Value.(int64)
	if !ok {
		return 0, a.mismatch("an integer")
	}

	return int(v), nil
}

// AsOptionalInt returns the integer value, ok is false when the console used a
// negative value to say "not set".
func (a Argument) AsOptionalInt() (v int, ok bool, err error) {
	v, err = a.AsInt()
	if err != nil {
		return 0, false, err
	}

	return v, v >= 0, nil
}

// AsFloat accepts both float and integer payloads.
func (a Argument) AsFloat() (float64, error) {
	switch v := a.Value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, a.mismatch("a number")
	}
}

func (a Argument) AsString() (string, error) {
	v, ok := a.Value.(string)
	if !ok {
		return "", a.mismatch("a string")
	}

	return v, nil
}

func (a Argument) AsBlob() ([]byte, error) {
	v, ok := a.Value.([]byte)
	if !ok {
		return nil, a.mismatch("a blob")
	}

	return v, nil
}

func (a Argument) AsTimeTag() (TimeTag, error) {
	v, ok := a.Value.(TimeTag)
	if !ok {
		return 0, a.mismatch("a time tag")
	}

	return v, nil
}

// AsTargetNumber accepts numbers and numeric strings.
func (a Argument) AsTargetNumber() (TargetNumber, error) {
	switch v := a.Value.(type) {
	case int64:
		return TargetNumber(v), nil
	case float64:
		return TargetNumber(v), nil
	case string:
		n, err := ParseTargetNumber(v)
		if err != nil {
			return 0, a.mismatch("a target number")
		}
		return n, nil
	default:
		return 0, a.mismatch("a target number")
	}
}

// AsTargetNumberRange expands the argument into the target numbers it covers.
//
//   - 123   => [123]
//   - "1.5" => [1.5]
//   - "3-5" => [3, 4, 5]
func (a Argument) AsTargetNumberRange() ([]TargetNumber, error) {
	switch v := a.Value.(type) {
	case int64, float64:
		n, _ := a.AsTargetNumber()
		return []TargetNumber{n}, nil
	case string:
		return ParseTargetNumberRange(v)
	default:
		return nil, a.mismatch("a target number or target number range")
	}
}

// IsNil is true for the N type tag.
func (a Argument) IsNil() bool {
	return a.Value == nil
}

// String formats the argument as `<value>(<type tag>)`.
func (a Argument) String() string {
	var value string

	switch v := a.Value.(type) {
	case nil:
		value = "nil"
	case string:
		value = v
	case int64:
		value = strconv.FormatInt(v, 10)
	case float64:
		value = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		value = strconv.FormatBool(v)
	case []byte:
		value = fmt.Sprintf("<%d bytes>", len(v))
	case TimeTag:
		value = strconv.FormatUint(uint64(v), 10)
	case Bang:
		value = "bang"
	default:
		value = fmt.Sprint(v)
	}

	return value + "(" + a.Type.String() + ")"
}
