package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrPacketTooShort     = errors.New("OSC packet is malformed, it appears to be too short")
	ErrMissingAddress     = errors.New("OSC packet is malformed, the address must start with '/'")
	ErrMissingTypeTags    = errors.New("OSC packet is malformed, the type tag string must start with ','")
	ErrUnterminatedString = errors.New("OSC packet is malformed, a string is missing its null terminator")
	ErrUnsupportedType    = errors.New("OSC packet contains an unsupported type tag")
	ErrBundle             = errors.New("OSC bundles are not supported")

	PrefixBundle = []byte("#bundle\x00")
)

// ParseMessage decodes a single OSC packet. Bundles are reported with
// ErrBundle.
func ParseMessage(data []byte) (*Message, error) {
	if bytes.HasPrefix(data, PrefixBundle) {
		return nil, ErrBundle
	}

	if len(data) < 4 {
		return nil, ErrPacketTooShort
	}

	if data[0] != '/' {
		return nil, ErrMissingAddress
	}

	address, offset, err := readString(data, 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse address: %w", err)
	}

	msg := NewMessage(address)

	// OSC 1.0 allows a missing type tag string for messages without arguments
	if offset >= len(data) {
		return msg, nil
	}

	if data[offset] != ',' {
		return nil, ErrMissingTypeTags
	}

	tags, offset, err := readString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse type tags of '%s': %w", address, err)
	}

	msg.Args = make([]Argument, 0, len(tags)-1)

	for _, tag := range []byte(tags[1:]) {
		var arg Argument

		arg, offset, err = readArgument(data, offset, Type(tag))
		if err != nil {
			return nil, fmt.Errorf("Failed to parse arguments of '%s': %w", address, err)
		}

		msg.Args = append(msg.Args, arg)
	}

	return msg, nil
}

func readArgument(data []byte, offset int, tag Type) (Argument, int, error) {
	switch tag {
	case TypeInt32:
		if offset+4 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		v := int32(binary.BigEndian.Uint32(data[offset:]))
		return Argument{Value: int64(v), Type: tag}, offset + 4, nil

	case TypeInt64:
		if offset+8 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		v := int64(binary.BigEndian.Uint64(data[offset:]))
		return Argument{Value: v, Type: tag}, offset + 8, nil

	case TypeFloat32:
		if offset+4 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		v := math.Float32frombits(binary.BigEndian.Uint32(data[offset:]))
		return Argument{Value: float64(v), Type: tag}, offset + 4, nil

	case TypeFloat64:
		if offset+8 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		v := math.Float64frombits(binary.BigEndian.Uint64(data[offset:]))
		return Argument{Value: v, Type: tag}, offset + 8, nil

	case TypeTimeTag:
		if offset+8 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		v := TimeTag(binary.BigEndian.Uint64(data[offset:]))
		return Argument{Value: v, Type: tag}, offset + 8, nil

	case TypeString, TypeSymbol:
		s, next, err := readString(data, offset)
		if err != nil {
			return Argument{}, 0, err
		}
		return Argument{Value: s, Type: tag}, next, nil

	case TypeBlob:
		if offset+4 > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		size := int(int32(binary.BigEndian.Uint32(data[offset:])))
		offset += 4
		if size < 0 || offset+size > len(data) {
			return Argument{}, 0, ErrPacketTooShort
		}
		blob := make([]byte, size)
		copy(blob, data[offset:offset+size])
		return Argument{Value: blob, Type: tag}, offset + padded(size), nil

	case TypeTrue:
		return Argument{Value: true, Type: tag}, offset, nil

	case TypeFalse:
		return Argument{Value: false, Type: tag}, offset, nil

	case TypeNil:
		return Argument{Value: nil, Type: tag}, offset, nil

	case TypeBang:
		return Argument{Value: Bang{}, Type: tag}, offset, nil

	default:
		return Argument{}, 0, fmt.Errorf("'%c': %w", byte(tag), ErrUnsupportedType)
	}
}

// readString reads a null terminated, 4 byte aligned OSC string starting at
// offset. It returns the string and the offset of the next field.
func readString(data []byte, offset int) (string, int, error) {
	end := bytes.IndexByte(data[offset:], 0)
	if end < 0 {
		return "", 0, ErrUnterminatedString
	}

	s := string(data[offset : offset+end])
	next := offset + padded(end+1)

	if next > len(data) {
		// Some encoders omit the final padding of the last field
		next = len(data)
	}

	return s, next, nil
}

// padded rounds n up to the next multiple of 4.
func padded(n int) int {
	return (n + 3) &^ 3
}
