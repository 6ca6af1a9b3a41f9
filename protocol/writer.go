package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// MarshalBinary encodes the message as an OSC packet.
func (m *Message) MarshalBinary() ([]byte, error) {
	if len(m.Address) == 0 || m.Address[0] != '/' {
		return nil, ErrMissingAddress
	}

	var body bytes.Buffer

	tags := make([]byte, 0, len(m.Args)+1)
	tags = append(tags, ',')

	for i, arg := range m.Args {
		tag, err := writeArgument(&body, arg)
		if err != nil {
			return nil, fmt.Errorf("Failed to encode argument %d of '%s': %w", i, m.Address, err)
		}

		tags = append(tags, byte(tag))
	}

	var packet bytes.Buffer
	writeString(&packet, m.Address)
	writeString(&packet, string(tags))
	packet.Write(body.Bytes())

	return packet.Bytes(), nil
}

// WriteMessage encodes msg, frames it with SLIP and writes it to w in a single
// Write call.
func WriteMessage(w io.Writer, msg *Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(EncodeFrame(data))
	return err
}

func writeArgument(w *bytes.Buffer, arg Argument) (Type, error) {
	tag := arg.Type
	if tag == 0 {
		inferred, err := NewArgument(arg.Value)
		if err != nil {
			return 0, err
		}
		tag = inferred.Type
	}

	var scratch [8]byte

	switch tag {
	case TypeInt32:
		v, err := arg.AsInt()
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint32(scratch[:4], uint32(int32(v)))
		w.Write(scratch[:4])

	case TypeInt64:
		v, ok := arg.Value.(int64)
		if !ok {
			return 0, arg.mismatch("an integer")
		}
		binary.BigEndian.PutUint64(scratch[:], uint64(v))
		w.Write(scratch[:])

	case TypeFloat32:
		v, err := arg.AsFloat()
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint32(scratch[:4], math.Float32bits(float32(v)))
		w.Write(scratch[:4])

	case TypeFloat64:
		v, err := arg.AsFloat()
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint64(scratch[:], math.Float64bits(v))
		w.Write(scratch[:])

	case TypeTimeTag:
		v, err := arg.AsTimeTag()
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint64(scratch[:], uint64(v))
		w.Write(scratch[:])

	case TypeString, TypeSymbol:
		v, err := arg.AsString()
		if err != nil {
			return 0, err
		}
		writeString(w, v)

	case TypeBlob:
		v, err := arg.AsBlob()
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint32(scratch[:4], uint32(len(v)))
		w.Write(scratch[:4])
		w.Write(v)
		w.Write(make([]byte, padded(len(v))-len(v)))

	case TypeTrue, TypeFalse:
		v, err := arg.AsBool()
		if err != nil {
			return 0, err
		}
		if v {
			tag = TypeTrue
		} else {
			tag = TypeFalse
		}

	case TypeNil, TypeBang:
		// No payload

	default:
		return 0, fmt.Errorf("'%c': %w", byte(tag), ErrUnsupportedType)
	}

	return tag, nil
}

func writeString(w *bytes.Buffer, s string) {
	w.WriteString(s)

	// At least one null terminator, then pad to a multiple of 4
	n := len(s) + 1
	w.Write(make([]byte, padded(n)-len(s)))
}
