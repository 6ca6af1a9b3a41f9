package protocol

import (
	"bufio"
	"errors"
	"io"
)

const (
	SlipEnd    byte = 0xC0
	SlipEsc    byte = 0xDB
	SlipEscEnd byte = 0xDC
	SlipEscEsc byte = 0xDD

	// DefaultMaxFrameSize bounds the memory a single frame may use.
	DefaultMaxFrameSize = 1 << 20
)

var (
	ErrSlipInvalidEscape = errors.New("SLIP frame is malformed, ESC is followed by an invalid byte")
	ErrFrameTooLarge     = errors.New("SLIP frame is larger than the frame size limit")
)

// EncodeFrame escapes data and wraps it in END bytes.
func EncodeFrame(data []byte) []byte {
	frame := make([]byte, 0, len(data)+len(data)/8+2)
	frame = append(frame, SlipEnd)

	for _, b := range data {
		switch b {
		case SlipEnd:
			frame = append(frame, SlipEsc, SlipEscEnd)
		case SlipEsc:
			frame = append(frame, SlipEsc, SlipEscEsc)
		default:
			frame = append(frame, b)
		}
	}

	return append(frame, SlipEnd)
}

// FrameError is returned by FrameReader.ReadFrame for a frame that could not
// be decoded. The reader has already skipped past the bad frame, so reading
// can continue.
type FrameError struct {
	Err error
}

func (e *FrameError) Error() string {
	return e.Err.Error()
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFrameError is true if err only affected a single frame.
func IsFrameError(err error) bool {
	var frameErr *FrameError
	return errors.As(err, &frameErr)
}

// FrameReader reads SLIP frames from a byte stream.
type FrameReader struct {
	r            *bufio.Reader
	maxFrameSize int
}

func NewFrameReader(r io.Reader, maxFrameSize int) *FrameReader {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}

	return &FrameReader{
		r:            bufio.NewReader(r),
		maxFrameSize: maxFrameSize,
	}
}

// ReadFrame returns the next non-empty frame. Errors wrapped in a FrameError
// only affect that frame, any other error comes from the underlying reader and
// ends the stream. A partial frame at EOF is dropped.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	frame := make([]byte, 0, 64)

	var (
		escaped bool
		bad     error
	)

	for {
		b, err := f.r.ReadByte()
		if err != nil {
			return nil, err
		}

		if b == SlipEnd {
			if bad != nil {
				return nil, &FrameError{Err: bad}
			}

			if escaped {
				return nil, &FrameError{Err: ErrSlipInvalidEscape}
			}

			if len(frame) == 0 {
				// Back to back END bytes delimit nothing
				continue
			}

			return frame, nil
		}

		if bad != nil {
			// Discard the rest of a bad frame
			continue
		}

		if escaped {
			escaped = false

			switch b {
			case SlipEscEnd:
				b = SlipEnd
			case SlipEscEsc:
				b = SlipEsc
			default:
				bad = ErrSlipInvalidEscape
				continue
			}
		} else if b == SlipEsc {
			escaped = true
			continue
		}

		if len(frame) >= f.maxFrameSize {
			bad = ErrFrameTooLarge
			frame = frame[:0]
			continue
		}

		frame = append(frame, b)
	}
}
