package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const (
	// MaxListArguments bounds the argument count a list may declare
	MaxListArguments = DefaultMaxFrameSize
)

var (
	ErrListTooLong       = errors.New("List convention count is above the supported maximum")
	ErrListOrphanedChunk = errors.New("List convention chunk arrived without a partial argument list to join")
	ErrListOutOfSequence = errors.New("List convention chunk arrived out of sequence")
	ErrListInterleaved   = errors.New("List convention chunk arrived for a different address than the partial argument list")

	listSuffix = regexp.MustCompile(`/list/(\d+)/(\d+)$`)
)

// ListSuffix holds the parsed `/list/<index>/<count>` suffix of an address.
type ListSuffix struct {
	// Base is the address without the suffix
	Base  string
	Index int
	Count int
}

// ParseListSuffix extracts the list convention suffix from address. ok is
// false if the address does not have one.
func ParseListSuffix(address string) (suffix ListSuffix, ok bool) {
	loc := listSuffix.FindStringSubmatchIndex(address)
	if loc == nil {
		return ListSuffix{}, false
	}

	index, err := strconv.Atoi(address[loc[2]:loc[3]])
	if err != nil {
		return ListSuffix{}, false
	}

	count, err := strconv.Atoi(address[loc[4]:loc[5]])
	if err != nil {
		return ListSuffix{}, false
	}

	return ListSuffix{Base: address[:loc[0]], Index: index, Count: count}, true
}

// ListJoiner re-assembles messages that the console split with the list
// convention. It holds at most one partial message at a time and is not safe
// for concurrent use, it belongs to a single stream.
type ListJoiner struct {
	partial *Message
}

// Process takes the next message from the stream. It returns the message to
// release, or nil if more chunks are needed.
//
// Messages without a list suffix are returned unchanged. An error means the
// logical message being joined is lost; the joiner is ready for the next one.
func (j *ListJoiner) Process(msg *Message) (*Message, error) {
	suffix, ok := ParseListSuffix(msg.Address)
	if !ok {
		return msg, nil
	}

	if suffix.Count > MaxListArguments {
		j.discard(suffix.Base)
		return nil, fmt.Errorf("'%s' declares %d arguments: %w", suffix.Base, suffix.Count, ErrListTooLong)
	}

	if suffix.Index > suffix.Count-len(msg.Args) {
		j.discard(suffix.Base)
		return nil, fmt.Errorf("'%s' has %d arguments at index %d of %d: %w",
			suffix.Base, len(msg.Args), suffix.Index, suffix.Count, ErrListOutOfSequence)
	}

	// Everything arrived in one chunk
	if suffix.Index == 0 && len(msg.Args) == suffix.Count {
		return &Message{Address: suffix.Base, Args: msg.Args}, nil
	}

	if suffix.Index == 0 {
		var err error

		if j.partial != nil {
			err = fmt.Errorf("new list for '%s' while '%s' has %d arguments: %w",
				suffix.Base, j.partial.Address, len(j.partial.Args), ErrListOutOfSequence)
		}

		args := make([]Argument, len(msg.Args))
		copy(args, msg.Args)
		j.partial = &Message{Address: suffix.Base, Args: args}

		return nil, err
	}

	if j.partial == nil {
		return nil, fmt.Errorf("'%s' at index %d: %w", suffix.Base, suffix.Index, ErrListOrphanedChunk)
	}

	if j.partial.Address != suffix.Base {
		partial := j.partial
		j.partial = nil

		return nil, fmt.Errorf("'%s' while joining '%s': %w", suffix.Base, partial.Address, ErrListInterleaved)
	}

	if len(j.partial.Args) != suffix.Index {
		have := len(j.partial.Args)
		j.partial = nil

		return nil, fmt.Errorf("'%s' expected index %d, received %d: %w",
			suffix.Base, have, suffix.Index, ErrListOutOfSequence)
	}

	j.partial.Args = append(j.partial.Args, msg.Args...)

	if len(j.partial.Args) < suffix.Count {
		return nil, nil
	}

	full := j.partial
	j.partial = nil

	return full, nil
}

// discard drops the partial message if it is being joined for base.
func (j *ListJoiner) discard(base string) {
	if j.partial != nil && j.partial.Address == base {
		j.partial = nil
	}
}

// Pending is true while a partial message is being joined.
func (j *ListJoiner) Pending() bool {
	return j.partial != nil
}
