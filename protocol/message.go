package protocol

import (
	"strings"
)

// Message is a single OSC message.
type Message struct {
	Address string
	Args    []Argument
}

func NewMessage(address string, args ...Argument) *Message {
	if args == nil {
		args = []Argument{}
	}

	return &Message{Address: address, Args: args}
}

// Arg returns the argument at index i, ok is false if the message has fewer
// arguments.
func (m *Message) Arg(i int) (arg Argument, ok bool) {
	if i < 0 || i >= len(m.Args) {
		return Argument{}, false
	}

	return m.Args[i], true
}

// Segments returns the address split on '/', without the leading empty
// segment.
func (m *Message) Segments() []string {
	return SplitAddress(m.Address)
}

// String formats the message the way the Eos diagnostics tab does, for
// example `/eos/out/get/version, 3.2.5.13(s), 0(i)`.
func (m *Message) String() string {
	var b strings.Builder
	b.WriteString(m.Address)

	for _, arg := range m.Args {
		b.WriteString(", ")
		b.WriteString(arg.String())
	}

	return b.String()
}

// SplitAddress splits an OSC address into its segments.
func SplitAddress(address string) []string {
	return strings.Split(strings.TrimPrefix(address, "/"), "/")
}
