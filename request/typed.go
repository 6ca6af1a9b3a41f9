package request

import (
	"context"
	"fmt"

	"github.com/luma/eosc/protocol"
)

// Request is a Descriptor with a typed result.
type Request[T any] struct {
	Message       *protocol.Message
	ResponseCount int
	RecordTarget  bool
	Unpack        func(responses []*protocol.Message) (T, error)
}

func (r Request[T]) Descriptor() Descriptor {
	return Descriptor{
		Message:       r.Message,
		ResponseCount: r.ResponseCount,
		RecordTarget:  r.RecordTarget,
		Unpack: func(responses []*protocol.Message) (interface{}, error) {
			return r.Unpack(responses)
		},
	}
}

// Wait waits for p and converts its result to T. A nil result, a record
// target that does not exist, is returned as the zero value of T.
func Wait[T any](ctx context.Context, p *Pending) (T, error) {
	var zero T

	result, err := p.Wait(ctx)
	if err != nil || result == nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("Request for '%s' produced %T, not %T", p.Message().Address, result, zero)
	}

	return typed, nil
}
