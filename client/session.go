package client

import (
	"context"
	"time"

	"github.com/luma/eosc/request"
)

// Session is what the modules need from a console connection. Console
// implements it.
type Session interface {
	// Request registers a request and writes its message
	Request(ctx context.Context, descriptor request.Descriptor) (*request.Pending, error)

	// SendMessage writes a message that has no response
	SendMessage(ctx context.Context, address string, args ...interface{}) error

	// RequestTimeout bounds each wait for a response, zero means no bound
	RequestTimeout() time.Duration
}

// Do sends r through s and waits for its result.
func Do[T any](ctx context.Context, s Session, r request.Request[T]) (T, error) {
	p, err := s.Request(ctx, r.Descriptor())
	if err != nil {
		var zero T
		return zero, err
	}

	return wait[T](ctx, s, p)
}

func wait[T any](ctx context.Context, s Session, p *request.Pending) (T, error) {
	if timeout := s.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return request.Wait[T](ctx, p)
}
