package transport

import (
	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
)

type Options struct {
	// Host to listen on
	Host string

	// Port to listen on, 0 picks a free port
	Port int

	// Reuseport controls setting SO_REUSEPORT, it is required when
	// NumListeners is more than 1
	Reuseport bool

	// Trace logs every decoded and written packet. This is only useful in
	// local debugging
	Trace bool

	NumListeners int

	// MaxFrameSize bounds a single SLIP frame, zero means protocol.DefaultMaxFrameSize
	MaxFrameSize int

	// Handler receives every message read from a client
	Handler Handler

	Metrics *metrics.Metrics

	Log *zap.Logger
}
