package client

import (
	"time"

	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
)

const (
	DefaultHost               = "localhost"
	DefaultConnectTimeout     = 5 * time.Second
	DefaultNotificationBuffer = 256
)

type Options struct {
	// Host of the console, defaults to DefaultHost
	Host string

	// Port of the console's OSC over TCP listener, 0 means transport.DefaultPort
	Port int

	// ConnectTimeout bounds Connect, dial and handshake together
	ConnectTimeout time.Duration

	// RequestTimeout bounds each wait for a response, zero waits for as long
	// as the caller's context allows
	RequestTimeout time.Duration

	// NotificationBuffer is the capacity of the Notifications channel.
	// Notifications are dropped while it is full.
	NotificationBuffer int

	// MaxFrameSize bounds a single SLIP frame, zero means protocol.DefaultMaxFrameSize
	MaxFrameSize int

	// Trace logs every routed message
	Trace bool

	Metrics *metrics.Metrics

	Log *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = DefaultHost
	}

	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}

	if o.NotificationBuffer <= 0 {
		o.NotificationBuffer = DefaultNotificationBuffer
	}

	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	return o
}
