package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/protocol"
)

const (
	// DefaultPort is the console's OSC over TCP port for SLIP framed packets.
	DefaultPort = 3037

	DefaultDialTimeout = 5 * time.Second
)

var (
	ErrConnClosed = errors.New("Connection to the console is closed")
)

type ConnOptions struct {
	// Timeout bounds the dial, zero means DefaultDialTimeout
	Timeout time.Duration

	// MaxFrameSize bounds a single SLIP frame, zero means protocol.DefaultMaxFrameSize
	MaxFrameSize int

	Metrics *metrics.Metrics

	Log *zap.Logger
}

// Conn is a framed connection to a console. Decoded messages, with list
// convention chunks already joined, are delivered on Messages(). The channel
// is unbuffered: the read loop does not read more bytes from the socket until
// the previous message has been taken.
type Conn struct {
	ctx    context.Context
	cancel context.CancelFunc

	conn net.Conn

	writeMu sync.Mutex

	messages chan *protocol.Message
	done     chan struct{}

	errMu sync.Mutex
	err   error

	maxFrameSize int
	metrics      *metrics.Metrics
	log          *zap.Logger
}

// Dial connects to the console at host:port.
func Dial(ctx context.Context, host string, port int, options ConnOptions) (*Conn, error) {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	if port == 0 {
		port = DefaultPort
	}

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}

	return NewConn(conn, options), nil
}

// NewConn wraps an established connection and starts reading from it.
func NewConn(conn net.Conn, options ConnOptions) *Conn {
	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Conn{
		ctx:          ctx,
		cancel:       cancel,
		conn:         conn,
		messages:     make(chan *protocol.Message),
		done:         make(chan struct{}),
		maxFrameSize: options.MaxFrameSize,
		metrics:      options.Metrics,
		log:          log.With(zap.String("remote", conn.RemoteAddr().String())),
	}

	c.metrics.ConnectionOpened()

	go c.readLoop()

	return c
}

// Messages returns the decoded message stream. It is closed once the
// connection ends, Err then reports why.
func (c *Conn) Messages() <-chan *protocol.Message {
	return c.messages
}

// Done is closed once the read loop has exited.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the connection. It is ErrConnClosed after
// Destroy and io.EOF when the console hung up.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	return c.err
}

// Write encodes and frames msg and writes it in a single call, so concurrent
// writers never interleave frames.
func (c *Conn) Write(ctx context.Context, msg *protocol.Message) error {
	if !c.isRunning() {
		return ErrConnClosed
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	if _, err := c.conn.Write(protocol.EncodeFrame(data)); err != nil {
		if !c.isRunning() {
			return ErrConnClosed
		}
		return err
	}

	c.metrics.FrameWritten()

	return nil
}

// Destroy closes the connection immediately. Messages() is closed once the
// read loop notices.
func (c *Conn) Destroy() error {
	if !c.isRunning() {
		return nil
	}

	c.setErr(ErrConnClosed)
	c.cancel()

	return c.conn.Close()
}

func (c *Conn) readLoop() {
	log := c.log.Named("readLoop")

	defer func() {
		c.cancel()
		c.conn.Close()
		c.metrics.ConnectionClosed()

		close(c.messages)
		close(c.done)

		log.Debug("Read loop exited", zap.Error(c.Err()))
	}()

	frames := protocol.NewFrameReader(c.conn, c.maxFrameSize)

	var joiner protocol.ListJoiner

	for {
		frame, err := frames.ReadFrame()
		if err != nil {
			if protocol.IsFrameError(err) {
				c.metrics.DecodeError(metrics.DecodeFrame)
				log.Warn("Dropped malformed frame", zap.Error(err))
				continue
			}

			c.setErr(err)
			if !errors.Is(err, io.EOF) && c.isRunning() {
				log.Warn("Connection failed", zap.Error(err))
			}
			return
		}

		c.metrics.FrameRead()

		msg, err := protocol.ParseMessage(frame)
		if err != nil {
			if errors.Is(err, protocol.ErrBundle) {
				c.metrics.DecodeError(metrics.DecodeBundle)
				log.Warn("Ignored OSC bundle", zap.Int("size", len(frame)))
				continue
			}

			c.metrics.DecodeError(metrics.DecodeOSC)
			log.Warn("Dropped undecodable packet", zap.Error(err), zap.Int("size", len(frame)))
			continue
		}

		msg, err = joiner.Process(msg)
		if err != nil {
			c.metrics.ListJoinError()
			log.Error("List convention violated, logical message lost", zap.Error(err))
		}

		if msg == nil {
			continue
		}

		select {
		case c.messages <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// setErr keeps the first terminal error.
func (c *Conn) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	if c.err == nil {
		c.err = err
	}
}

// isRunning returns true if the connection has not ended
func (c *Conn) isRunning() bool {
	select {
	case <-c.ctx.Done():
		return false

	default:
		return true
	}
}
