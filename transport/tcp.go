package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/protocol"
)

const (
	WriteQueueSize = 127
)

var (
	ErrWriteQueueFull = errors.New("Connection write queue is full")
	ErrNotStarted     = errors.New("TCP server has not been started")
)

// Handler serves messages read by the TCP server.
type Handler interface {
	ServeOSC(conn *TCPConn, msg *protocol.Message)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(conn *TCPConn, msg *protocol.Message)

func (f HandlerFunc) ServeOSC(conn *TCPConn, msg *protocol.Message) {
	f(conn, msg)
}

// TCP is a SLIP framed OSC server. It is the console side of the protocol and
// is used to stand in for a console.
type TCP struct {
	cancel     context.CancelFunc
	stopWaiter sync.WaitGroup

	addr string

	numListeners int
	listeners    []*TCPListener

	options Options

	log *zap.Logger
}

func NewTCP(options Options) *TCP {
	numListeners := options.NumListeners

	if numListeners < 1 || !options.Reuseport {
		numListeners = 1
	}

	if options.Log == nil {
		options.Log = zap.NewNop()
	}

	return &TCP{
		addr:         net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		numListeners: numListeners,
		listeners:    make([]*TCPListener, 0, numListeners),
		options:      options,
		log:          options.Log,
	}
}

// Start binds every listener before returning, connections are accepted in
// the background until Close is called or parentCtx is cancelled.
func (w *TCP) Start(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	w.cancel = cancel

	w.log.Info("Starting tcp listeners", zap.Int("count", w.numListeners), zap.String("addr", w.addr))

	addr := w.addr

	for i := 0; i < w.numListeners; i++ {
		listener, err := w.startListener(ctx, addr)
		if err != nil {
			cancel()
			return multierr.Append(fmt.Errorf("Failed to listen on %s: %w", addr, err), w.Close())
		}

		// With port 0 the remaining listeners share the port picked for the first
		addr = listener.Addr().String()
	}

	return nil
}

// Addr returns the address of the first listener.
func (w *TCP) Addr() net.Addr {
	if len(w.listeners) == 0 {
		return nil
	}

	return w.listeners[0].Addr()
}

func (w *TCP) startListener(ctx context.Context, addr string) (*TCPListener, error) {
	listener := NewTCPListener(
		ctx,
		w.options,
		w.log.Named("listener").With(zap.Int("listener", len(w.listeners))),
	)

	if err := listener.Bind(addr); err != nil {
		return nil, err
	}

	w.listeners = append(w.listeners, listener)

	w.stopWaiter.Add(1)

	go func() {
		defer w.stopWaiter.Done()

		if err := listener.Serve(); err != nil {
			// not fatal, the remaining listeners keep serving
			w.log.Error("Failed to accept", zap.Error(err))
		}
	}()

	return listener, nil
}

// Broadcast queues msg on every open connection of every listener.
func (w *TCP) Broadcast(msg *protocol.Message) (err error) {
	if len(w.listeners) == 0 {
		return ErrNotStarted
	}

	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	frame := protocol.EncodeFrame(data)

	for _, listener := range w.listeners {
		err = multierr.Append(err, listener.broadcast(frame))
	}

	return err
}

// Close immediately closes all active listeners and connections.
func (w *TCP) Close() (err error) {
	w.log.Info("Stopping TCP server")

	if w.cancel != nil {
		w.cancel()
	}

	// Tell listeners to stop
	for _, listener := range w.listeners {
		err = multierr.Append(err, listener.Close())
	}

	w.stopWaiter.Wait()
	w.log.Info("TCP server stopped")

	return err
}

type TCPListener struct {
	ctx context.Context

	listener net.Listener
	options  Options
	log      *zap.Logger

	mu          sync.Mutex
	activeConns map[*TCPConn]struct{}

	loopWaiter sync.WaitGroup
}

func NewTCPListener(ctx context.Context, options Options, log *zap.Logger) *TCPListener {
	return &TCPListener{
		ctx:         ctx,
		options:     options,
		activeConns: make(map[*TCPConn]struct{}),
		log:         log,
	}
}

func (t *TCPListener) Bind(addr string) (err error) {
	if t.options.Reuseport {
		t.listener, err = reuseport.Listen("tcp", addr)
	} else {
		t.listener, err = net.Listen("tcp", addr)
	}

	return err
}

func (t *TCPListener) Addr() net.Addr {
	return t.listener.Addr()
}

// Close stops accepting and closes every connection.
func (t *TCPListener) Close() error {
	err := t.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}

	t.mu.Lock()
	conns := make([]*TCPConn, 0, len(t.activeConns))
	for conn := range t.activeConns {
		conns = append(conns, conn)
	}
	t.mu.Unlock()

	for _, conn := range conns {
		err = multierr.Append(err, conn.Close())
	}

	t.loopWaiter.Wait()

	return err
}

// Serve accepts connections until the listener is closed.
func (t *TCPListener) Serve() error {
	go func() {
		<-t.ctx.Done()

		if err := t.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			t.log.Warn("TCP Listener did not close cleanly", zap.Error(err))
		}
	}()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				// The listener was closed while we were waiting for new connections
				// that's fine.
				t.log.Info("Listener stopped")
				return nil
			}

			return err
		}

		tcpConn := NewTCPConn(t.ctx, conn, t.options, t.log.Named("conn"))

		t.addConn(tcpConn)
		t.loopWaiter.Add(1)

		go func() {
			defer t.loopWaiter.Done()
			defer t.removeConn(tcpConn)

			tcpConn.Start()
		}()
	}
}

func (t *TCPListener) broadcast(frame []byte) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for conn := range t.activeConns {
		if werr := conn.writeFrame(frame); werr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", conn.RemoteAddr(), werr))
		}
	}

	return err
}

func (t *TCPListener) addConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeConns[conn] = struct{}{}
}

func (t *TCPListener) removeConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.activeConns, conn)
}

// TCPConn is one client connection to the TCP server.
type TCPConn struct {
	ctx        context.Context
	cancel     context.CancelFunc
	loopWaiter sync.WaitGroup

	conn net.Conn

	writeQueue chan []byte

	handler      Handler
	maxFrameSize int
	trace        bool
	metrics      *metrics.Metrics

	log *zap.Logger
}

func NewTCPConn(parentCtx context.Context, conn net.Conn, options Options, log *zap.Logger) *TCPConn {
	ctx, cancel := context.WithCancel(parentCtx)

	return &TCPConn{
		ctx:          ctx,
		cancel:       cancel,
		conn:         conn,
		writeQueue:   make(chan []byte, WriteQueueSize),
		handler:      options.Handler,
		maxFrameSize: options.MaxFrameSize,
		trace:        options.Trace,
		metrics:      options.Metrics,
		log:          log.With(zap.String("remote", conn.RemoteAddr().String())),
	}
}

func (t *TCPConn) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Close stops both loops and closes the connection.
func (t *TCPConn) Close() error {
	if !t.isRunning() {
		// already stopped
		return nil
	}

	t.cancel()

	err := t.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}

// Start runs the read and write loops and blocks until both have exited.
func (t *TCPConn) Start() {
	t.metrics.ConnectionOpened()
	defer t.metrics.ConnectionClosed()

	t.loopWaiter.Add(2)

	go func() {
		// Unblocks the read loop when the server context is cancelled
		<-t.ctx.Done()
		t.conn.Close()
	}()

	go func() {
		defer t.loopWaiter.Done()
		t.ReadLoop()
	}()

	go func() {
		defer t.loopWaiter.Done()
		t.WriteLoop()
	}()

	t.loopWaiter.Wait()
	t.conn.Close()
}

func (t *TCPConn) ReadLoop() {
	log := t.log.Named("readLoop")

	defer func() {
		// A closed read side ends the connection, the write loop has nothing
		// left to answer
		t.cancel()
		log.Debug("Read loop exited")
	}()

	frames := protocol.NewFrameReader(t.conn, t.maxFrameSize)

	var joiner protocol.ListJoiner

	for {
		frame, err := frames.ReadFrame()
		if err != nil {
			if protocol.IsFrameError(err) {
				t.metrics.DecodeError(metrics.DecodeFrame)
				log.Warn("Dropped malformed frame", zap.Error(err))
				continue
			}

			if t.isRunning() && !isClosedConnError(err) {
				log.Info("Client disconnected", zap.Error(err))
			}
			return
		}

		t.metrics.FrameRead()

		msg, err := protocol.ParseMessage(frame)
		if err != nil {
			t.metrics.DecodeError(metrics.DecodeOSC)
			log.Warn("Failed to decode client packet", zap.Error(err))
			continue
		}

		msg, err = joiner.Process(msg)
		if err != nil {
			t.metrics.ListJoinError()
			log.Warn("Failed to join client list", zap.Error(err))
		}

		if msg == nil {
			continue
		}

		if t.trace {
			log.Debug("Read", zap.Stringer("msg", msg))
		}

		if t.handler != nil {
			t.handler.ServeOSC(t, msg)
		}
	}
}

func (t *TCPConn) WriteLoop() {
	log := t.log.Named("writeLoop")

	defer log.Debug("Write loop exited")

	for {
		select {
		case <-t.ctx.Done():
			return

		case frame := <-t.writeQueue:
			if _, err := t.conn.Write(frame); err != nil {
				if !isClosedConnError(err) {
					log.Warn("Failed to write from write queue", zap.Error(err))
				}
				t.cancel()
				return
			}

			t.metrics.FrameWritten()
		}
	}
}

// Write queues msg for the write loop.
func (t *TCPConn) Write(msg *protocol.Message) error {
	data, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	if t.trace {
		t.log.Debug("Write", zap.Stringer("msg", msg))
	}

	return t.writeFrame(protocol.EncodeFrame(data))
}

// WriteRaw queues bytes exactly as given, they are not framed.
func (t *TCPConn) WriteRaw(data []byte) error {
	return t.writeFrame(data)
}

func (t *TCPConn) writeFrame(frame []byte) error {
	if !t.isRunning() {
		return net.ErrClosed
	}

	select {
	case t.writeQueue <- frame:
		return nil
	default:
		return ErrWriteQueueFull
	}
}

// isRunning returns true if Close has not been called
func (t *TCPConn) isRunning() bool {
	select {
	case <-t.ctx.Done():
		// if we can read on this channel then it's been closed
		return false

	default:
		return true
	}
}

func isClosedConnError(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		strings.Contains(err.Error(), "transport endpoint is not connected") ||
		strings.Contains(err.Error(), "connection reset by peer")
}
