package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/request"
	"github.com/luma/eosc/router"
	"github.com/luma/eosc/transport"
)

const (
	eosPrefix = "/eos/"
	getPrefix = records.RequestPrefix + "/"
)

var (
	ErrNotConnected     = errors.New("Console is not connected")
	ErrAlreadyConnected = errors.New("Console is already connected or connecting")
	ErrDisconnected     = errors.New("Console connection closed")
	ErrInvalidAddress   = errors.New("Message address must start with /eos/")
	ErrReservedAddress  = errors.New("/eos/get/ messages can only be sent as requests")
	ErrUnknownValue     = errors.New("Console sent a value outside the known set")
)

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Console is a connection to an Eos family lighting console.
//
// Record target modules are available as fields once the Console is
// constructed, their methods fail with ErrNotConnected until Connect
// succeeds.
type Console struct {
	CueLists          *RecordTargetModule[records.CueList]
	Cues              *CuesModule
	Curves            *RecordTargetModule[records.Curve]
	Effects           *RecordTargetModule[records.Effect]
	Groups            *RecordTargetModule[records.Group]
	Macros            *MacrosModule
	MagicSheets       *RecordTargetModule[records.MagicSheet]
	Channels          *ChannelsModule
	PixelMaps         *RecordTargetModule[records.PixelMap]
	Presets           *RecordTargetModule[records.Preset]
	Snapshots         *RecordTargetModule[records.Snapshot]
	Subs              *SubsModule
	IntensityPalettes *RecordTargetModule[records.Palette]
	FocusPalettes     *RecordTargetModule[records.Palette]
	ColorPalettes     *RecordTargetModule[records.Palette]
	BeamPalettes      *RecordTargetModule[records.Palette]

	FaderBanks         *FaderBanksModule
	CueListBanks       *CueListBanksModule
	DirectSelectsBanks *DirectSelectsBanksModule

	options Options

	router   *router.Router
	requests *request.Manager

	notifications chan Notification

	// mu guards the connection state below, sendMu orders registration and
	// writes so the request queue matches the wire
	mu       sync.Mutex
	sendMu   sync.Mutex
	state    ConnectionState
	conn     *transport.Conn
	loopDone chan struct{}
	version  string

	log *zap.Logger
}

func New(options Options) *Console {
	options = options.withDefaults()

	c := &Console{
		options:       options,
		router:        router.New(),
		requests:      request.NewManager(options.Log.Named("requests"), options.Metrics),
		notifications: make(chan Notification, options.NotificationBuffer),
		log:           options.Log,
	}

	c.CueLists = NewRecordTargetModule(c, records.CueLists)
	c.Cues = &CuesModule{session: c}
	c.Curves = NewRecordTargetModule(c, records.Curves)
	c.Effects = NewRecordTargetModule(c, records.Effects)
	c.Groups = NewRecordTargetModule(c, records.Groups)
	c.Macros = &MacrosModule{RecordTargetModule: NewRecordTargetModule(c, records.Macros)}
	c.MagicSheets = NewRecordTargetModule(c, records.MagicSheets)
	c.Channels = &ChannelsModule{session: c}
	c.PixelMaps = NewRecordTargetModule(c, records.PixelMaps)
	c.Presets = NewRecordTargetModule(c, records.Presets)
	c.Snapshots = NewRecordTargetModule(c, records.Snapshots)
	c.Subs = &SubsModule{RecordTargetModule: NewRecordTargetModule(c, records.Subs)}
	c.IntensityPalettes = NewRecordTargetModule(c, records.IntensityPalettes)
	c.FocusPalettes = NewRecordTargetModule(c, records.FocusPalettes)
	c.ColorPalettes = NewRecordTargetModule(c, records.ColorPalettes)
	c.BeamPalettes = NewRecordTargetModule(c, records.BeamPalettes)
	c.FaderBanks = &FaderBanksModule{pagedBanks{session: c, bankType: "fader"}}
	c.CueListBanks = &CueListBanksModule{pagedBanks{session: c, bankType: "cuelist"}}
	c.DirectSelectsBanks = &DirectSelectsBanksModule{pagedBanks{session: c, bankType: "ds"}}

	c.initRoutes()

	return c
}

// Connect dials the console, reads its version and subscribes to show data
// change notifications. It fails if the whole sequence takes longer than
// Options.ConnectTimeout.
func (c *Console) Connect(parentCtx context.Context) error {
	c.mu.Lock()
	if c.state != Disconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = Connecting
	c.mu.Unlock()

	c.notify(ConnectionStateChanged{State: Connecting})

	ctx, cancel := context.WithTimeout(parentCtx, c.options.ConnectTimeout)
	defer cancel()

	c.log.Info("Connecting to console", zap.String("host", c.options.Host), zap.Int("port", c.options.Port))

	conn, err := transport.Dial(ctx, c.options.Host, c.options.Port, transport.ConnOptions{
		Timeout:      c.options.ConnectTimeout,
		MaxFrameSize: c.options.MaxFrameSize,
		Metrics:      c.options.Metrics,
		Log:          c.log.Named("transport"),
	})
	if err != nil {
		c.setDisconnected()
		return fmt.Errorf("Failed to connect to %s: %w", c.options.Host, err)
	}

	loopDone := make(chan struct{})

	c.mu.Lock()
	c.conn = conn
	c.loopDone = loopDone
	c.mu.Unlock()

	go c.dispatch(conn, loopDone)

	version, err := Do(ctx, c, records.VersionRequest())
	if err == nil {
		err = c.SendMessage(ctx, "/eos/subscribe", 1)
	}

	if err != nil {
		c.log.Warn("Console handshake failed", zap.Error(err))
		conn.Destroy()
		<-loopDone
		return fmt.Errorf("Console handshake failed: %w", err)
	}

	c.mu.Lock()
	c.version = version
	c.state = Connected
	c.mu.Unlock()

	c.log.Info("Connected", zap.String("version", version))
	c.notify(ConnectionStateChanged{State: Connected})

	return nil
}

// Disconnect closes the connection. Requests still waiting for responses fail
// with ErrDisconnected.
func (c *Console) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	loopDone := c.loopDone
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	c.log.Info("Disconnecting from console")

	err := conn.Destroy()
	<-loopDone

	// The dispatch loop has cancelled everything queued before it exited,
	// this catches requests registered since
	c.requests.CancelAll(ErrDisconnected)

	return err
}

// State returns the current connection state.
func (c *Console) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Version returns the console software version read during Connect.
func (c *Console) Version() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

// Notifications delivers everything the console reports on its own. The
// channel is never closed, a lost connection is reported with
// ConnectionStateChanged.
func (c *Console) Notifications() <-chan Notification {
	return c.notifications
}

// Request registers descriptor and writes its message. Registration and the
// write happen under one lock so the request queue matches the wire order.
func (c *Console) Request(ctx context.Context, descriptor request.Descriptor) (*request.Pending, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	conn, err := c.connection()
	if err != nil {
		return nil, err
	}

	p := c.requests.Register(descriptor)

	if err := conn.Write(ctx, p.Message()); err != nil {
		c.requests.Abandon(p, err)
		return nil, fmt.Errorf("Failed to send '%s': %w", p.Message().Address, err)
	}

	return p, nil
}

// Records reads record targets of type t, see NewAnyModule.
func (c *Console) Records(t records.TargetType) (*AnyModule, error) {
	return NewAnyModule(c, t)
}

// RequestTimeout is Options.RequestTimeout.
func (c *Console) RequestTimeout() time.Duration {
	return c.options.RequestTimeout
}

// SendMessage sends a message in the /eos/ namespace. /eos/get/ messages are
// refused, their responses would desync the request queue.
func (c *Console) SendMessage(ctx context.Context, address string, args ...interface{}) error {
	if !strings.HasPrefix(address, eosPrefix) {
		return fmt.Errorf("'%s': %w", address, ErrInvalidAddress)
	}

	if strings.HasPrefix(address, getPrefix) {
		return fmt.Errorf("'%s': %w", address, ErrReservedAddress)
	}

	oscArgs, err := protocol.NewArguments(args...)
	if err != nil {
		return fmt.Errorf("'%s': %w", address, err)
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	conn, err := c.connection()
	if err != nil {
		return err
	}

	return conn.Write(ctx, protocol.NewMessage(address, oscArgs...))
}

// ExecuteCommand types cmd on the command line. Each "%1", "%2" ... in cmd is
// replaced by the matching substitution. With newCommand set the command
// line is cleared first.
func (c *Console) ExecuteCommand(ctx context.Context, cmd string, substitutions []string, newCommand bool) error {
	address := "/eos/cmd"
	if newCommand {
		address = "/eos/newcmd"
	}

	args := make([]interface{}, 0, len(substitutions)+1)
	args = append(args, cmd)

	for _, s := range substitutions {
		args = append(args, s)
	}

	return c.SendMessage(ctx, address, args...)
}

// ChangeUser switches the user the connection acts as.
func (c *Console) ChangeUser(ctx context.Context, userID int) error {
	return c.SendMessage(ctx, "/eos/user", userID)
}

func (c *Console) connection() (*transport.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	return c.conn, nil
}

// dispatch routes every message from conn until it closes.
func (c *Console) dispatch(conn *transport.Conn, done chan struct{}) {
	log := c.log.Named("dispatch")

	defer close(done)

	for msg := range conn.Messages() {
		if c.options.Trace {
			log.Debug("Received", zap.Stringer("msg", msg))
		}

		if !c.router.Route(msg) {
			log.Debug("No route", zap.String("address", msg.Address))
		}
	}

	err := conn.Err()
	if err == nil {
		err = transport.ErrConnClosed
	}

	log.Info("Connection closed", zap.Error(err))

	c.requests.CancelAll(fmt.Errorf("%w: %w", ErrDisconnected, err))

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()

	c.setDisconnected()
}

func (c *Console) setDisconnected() {
	c.mu.Lock()
	changed := c.state != Disconnected
	c.state = Disconnected
	c.version = ""
	c.mu.Unlock()

	if changed {
		c.notify(ConnectionStateChanged{State: Disconnected})
	}
}

// notify never blocks, the dispatch loop must keep feeding the request
// queue.
func (c *Console) notify(n Notification) {
	event := EventName(n)

	select {
	case c.notifications <- n:
		c.options.Metrics.Notification(event)
	default:
		c.options.Metrics.NotificationDropped()
		c.log.Warn("Notification buffer is full, dropped notification", zap.String("event", event))
	}
}

func (c *Console) initRoutes() {
	log := c.log.Named("router")

	for _, route := range implicitOutput {
		decode := route.decode
		pattern := route.pattern

		c.router.MustOn(pattern, func(msg *protocol.Message, params router.Params) {
			n, err := decode(msg, params)
			if err != nil {
				log.Warn("Failed to decode console output", zap.String("route", pattern), zap.Stringer("msg", msg), zap.Error(err))
				return
			}

			c.notify(n)
		})
	}

	c.router.
		MustOn(records.ResponsePrefix+"/*", func(msg *protocol.Message, _ router.Params) {
			if err := c.requests.HandleResponse(msg); err != nil {
				log.Warn("Dropped response", zap.Error(err))
			}
		}).
		MustOn("/eos/*", func(msg *protocol.Message, _ router.Params) {
			log.Warn("Unhandled console message", zap.Stringer("msg", msg))
		}).
		MustOn("/*", func(msg *protocol.Message, _ router.Params) {
			c.notify(RawMessage{Message: msg})
		})
}
