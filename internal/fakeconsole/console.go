// Package fakeconsole stands in for an Eos console. It answers /eos/get/
// requests from a scripted show over the same SLIP framed OSC protocol and
// can push console output to every connected client.
package fakeconsole

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/router"
	"github.com/luma/eosc/transport"
)

const (
	DefaultVersion = "3.2.5.13"
)

type Options struct {
	Host string

	// Port to listen on, 0 picks a free port
	Port int

	// Version reported to clients, defaults to DefaultVersion
	Version string

	// ListChunk splits messages with more arguments than this using the list
	// convention, 0 never splits
	ListChunk int

	Trace bool

	Metrics *metrics.Metrics

	Log *zap.Logger
}

// Console is a scripted console.
type Console struct {
	options Options
	tcp     *transport.TCP
	router  *router.Router

	closeOnce sync.Once
	closeErr  error

	// routeMu serialises routing, handlers leave their answer in out
	routeMu sync.Mutex
	out     *answer

	mu          sync.Mutex
	records     map[records.TargetType][]Record
	received    []*protocol.Message
	subscribed  bool
	user        int
	commandLine string

	log *zap.Logger
}

func New(options Options) *Console {
	if options.Version == "" {
		options.Version = DefaultVersion
	}

	if options.Log == nil {
		options.Log = zap.NewNop()
	}

	c := &Console{
		options: options,
		router:  router.New(),
		records: make(map[records.TargetType][]Record),
		user:    1,
		log:     options.Log,
	}

	c.tcp = transport.NewTCP(transport.Options{
		Host:    options.Host,
		Port:    options.Port,
		Trace:   options.Trace,
		Handler: c,
		Metrics: options.Metrics,
		Log:     options.Log.Named("tcp"),
	})

	c.initRoutes()

	return c
}

// Add scripts record targets. Records are kept in number order, then part
// order, which is the order index lookups see them in.
func (c *Console) Add(recs ...Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range recs {
		list := append(c.records[r.Type], r)

		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CueList != list[j].CueList {
				return list[i].CueList < list[j].CueList
			}
			if list[i].Number != list[j].Number {
				return list[i].Number < list[j].Number
			}
			return list[i].Part < list[j].Part
		})

		c.records[r.Type] = list
	}
}

func (c *Console) Start(ctx context.Context) error {
	return c.tcp.Start(ctx)
}

// Addr is the address clients connect to.
func (c *Console) Addr() net.Addr {
	return c.tcp.Addr()
}

// Close disconnects every client, it is safe to call more than once.
func (c *Console) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.tcp.Close()
	})

	return c.closeErr
}

// Emit sends a console output message to every connected client.
func (c *Console) Emit(address string, values ...interface{}) error {
	args, err := protocol.NewArguments(values...)
	if err != nil {
		return err
	}

	var errs error
	for _, msg := range c.split(protocol.NewMessage(address, args...)) {
		errs = multierr.Append(errs, c.tcp.Broadcast(msg))
	}

	return errs
}

// Received returns every message clients have sent, oldest first.
func (c *Console) Received() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	received := make([]*protocol.Message, len(c.received))
	copy(received, c.received)

	return received
}

// Subscribed is true once a client asked for show data change notifications.
func (c *Console) Subscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.subscribed
}

// ServeOSC answers one client message.
func (c *Console) ServeOSC(conn *transport.TCPConn, msg *protocol.Message) {
	c.mu.Lock()
	c.received = append(c.received, msg)
	c.mu.Unlock()

	out, ok := c.route(msg)
	if !ok {
		c.log.Debug("Ignored", zap.String("address", msg.Address))
		return
	}

	for _, response := range out.replies {
		for _, chunk := range c.split(response) {
			if err := conn.Write(chunk); err != nil {
				c.log.Warn("Failed to reply", zap.String("address", chunk.Address), zap.Error(err))
			}
		}
	}

	for _, event := range out.events {
		for _, chunk := range c.split(event) {
			if err := c.tcp.Broadcast(chunk); err != nil {
				c.log.Warn("Failed to broadcast", zap.String("address", chunk.Address), zap.Error(err))
			}
		}
	}
}

// split applies the list convention to messages with more than ListChunk
// arguments.
func (c *Console) split(msg *protocol.Message) []*protocol.Message {
	size := c.options.ListChunk
	if size <= 0 || len(msg.Args) <= size {
		return []*protocol.Message{msg}
	}

	chunks := make([]*protocol.Message, 0, len(msg.Args)/size+1)

	for i := 0; i < len(msg.Args); i += size {
		end := i + size
		if end > len(msg.Args) {
			end = len(msg.Args)
		}

		address := msg.Address + "/list/" + strconv.Itoa(i) + "/" + strconv.Itoa(len(msg.Args))
		chunks = append(chunks, protocol.NewMessage(address, msg.Args[i:end]...))
	}

	return chunks
}
