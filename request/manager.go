package request

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/protocol"
)

const (
	// UIDArgument is the position of the UID in record target responses
	UIDArgument = 1
)

var (
	ErrUnsolicitedResponse = errors.New("Received a /eos/out/get response without a pending request")
	ErrCancelled           = errors.New("Request was cancelled")
)

// UnpackFunc turns the collected responses into the request's result.
type UnpackFunc func(responses []*protocol.Message) (interface{}, error)

// Descriptor describes a request to the Manager.
type Descriptor struct {
	// Message is written to the console once registered
	Message *protocol.Message

	// ResponseCount is the number of response messages to collect, at least 1
	ResponseCount int

	// RecordTarget settles the request with a nil result as soon as a response
	// lacks the UID argument
	RecordTarget bool

	Unpack UnpackFunc
}

// Pending is a registered request.
type Pending struct {
	descriptor Descriptor
	responses  []*protocol.Message

	done   chan struct{}
	result interface{}
	err    error
}

// Message returns the message to write for this request.
func (p *Pending) Message() *protocol.Message {
	return p.descriptor.Message
}

// Done is closed once the request has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the request settles or ctx is done. A request that was
// given up on by its caller stays queued, its responses still have to be
// consumed to keep later requests in step.
func (p *Pending) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-p.done:
		return p.result, p.err

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pending) settle(result interface{}, err error) {
	p.result = result
	p.err = err
	close(p.done)
}

type Manager struct {
	mu    sync.Mutex
	queue []*Pending

	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewManager(log *zap.Logger, m *metrics.Metrics) *Manager {
	if log == nil {
		log = zap.NewNop()
	}

	return &Manager{
		queue:   make([]*Pending, 0),
		metrics: m,
		log:     log,
	}
}

// Register queues a request. The caller writes p.Message() to the console
// while holding whatever lock orders its writes, so queue order and wire order
// agree.
func (m *Manager) Register(descriptor Descriptor) *Pending {
	if descriptor.ResponseCount < 1 {
		descriptor.ResponseCount = 1
	}

	p := &Pending{
		descriptor: descriptor,
		responses:  make([]*protocol.Message, 0, descriptor.ResponseCount),
		done:       make(chan struct{}),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue = append(m.queue, p)
	m.metrics.SetPending(len(m.queue))

	return p
}

// HandleResponse gives msg to the request at the head of the queue.
func (m *Manager) HandleResponse(msg *protocol.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return fmt.Errorf("'%s': %w", msg.Address, ErrUnsolicitedResponse)
	}

	head := m.queue[0]
	head.responses = append(head.responses, msg)

	switch {
	case head.descriptor.RecordTarget && len(msg.Args) <= UIDArgument:
		m.pop()
		m.metrics.RequestSettled(metrics.OutcomeMissing)
		head.settle(nil, nil)

	case len(head.responses) >= head.descriptor.ResponseCount:
		m.pop()

		result, err := head.unpack()
		if err != nil {
			m.metrics.RequestSettled(metrics.OutcomeRejected)
			m.log.Debug("Request failed", zap.String("address", head.descriptor.Message.Address), zap.Error(err))
		} else {
			m.metrics.RequestSettled(metrics.OutcomeResolved)
		}

		head.settle(result, err)
	}

	return nil
}

// CancelAll settles every queued request with reason and empties the queue.
func (m *Manager) CancelAll(reason error) {
	if reason == nil {
		reason = ErrCancelled
	}

	m.mu.Lock()
	queue := m.queue
	m.queue = make([]*Pending, 0)
	m.metrics.SetPending(0)
	m.mu.Unlock()

	for _, p := range queue {
		m.metrics.RequestSettled(metrics.OutcomeCancelled)
		p.settle(nil, reason)
	}
}

// Abandon removes p if it has not collected any responses yet, for example
// because writing its message failed. It reports whether p was removed.
func (m *Manager) Abandon(p *Pending, reason error) bool {
	if reason == nil {
		reason = ErrCancelled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, queued := range m.queue {
		if queued != p {
			continue
		}

		if len(p.responses) > 0 {
			return false
		}

		m.queue = append(m.queue[:i], m.queue[i+1:]...)
		m.metrics.SetPending(len(m.queue))
		m.metrics.RequestSettled(metrics.OutcomeCancelled)
		p.settle(nil, reason)

		return true
	}

	return false
}

// Len returns the number of queued requests.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.queue)
}

func (m *Manager) pop() {
	m.queue[0] = nil
	m.queue = m.queue[1:]
	m.metrics.SetPending(len(m.queue))
}

func (p *Pending) unpack() (result interface{}, err error) {
	if p.descriptor.Unpack == nil {
		return p.responses, nil
	}

	return p.descriptor.Unpack(p.responses)
}
