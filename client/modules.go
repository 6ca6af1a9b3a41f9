package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/request"
)

var (
	ErrNullRecordTarget = errors.New("Console returned no record target for a listed index")
	ErrMissingPart      = errors.New("Console returned no patch entry for a channel part")
	ErrNeedsCueList     = errors.New("Cues are read per cue list")
)

// ProgressFunc is called after each record target of a list arrives.
type ProgressFunc func(complete, total int)

// RecordTargetModule reads one type of record target.
type RecordTargetModule[T any] struct {
	session Session
	kind    records.Kind[T]
}

func NewRecordTargetModule[T any](s Session, kind records.Kind[T]) *RecordTargetModule[T] {
	return &RecordTargetModule[T]{session: s, kind: kind}
}

// TargetType of the records this module reads.
func (m *RecordTargetModule[T]) TargetType() records.TargetType {
	return m.kind.Type
}

// Count asks how many record targets exist.
func (m *RecordTargetModule[T]) Count(ctx context.Context) (int, error) {
	return Do(ctx, m.session, records.CountRequest(m.kind.Type))
}

// GetAll reads every record target in the console's order.
func (m *RecordTargetModule[T]) GetAll(ctx context.Context, progress ProgressFunc) ([]*T, error) {
	return getList(ctx, m.session, m.kind.Type, records.CountRequest(m.kind.Type), func(i int) request.Request[*T] {
		return records.Index(m.kind, i)
	}, progress)
}

// Get reads record target n, it returns nil if it does not exist.
func (m *RecordTargetModule[T]) Get(ctx context.Context, n protocol.TargetNumber) (*T, error) {
	return Do(ctx, m.session, records.Get(m.kind, n))
}

// getList counts the targets, then sends every index request before waiting
// for the first result. R is a pointer or interface, its zero value means the
// console had nothing at an index.
func getList[R comparable](
	ctx context.Context,
	s Session,
	t records.TargetType,
	count request.Request[int],
	index func(i int) request.Request[R],
	progress ProgressFunc,
) ([]R, error) {
	total, err := Do(ctx, s, count)
	if err != nil {
		return nil, fmt.Errorf("Failed to count %s: %w", t, err)
	}

	if total <= 0 {
		return []R{}, nil
	}

	var null R

	results := make([]R, 0, total)

	pending := make([]*request.Pending, 0, total)

	for i := 0; i < total; i++ {
		p, err := s.Request(ctx, index(i).Descriptor())
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	for i, p := range pending {
		result, err := wait[R](ctx, s, p)
		if err != nil {
			return nil, fmt.Errorf("Failed to get %s index %d: %w", t, i, err)
		}

		if result == null {
			return nil, fmt.Errorf("%s index %d: %w", t, i, ErrNullRecordTarget)
		}

		results = append(results, result)

		if progress != nil {
			progress(i+1, total)
		}
	}

	return results, nil
}

// AnyModule reads record targets of a type picked at runtime, every type
// but cues.
type AnyModule struct {
	session Session
	kind    records.AnyKind
}

// NewAnyModule fails with records.ErrUnknownTargetType for unknown types and
// ErrNeedsCueList for cues.
func NewAnyModule(s Session, t records.TargetType) (*AnyModule, error) {
	if t == records.TypeCue {
		return nil, ErrNeedsCueList
	}

	kind, err := records.KindOf(t)
	if err != nil {
		return nil, err
	}

	return &AnyModule{session: s, kind: kind}, nil
}

func (m *AnyModule) TargetType() records.TargetType {
	return m.kind.TargetType()
}

func (m *AnyModule) Count(ctx context.Context) (int, error) {
	return Do(ctx, m.session, records.CountRequest(m.kind.TargetType()))
}

func (m *AnyModule) GetAll(ctx context.Context, progress ProgressFunc) ([]records.RecordTarget, error) {
	t := m.kind.TargetType()

	return getList(ctx, m.session, t, records.CountRequest(t), func(i int) request.Request[records.RecordTarget] {
		return records.AnyIndex(m.kind, i)
	}, progress)
}

// Get reads record target n, it returns nil if it does not exist.
func (m *AnyModule) Get(ctx context.Context, n protocol.TargetNumber) (records.RecordTarget, error) {
	return Do(ctx, m.session, records.AnyGet(m.kind, n))
}

// CuesModule reads and fires cues. Cues are numbered within their cue list.
type CuesModule struct {
	session Session
}

// Count asks how many cues cueList has, cue parts are not counted.
func (m *CuesModule) Count(ctx context.Context, cueList protocol.TargetNumber) (int, error) {
	return Do(ctx, m.session, records.CueCountRequest(cueList))
}

// GetAll reads every cue of cueList.
func (m *CuesModule) GetAll(ctx context.Context, cueList protocol.TargetNumber, progress ProgressFunc) ([]*records.Cue, error) {
	return getList(ctx, m.session, records.TypeCue, records.CueCountRequest(cueList), func(i int) request.Request[*records.Cue] {
		return records.CueIndex(cueList, i)
	}, progress)
}

// Get reads cue n of cueList, it returns nil if it does not exist.
func (m *CuesModule) Get(ctx context.Context, cueList, n protocol.TargetNumber) (*records.Cue, error) {
	return Do(ctx, m.session, records.CueGet(cueList, n, 0))
}

// Fire runs cue n of cueList.
func (m *CuesModule) Fire(ctx context.Context, cueList, n protocol.TargetNumber) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/cue/%s/%s/fire", cueList, n))
}

// ChannelsModule reads the patch grouped by channel.
type ChannelsModule struct {
	session Session
}

// GetAll reads every patch entry and groups the parts by channel.
func (m *ChannelsModule) GetAll(ctx context.Context, progress ProgressFunc) ([]*records.Channel, error) {
	patch, err := getList(ctx, m.session, records.TypePatch, records.CountRequest(records.TypePatch), func(i int) request.Request[*records.Patch] {
		return records.Index(records.Patches, i)
	}, progress)
	if err != nil {
		return nil, err
	}

	return records.GroupChannels(patch)
}

// Get reads every part of channel n. The first part says how many parts
// there are, the rest are requested together. It returns nil if the channel
// is not patched.
func (m *ChannelsModule) Get(ctx context.Context, n protocol.TargetNumber) (*records.Channel, error) {
	first, err := m.Part(ctx, n, 1)
	if err != nil || first == nil {
		return nil, err
	}

	pending := make([]*request.Pending, 0)

	for part := 2; part <= first.PartCount; part++ {
		p, err := m.session.Request(ctx, records.PatchGet(n, part).Descriptor())
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	parts := []*records.Patch{first}

	for i, p := range pending {
		part, err := wait[*records.Patch](ctx, m.session, p)
		if err != nil {
			return nil, err
		}

		if part == nil {
			return nil, fmt.Errorf("channel %s part %d: %w", n, i+2, ErrMissingPart)
		}

		parts = append(parts, part)
	}

	return records.NewChannel(parts)
}

// Part reads one patch entry of channel n, parts start at 1.
func (m *ChannelsModule) Part(ctx context.Context, n protocol.TargetNumber, part int) (*records.Patch, error) {
	return Do(ctx, m.session, records.PatchGet(n, part))
}

type MacrosModule struct {
	*RecordTargetModule[records.Macro]
}

// Fire runs macro n.
func (m *MacrosModule) Fire(ctx context.Context, n protocol.TargetNumber) error {
	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/macro/%s/fire", n))
}

type SubsModule struct {
	*RecordTargetModule[records.Sub]
}

// Bump presses the bump button of sub n, or releases it when down is false.
func (m *SubsModule) Bump(ctx context.Context, n protocol.TargetNumber, down bool) error {
	level := float32(0)
	if down {
		level = 1
	}

	return m.session.SendMessage(ctx, fmt.Sprintf("/eos/sub/%s/fire", n), level)
}
