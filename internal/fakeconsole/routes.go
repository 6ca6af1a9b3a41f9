package fakeconsole

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
	"github.com/luma/eosc/router"
)

// answer is what the console sends back for one client message. Replies go
// to the client that asked, events to every client.
type answer struct {
	replies []*protocol.Message
	events  []*protocol.Message
}

func (a *answer) reply(address string, values ...interface{}) error {
	msg, err := newMessage(address, values...)
	if err != nil {
		return err
	}

	a.replies = append(a.replies, msg)
	return nil
}

func (a *answer) event(address string, values ...interface{}) error {
	msg, err := newMessage(address, values...)
	if err != nil {
		return err
	}

	a.events = append(a.events, msg)
	return nil
}

type answerFunc func(out *answer, msg *protocol.Message, params router.Params) error

func newMessage(address string, values ...interface{}) (*protocol.Message, error) {
	args, err := protocol.NewArguments(values...)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", address, err)
	}

	return protocol.NewMessage(address, args...), nil
}

func (c *Console) route(msg *protocol.Message) (*answer, bool) {
	c.routeMu.Lock()
	defer c.routeMu.Unlock()

	out := &answer{}
	c.out = out

	matched := c.router.Route(msg)
	c.out = nil

	return out, matched
}

func (c *Console) on(pattern string, fn answerFunc) {
	c.router.MustOn(pattern, func(msg *protocol.Message, params router.Params) {
		if err := fn(c.out, msg, params); err != nil {
			c.log.Warn("Failed to answer", zap.Stringer("msg", msg), zap.Error(err))
		}
	})
}

func (c *Console) initRoutes() {
	get := records.RequestPrefix

	c.on(records.VersionAddress, func(out *answer, _ *protocol.Message, _ router.Params) error {
		return out.reply(records.VersionResponseAddress, c.options.Version)
	})

	c.on(get+"/cue/{list}/noparts/count", func(out *answer, msg *protocol.Message, params router.Params) error {
		cues, err := c.cues(params["list"])
		if err != nil {
			return err
		}

		return out.reply(responseAddress(msg), len(cues))
	})

	c.on(get+"/cue/{list}/noparts/index/{index}", func(out *answer, msg *protocol.Message, params router.Params) error {
		cues, err := c.cues(params["list"])
		if err != nil {
			return err
		}

		return c.replyIndex(out, msg, cues, params["index"])
	})

	c.on(get+"/cue/{list}/{number}/{part}", func(out *answer, msg *protocol.Message, params router.Params) error {
		list, err := protocol.ParseTargetNumber(params["list"])
		if err != nil {
			return err
		}

		return c.replyLookup(out, msg, records.TypeCue, func(r Record) bool {
			return r.CueList == list && r.matches(params["number"], params["part"])
		})
	})

	c.on(get+"/{type}/count", func(out *answer, msg *protocol.Message, params router.Params) error {
		return out.reply(responseAddress(msg), len(c.list(records.TargetType(params["type"]))))
	})

	c.on(get+"/{type}/index/{index}", func(out *answer, msg *protocol.Message, params router.Params) error {
		return c.replyIndex(out, msg, c.list(records.TargetType(params["type"])), params["index"])
	})

	c.on(get+"/{type}/{number}", func(out *answer, msg *protocol.Message, params router.Params) error {
		return c.replyLookup(out, msg, records.TargetType(params["type"]), func(r Record) bool {
			return r.matches(params["number"], "")
		})
	})

	c.on(get+"/{type}/{number}/{part}", func(out *answer, msg *protocol.Message, params router.Params) error {
		return c.replyLookup(out, msg, records.TargetType(params["type"]), func(r Record) bool {
			return r.matches(params["number"], params["part"])
		})
	})

	c.on("/eos/subscribe", func(_ *answer, msg *protocol.Message, _ router.Params) error {
		subscribe, err := intArg(msg, 0)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.subscribed = subscribe != 0
		c.mu.Unlock()

		return nil
	})

	c.on("/eos/user", func(out *answer, msg *protocol.Message, _ router.Params) error {
		user, err := intArg(msg, 0)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.user = user
		c.mu.Unlock()

		return out.event("/eos/out/user", user)
	})

	c.on("/eos/newcmd", func(out *answer, msg *protocol.Message, _ router.Params) error {
		return c.typeCommand(out, msg, true)
	})

	c.on("/eos/cmd", func(out *answer, msg *protocol.Message, _ router.Params) error {
		return c.typeCommand(out, msg, false)
	})

	c.on("/eos/macro/{number}/fire", func(out *answer, _ *protocol.Message, params router.Params) error {
		return out.event("/eos/out/event/macro/" + params["number"])
	})

	c.on("/eos/sub/{number}/fire", func(out *answer, msg *protocol.Message, params router.Params) error {
		arg, ok := msg.Arg(0)
		if !ok {
			return fmt.Errorf("'%s' has no level", msg.Address)
		}

		level, err := arg.AsFloat()
		if err != nil {
			return err
		}

		bump := 0
		if level > 0 {
			bump = 1
		}

		return out.event("/eos/out/event/sub/"+params["number"], bump)
	})

	c.on("/eos/cue/{list}/{number}/fire", func(out *answer, _ *protocol.Message, params router.Params) error {
		list, err := protocol.ParseTargetNumber(params["list"])
		if err != nil {
			return err
		}

		label := ""
		for _, r := range c.list(records.TypeCue) {
			if r.CueList == list && r.matches(params["number"], "") {
				label = r.Label
			}
		}

		cue := params["list"] + "/" + params["number"]

		if err := out.event("/eos/out/event/cue/"+cue+"/fire", label); err != nil {
			return err
		}
		if err := out.event("/eos/out/active/cue/" + cue); err != nil {
			return err
		}

		return out.event("/eos/out/active/cue/text", fmt.Sprintf("%s %s", cue, label))
	})
}

// typeCommand updates the command line and echoes it like the console does.
func (c *Console) typeCommand(out *answer, msg *protocol.Message, clear bool) error {
	text, err := stringArg(msg, 0)
	if err != nil {
		return err
	}

	for i := 1; i < len(msg.Args); i++ {
		sub, err := msg.Args[i].AsString()
		if err != nil {
			return err
		}
		text = strings.ReplaceAll(text, "%"+strconv.Itoa(i), sub)
	}

	c.mu.Lock()
	if clear {
		c.commandLine = ""
	}
	c.commandLine += text
	line := c.commandLine
	user := c.user
	c.mu.Unlock()

	if err := out.event("/eos/out/cmd", line); err != nil {
		return err
	}

	return out.event(fmt.Sprintf("/eos/out/user/%d/cmd", user), line)
}

func (c *Console) replyIndex(out *answer, msg *protocol.Message, list []Record, rawIndex string) error {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(list) {
		return out.reply(responseAddress(msg), index)
	}

	return c.replyRecord(out, list[index], index)
}

func (c *Console) replyLookup(out *answer, msg *protocol.Message, t records.TargetType, match func(Record) bool) error {
	for i, r := range c.list(t) {
		if match(r) {
			return c.replyRecord(out, r, i)
		}
	}

	// Only the index argument, the UID is absent
	return out.reply(responseAddress(msg), -1)
}

func (c *Console) replyRecord(out *answer, r Record, index int) error {
	responses, err := r.responses(index)
	if err != nil {
		return err
	}

	out.replies = append(out.replies, responses...)
	return nil
}

func (c *Console) list(t records.TargetType) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.records[t]
}

// cues lists part 0 of every cue in a list.
func (c *Console) cues(rawList string) ([]Record, error) {
	list, err := protocol.ParseTargetNumber(rawList)
	if err != nil {
		return nil, err
	}

	cues := make([]Record, 0)
	for _, r := range c.list(records.TypeCue) {
		if r.CueList == list && r.Part == 0 {
			cues = append(cues, r)
		}
	}

	return cues, nil
}

func (r Record) matches(number, part string) bool {
	n, err := protocol.ParseTargetNumber(number)
	if err != nil || n != r.Number {
		return false
	}

	if part == "" {
		return r.Type != records.TypePatch || r.Part <= 1
	}

	p, err := strconv.Atoi(part)
	return err == nil && p == r.Part
}

// responses builds the console's answer to a lookup of r.
func (r Record) responses(index int) ([]*protocol.Message, error) {
	address := records.ResponsePrefix + "/" + string(r.Type)

	switch r.Type {
	case records.TypeCue:
		address += fmt.Sprintf("/%s/%s/%d", r.CueList, r.Number, r.Part)
	case records.TypePatch:
		address += fmt.Sprintf("/%s/%d", r.Number, r.Part)
	default:
		address += "/" + r.Number.String()
	}

	first, err := newMessage(address, append([]interface{}{index, r.UID, r.Label}, r.Args...)...)
	if err != nil {
		return nil, err
	}

	responses := []*protocol.Message{first}

	for _, extra := range r.Extra {
		msg, err := newMessage(address+extra.Suffix, append([]interface{}{index, r.UID}, extra.Args...)...)
		if err != nil {
			return nil, err
		}
		responses = append(responses, msg)
	}

	return responses, nil
}

func responseAddress(msg *protocol.Message) string {
	return records.ResponsePrefix + strings.TrimPrefix(msg.Address, records.RequestPrefix)
}

func intArg(msg *protocol.Message, i int) (int, error) {
	arg, ok := msg.Arg(i)
	if !ok {
		return 0, fmt.Errorf("'%s' is missing argument %d", msg.Address, i)
	}

	return arg.AsInt()
}

func stringArg(msg *protocol.Message, i int) (string, error) {
	arg, ok := msg.Arg(i)
	if !ok {
		return "", fmt.Errorf("'%s' is missing argument %d", msg.Address, i)
	}

	return arg.AsString()
}
