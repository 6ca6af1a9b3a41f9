package protocol_test

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/protocol"
)

func ints(values ...int) []protocol.Argument {
	args := make([]protocol.Argument, len(values))
	for i, v := range values {
		args[i] = protocol.Int(v)
	}
	return args
}

var _ = Describe("ListJoiner", func() {
	var joiner *protocol.ListJoiner

	BeforeEach(func() {
		joiner = &protocol.ListJoiner{}
	})

	Describe("ParseListSuffix()", func() {
		It("splits off the index and count", func() {
			suffix, ok := protocol.ParseListSuffix("/eos/out/get/cue/1/2/0/list/3/10")
			Expect(ok).To(BeTrue())
			Expect(suffix).To(Equal(protocol.ListSuffix{Base: "/eos/out/get/cue/1/2/0", Index: 3, Count: 10}))
		})

		It("ignores addresses without the suffix", func() {
			_, ok := protocol.ParseListSuffix("/eos/out/get/cue/1/2/0/list")
			Expect(ok).To(BeFalse())

			_, ok = protocol.ParseListSuffix("/eos/out/get/cue/1/2/0/list/a/2")
			Expect(ok).To(BeFalse())
		})
	})

	It("passes through messages without the suffix", func() {
		msg := protocol.NewMessage("/eos/out/user", protocol.Int(1))

		out, err := joiner.Process(msg)
		Expect(err).To(Succeed())
		Expect(out).To(BeIdenticalTo(msg))
	})

	It("releases a complete single chunk immediately with the suffix removed", func() {
		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/2", ints(1, 2)...))
		Expect(err).To(Succeed())
		Expect(out.Address).To(Equal("/demo/msg"))
		Expect(out.Args).To(Equal(ints(1, 2)))
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("joins chunks split at any boundary", func() {
		all := ints(0, 1, 2, 3, 4, 5, 6)

		for split := 1; split < len(all); split++ {
			first := protocol.NewMessage("/demo/msg/list/0/7", all[:split]...)
			out, err := joiner.Process(first)
			Expect(err).To(Succeed())
			Expect(out).To(BeNil())
			Expect(joiner.Pending()).To(BeTrue())

			second := protocol.NewMessage("/demo/msg/list/"+itoa(split)+"/7", all[split:]...)
			out, err = joiner.Process(second)
			Expect(err).To(Succeed())
			Expect(out.Address).To(Equal("/demo/msg"))
			Expect(out.Args).To(Equal(all))
			Expect(joiner.Pending()).To(BeFalse())
		}
	})

	It("joins three chunks", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/5", ints(1, 2)...))
		Expect(err).To(Succeed())
		_, err = joiner.Process(protocol.NewMessage("/demo/msg/list/2/5", ints(3, 4)...))
		Expect(err).To(Succeed())

		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/4/5", ints(5)...))
		Expect(err).To(Succeed())
		Expect(out.Args).To(Equal(ints(1, 2, 3, 4, 5)))
	})

	It("passes unrelated messages through while a list is being joined", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/4", ints(1, 2)...))
		Expect(err).To(Succeed())

		out, err := joiner.Process(protocol.NewMessage("/eos/out/ping"))
		Expect(err).To(Succeed())
		Expect(out.Address).To(Equal("/eos/out/ping"))

		out, err = joiner.Process(protocol.NewMessage("/demo/msg/list/2/4", ints(3, 4)...))
		Expect(err).To(Succeed())
		Expect(out.Args).To(Equal(ints(1, 2, 3, 4)))
	})

	It("rejects a chunk without a partial list", func() {
		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/2/4", ints(3, 4)...))
		Expect(out).To(BeNil())
		Expect(errors.Is(err, protocol.ErrListOrphanedChunk)).To(BeTrue())
	})

	It("rejects a skipped chunk and discards the partial list", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/6", ints(1, 2)...))
		Expect(err).To(Succeed())

		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/4/6", ints(5, 6)...))
		Expect(out).To(BeNil())
		Expect(errors.Is(err, protocol.ErrListOutOfSequence)).To(BeTrue())
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("rejects a duplicated chunk", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/6", ints(1, 2)...))
		Expect(err).To(Succeed())
		_, err = joiner.Process(protocol.NewMessage("/demo/msg/list/2/6", ints(3, 4)...))
		Expect(err).To(Succeed())

		_, err = joiner.Process(protocol.NewMessage("/demo/msg/list/2/6", ints(3, 4)...))
		Expect(errors.Is(err, protocol.ErrListOutOfSequence)).To(BeTrue())
	})

	It("rejects a chunk for a different address", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/a/list/0/4", ints(1, 2)...))
		Expect(err).To(Succeed())

		_, err = joiner.Process(protocol.NewMessage("/demo/b/list/2/4", ints(3, 4)...))
		Expect(errors.Is(err, protocol.ErrListInterleaved)).To(BeTrue())
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("starts over when a new list begins before the previous one completed", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/a/list/0/4", ints(1, 2)...))
		Expect(err).To(Succeed())

		_, err = joiner.Process(protocol.NewMessage("/demo/b/list/0/3", ints(7)...))
		Expect(errors.Is(err, protocol.ErrListOutOfSequence)).To(BeTrue())
		Expect(joiner.Pending()).To(BeTrue())

		out, err := joiner.Process(protocol.NewMessage("/demo/b/list/1/3", ints(8, 9)...))
		Expect(err).To(Succeed())
		Expect(out.Address).To(Equal("/demo/b"))
		Expect(out.Args).To(Equal(ints(7, 8, 9)))
	})

	It("rejects a chunk that overshoots the declared count", func() {
		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/2", ints(1, 2, 3)...))
		Expect(out).To(BeNil())
		Expect(errors.Is(err, protocol.ErrListOutOfSequence)).To(BeTrue())
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("rejects a final chunk that overshoots and discards the partial list", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/4", ints(1, 2)...))
		Expect(err).To(Succeed())

		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/2/4", ints(3, 4, 5)...))
		Expect(out).To(BeNil())
		Expect(errors.Is(err, protocol.ErrListOutOfSequence)).To(BeTrue())
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("rejects a count above the maximum without allocating for it", func() {
		out, err := joiner.Process(protocol.NewMessage("/eos/out/get/x/list/0/999999999999999999", protocol.Int(1)))
		Expect(out).To(BeNil())
		Expect(errors.Is(err, protocol.ErrListTooLong)).To(BeTrue())
		Expect(joiner.Pending()).To(BeFalse())
	})

	It("keeps joining another list after rejecting a count above the maximum", func() {
		_, err := joiner.Process(protocol.NewMessage("/demo/msg/list/0/4", ints(1, 2)...))
		Expect(err).To(Succeed())

		_, err = joiner.Process(protocol.NewMessage("/demo/other/list/0/99999999", ints(1)...))
		Expect(errors.Is(err, protocol.ErrListTooLong)).To(BeTrue())
		Expect(joiner.Pending()).To(BeTrue())

		out, err := joiner.Process(protocol.NewMessage("/demo/msg/list/2/4", ints(3, 4)...))
		Expect(err).To(Succeed())
		Expect(out.Args).To(Equal(ints(1, 2, 3, 4)))
	})
})
