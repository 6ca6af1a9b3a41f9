package fakeconsole_test

import (
	"context"
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/eosc/internal/fakeconsole"
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/transport"
)

var _ = Describe("Console", func() {
	var (
		console *fakeconsole.Console
		conn    *transport.Conn
		options fakeconsole.Options
	)

	send := func(address string, args ...protocol.Argument) {
		ExpectWithOffset(1, conn.Write(context.Background(), protocol.NewMessage(address, args...))).To(Succeed())
	}

	receive := func() *protocol.Message {
		var msg *protocol.Message
		EventuallyWithOffset(1, conn.Messages(), 2*time.Second).Should(Receive(&msg))
		return msg
	}

	BeforeEach(func() {
		options = fakeconsole.Options{Host: "127.0.0.1"}
	})

	JustBeforeEach(func() {
		console = fakeconsole.New(options)
		console.Add(fakeconsole.DemoShow()...)
		Expect(console.Start(context.Background())).To(Succeed())

		host, rawPort, err := net.SplitHostPort(console.Addr().String())
		Expect(err).To(Succeed())
		port, err := strconv.Atoi(rawPort)
		Expect(err).To(Succeed())

		conn, err = transport.Dial(context.Background(), host, port, transport.ConnOptions{Timeout: time.Second})
		Expect(err).To(Succeed())
	})

	AfterEach(func() {
		conn.Destroy()
		Expect(console.Close()).To(Succeed())
	})

	It("reports its version", func() {
		send("/eos/get/version")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/version"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.String(fakeconsole.DefaultVersion)}))
	})

	It("counts record targets", func() {
		send("/eos/get/group/count")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/group/count"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.Int(2)}))
	})

	It("counts the cues of a list without parts", func() {
		send("/eos/get/cue/1/noparts/count")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/cue/1/noparts/count"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.Int(3)}))
	})

	It("answers a lookup with every response of the record", func() {
		send("/eos/get/group/2")

		first := receive()
		Expect(first.Address).To(Equal("/eos/out/get/group/2"))
		Expect(first.Args).To(Equal([]protocol.Argument{
			protocol.Int(1), protocol.String("g-2"), protocol.String("All"),
		}))

		channels := receive()
		Expect(channels.Address).To(Equal("/eos/out/get/group/2/channels"))
		Expect(channels.Args).To(Equal([]protocol.Argument{
			protocol.Int(1), protocol.String("g-2"), protocol.String("1-3"),
		}))
	})

	It("answers index lookups in number order", func() {
		send("/eos/get/cue/1/noparts/index/2")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/cue/1/2.5/0"))
		Expect(msg.Args[1]).To(Equal(protocol.String("c-2.5")))
	})

	It("addresses patch responses by part", func() {
		send("/eos/get/patch/3/2")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/patch/3/2"))
		Expect(msg.Args[2]).To(Equal(protocol.String("Wash Fan")))
	})

	It("answers missing record targets without a UID", func() {
		send("/eos/get/macro/99")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/get/macro/99"))
		Expect(msg.Args).To(HaveLen(1))
	})

	It("echoes the command line with substitutions", func() {
		send("/eos/newcmd", protocol.String("Chan %1 At %2"), protocol.String("5"), protocol.String("50"))

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/cmd"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.String("Chan 5 At 50")}))

		Expect(receive().Address).To(Equal("/eos/out/user/1/cmd"))

		send("/eos/cmd", protocol.String(" Enter"))

		msg = receive()
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.String("Chan 5 At 50 Enter")}))
	})

	It("remembers subscriptions", func() {
		send("/eos/subscribe", protocol.Int(1))

		Eventually(console.Subscribed).Should(BeTrue())
		Expect(console.Received()).To(HaveLen(1))
	})

	It("announces fired cues", func() {
		send("/eos/cue/1/2/fire")

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/event/cue/1/2/fire"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.String("Opening")}))

		Expect(receive().Address).To(Equal("/eos/out/active/cue/1/2"))
		Expect(receive().Address).To(Equal("/eos/out/active/cue/text"))
	})

	It("emits to connected clients", func() {
		// Make sure the connection has been accepted
		send("/eos/get/version")
		receive()

		Expect(console.Emit("/eos/out/show/name", "Demo")).To(Succeed())

		msg := receive()
		Expect(msg.Address).To(Equal("/eos/out/show/name"))
	})

	Context("with a list chunk size", func() {
		BeforeEach(func() {
			options.ListChunk = 10
		})

		It("sends long responses in list chunks the client joins", func() {
			send("/eos/get/cue/1/1/0")

			msg := receive()
			Expect(msg.Address).To(Equal("/eos/out/get/cue/1/1/0"))
			Expect(msg.Args).To(HaveLen(31))
		})
	})
})
