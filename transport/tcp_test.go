package transport_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/transport"
)

var _ = Describe("TCP", func() {
	var (
		tcp      *transport.TCP
		received chan *protocol.Message
	)

	BeforeEach(func() {
		received = make(chan *protocol.Message, 10)

		tcp = makeTCPServer(transport.HandlerFunc(func(conn *transport.TCPConn, msg *protocol.Message) {
			received <- msg

			if msg.Address == "/eos/ping" {
				conn.Write(protocol.NewMessage("/eos/out/ping", msg.Args...))
			}
		}))
	})

	AfterEach(func() {
		Expect(tcp.Close()).To(Succeed())
	})

	It("answers clients", func() {
		conn := dial(tcp)
		defer conn.Destroy()

		Expect(conn.Write(context.Background(), protocol.NewMessage("/eos/ping", protocol.String("hello")))).To(Succeed())

		var msg *protocol.Message
		Eventually(conn.Messages()).Should(Receive(&msg))
		Expect(msg.Address).To(Equal("/eos/out/ping"))
		Expect(msg.Args).To(Equal([]protocol.Argument{protocol.String("hello")}))
	})

	It("joins list chunks sent by clients", func() {
		conn := dial(tcp)
		defer conn.Destroy()

		ctx := context.Background()
		Expect(conn.Write(ctx, protocol.NewMessage("/a/list/0/3", protocol.Int(1)))).To(Succeed())
		Expect(conn.Write(ctx, protocol.NewMessage("/a/list/1/3", protocol.Int(2), protocol.Int(3)))).To(Succeed())

		var msg *protocol.Message
		Eventually(received).Should(Receive(&msg))
		Expect(msg.Address).To(Equal("/a"))
		Expect(msg.Args).To(HaveLen(3))
	})

	It("broadcasts to every client", func() {
		first := dial(tcp)
		defer first.Destroy()

		second := dial(tcp)
		defer second.Destroy()

		// Make sure both connections have been accepted
		for _, conn := range []*transport.Conn{first, second} {
			Expect(conn.Write(context.Background(), protocol.NewMessage("/eos/ping"))).To(Succeed())
			Eventually(conn.Messages()).Should(Receive())
		}

		Expect(tcp.Broadcast(protocol.NewMessage("/eos/out/notify/cue/1", protocol.Int(0)))).To(Succeed())

		for _, conn := range []*transport.Conn{first, second} {
			var msg *protocol.Message
			Eventually(conn.Messages()).Should(Receive(&msg))
			Expect(msg.Address).To(Equal("/eos/out/notify/cue/1"))
		}
	})

	It("ends client streams when it closes", func() {
		conn := dial(tcp)
		defer conn.Destroy()

		Expect(conn.Write(context.Background(), protocol.NewMessage("/eos/ping"))).To(Succeed())
		Eventually(conn.Messages()).Should(Receive())

		Expect(tcp.Close()).To(Succeed())
		Eventually(conn.Messages(), 2*time.Second).Should(BeClosed())
	})
})

func dial(tcp *transport.TCP) *transport.Conn {
	host, port := splitHostPort(tcp.Addr().String())

	conn, err := transport.Dial(context.Background(), host, port, transport.ConnOptions{Timeout: time.Second})
	Expect(err).To(Succeed())

	return conn
}

func makeTCPServer(handler transport.Handler) *transport.TCP {
	log, err := zap.NewDevelopment()
	Expect(err).To(Succeed())

	tcp := transport.NewTCP(transport.Options{
		Host:         "127.0.0.1",
		Port:         0,
		Log:          log,
		NumListeners: 1,
		Reuseport:    true,
		Handler:      handler,
	})

	Expect(tcp.Start(context.Background())).To(Succeed())

	return tcp
}
