package cmd

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/internal/fakeconsole"
)

var _ = Describe("bridge", func() {
	var (
		fake    *fakeconsole.Console
		console *client.Console
		hub     *eventHub
		router  *gin.Engine
	)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		return w
	}

	BeforeEach(func() {
		fake = fakeconsole.New(fakeconsole.Options{Host: "127.0.0.1"})
		fake.Add(fakeconsole.DemoShow()...)
		Expect(fake.Start(context.Background())).To(Succeed())

		host, rawPort, err := net.SplitHostPort(fake.Addr().String())
		Expect(err).To(Succeed())
		port, err := strconv.Atoi(rawPort)
		Expect(err).To(Succeed())

		console = client.New(client.Options{Host: host, Port: port, RequestTimeout: 2 * time.Second})
		Expect(console.Connect(context.Background())).To(Succeed())

		hub = newEventHub(zap.NewNop())
		router = setupRouter(false, zap.NewNop())
		registerBridgeRoutes(router, console, hub, prometheus.NewRegistry())
	})

	AfterEach(func() {
		hub.Close()
		console.Disconnect()
		Expect(fake.Close()).To(Succeed())
	})

	It("answers pings", func() {
		w := serve(http.MethodGet, "/ping", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("pong"))
	})

	It("reports versions", func() {
		w := serve(http.MethodGet, "/version", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gjson.Get(w.Body.String(), "console").String()).To(Equal(fakeconsole.DefaultVersion))
		Expect(gjson.Get(w.Body.String(), "state").String()).To(Equal("connected"))
	})

	It("lists record targets", func() {
		w := serve(http.MethodGet, "/records/group", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		body := w.Body.String()
		Expect(gjson.Get(body, "#").Int()).To(Equal(int64(2)))
		Expect(gjson.Get(body, "1.label").String()).To(Equal("All"))
	})

	It("reads single record targets", func() {
		w := serve(http.MethodGet, "/records/macro/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gjson.Get(w.Body.String(), "command").String()).To(Equal("Group 1 At Full Enter"))

		Expect(serve(http.MethodGet, "/records/group/99", "").Code).To(Equal(http.StatusNotFound))
	})

	It("rejects unknown types and cues without a list", func() {
		Expect(serve(http.MethodGet, "/records/banana", "").Code).To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodGet, "/records/cue", "").Code).To(Equal(http.StatusBadRequest))
		Expect(serve(http.MethodGet, "/records/group/one", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("reads cues", func() {
		w := serve(http.MethodGet, "/cues/1/2.5", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gjson.Get(w.Body.String(), "label").String()).To(Equal("Sunrise"))

		w = serve(http.MethodGet, "/cues/1", "")
		Expect(gjson.Get(w.Body.String(), "#.targetNumber").Raw).To(Equal(`[1,2,2.5]`))
	})

	It("types commands", func() {
		w := serve(http.MethodPost, "/cmd", `{"command": "Chan %1 Full Enter", "substitutions": ["3"]}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		Eventually(func() bool {
			for _, msg := range fake.Received() {
				if msg.Address == "/eos/newcmd" {
					return true
				}
			}
			return false
		}).Should(BeTrue())

		Expect(serve(http.MethodPost, "/cmd", `{}`).Code).To(Equal(http.StatusBadRequest))
	})

	It("refuses to send requests", func() {
		w := serve(http.MethodPost, "/send", `{"address": "/eos/get/version"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = serve(http.MethodPost, "/send", `{"address": "/eos/key/go_0", "args": [1]}`)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("serves metrics", func() {
		Expect(serve(http.MethodGet, "/metrics", "").Code).To(Equal(http.StatusOK))
	})

	It("streams notifications over websockets", func() {
		server := httptest.NewServer(router)
		defer server.Close()

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/events", nil)
		Expect(err).To(Succeed())
		defer conn.Close()

		Eventually(hub.ClientCount).Should(Equal(1))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go hub.Run(ctx, console.Notifications())

		Expect(fake.Emit("/eos/out/show/name", "Demo")).To(Succeed())

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())

		for {
			_, data, err := conn.ReadMessage()
			Expect(err).To(Succeed())

			if gjson.GetBytes(data, "event").String() == "show-name" {
				Expect(gjson.GetBytes(data, "data.showName").String()).To(Equal("Demo"))
				break
			}
		}
	})
})

var _ = Describe("arguments", func() {
	It("guesses OSC types from the command line", func() {
		Expect(parseArguments([]string{"5", "0.5", "Go"}, false)).To(Equal([]interface{}{int32(5), float32(0.5), "Go"}))
		Expect(parseArguments([]string{"5"}, true)).To(Equal([]interface{}{"5"}))
	})

	It("narrows JSON numbers", func() {
		Expect(jsonArguments([]interface{}{float64(1), 0.5, "x"})).To(Equal([]interface{}{int32(1), float32(0.5), "x"}))
	})
})
