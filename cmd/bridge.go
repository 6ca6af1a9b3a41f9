package cmd

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"syscall"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/internal/meta"
	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/protocol"
	"github.com/luma/eosc/records"
)

var (
	// The host to listen for http requests on
	httpHost string

	// The port to listen for http requests on
	httpPort string
)

func init() {
	flags := BridgeCmd.Flags()

	flags.StringVar(&httpPort, "http-port", "7362", "The port to listen to HTTP requests on")
	flags.StringVar(&httpHost, "http-host", "0.0.0.0", "The host to listen to HTTP requests on")
}

var BridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve the console over HTTP and websockets",
	Long: `Serve the console over HTTP and websockets

	GET  /ping                  liveness
	GET  /version               build and console version
	GET  /records/:type         every record target of a type
	GET  /records/:type/:number one record target
	GET  /cues/:list            every cue of a cue list
	GET  /cues/:list/:number    one cue
	POST /cmd                   {"command": "...", "substitutions": [], "append": false}
	POST /send                  {"address": "/eos/...", "args": [...]}
	GET  /events                websocket stream of console notifications
	GET  /metrics               prometheus metrics

Usage
	eosc bridge --host 10.101.100.101
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()

		conf, log, err := setup(cmd)
		if err != nil {
			return err
		}

		fileLimit, err := setFileLimit()
		if err != nil {
			return err
		}

		log.Info("Set file limit", zap.Uint64("fileLimit", fileLimit))

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		console, err := connect(ctx, conf, log, metrics.New(registry))
		if err != nil {
			return err
		}

		hub := newEventHub(log.Named("events"))

		hubCtx, stopHub := context.WithCancel(ctx)
		defer stopHub()

		go hub.Run(hubCtx, console.Notifications())

		router := setupRouter(conf.DebugHTTP, log)
		registerBridgeRoutes(router, console, hub, registry)

		s := &http.Server{
			Addr:    net.JoinHostPort(httpHost, httpPort),
			Handler: router,
		}

		// Initializing the server in a goroutine so that
		// it won't block the graceful shutdown handling below
		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Http server errored", zap.Error(err))
			}
		}()

		log.Info("Listening",
			zap.String("console", console.Version()),
			zap.String("httpHost", httpHost),
			zap.String("httpPort", httpPort))

		// Listen for the interrupt signal.
		<-ctx.Done()

		log.Info("Shutting down gracefully, press Ctrl+C again to force")

		// The context is used to inform the server it has 5 seconds to finish
		// the request it is currently handling
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.SetKeepAlivesEnabled(false)

		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("Http server forced to shutdown", zap.Error(err))
		}

		stopHub()

		err = multierr.Combine(hub.Close(), console.Disconnect())

		log.Info("Exiting")
		return err
	},
}

type commandBody struct {
	Command       string   `json:"command" binding:"required"`
	Substitutions []string `json:"substitutions"`
	Append        bool     `json:"append"`
}

type sendBody struct {
	Address string        `json:"address" binding:"required"`
	Args    []interface{} `json:"args"`
}

func registerBridgeRoutes(r *gin.Engine, console *client.Console, hub *eventHub, gatherer prometheus.Gatherer) {
	// Ping test
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"build":   meta.GetInfo(),
			"console": console.Version(),
			"state":   console.State(),
		})
	})

	r.GET("/records/:type", func(c *gin.Context) {
		module, ok := recordsModule(c, console)
		if !ok {
			return
		}

		found, err := module.GetAll(c.Request.Context(), nil)
		respond(c, found, err)
	})

	r.GET("/records/:type/:number", func(c *gin.Context) {
		module, ok := recordsModule(c, console)
		if !ok {
			return
		}

		n, ok := numberParam(c, "number")
		if !ok {
			return
		}

		found, err := module.Get(c.Request.Context(), n)
		if err == nil && found == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}

		respond(c, found, err)
	})

	r.GET("/cues/:list", func(c *gin.Context) {
		list, ok := numberParam(c, "list")
		if !ok {
			return
		}

		cues, err := console.Cues.GetAll(c.Request.Context(), list, nil)
		respond(c, cues, err)
	})

	r.GET("/cues/:list/:number", func(c *gin.Context) {
		list, ok := numberParam(c, "list")
		if !ok {
			return
		}

		n, ok := numberParam(c, "number")
		if !ok {
			return
		}

		cue, err := console.Cues.Get(c.Request.Context(), list, n)
		if err == nil && cue == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
			return
		}

		respond(c, cue, err)
	})

	r.POST("/cmd", func(c *gin.Context) {
		var body commandBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := console.ExecuteCommand(c.Request.Context(), body.Command, body.Substitutions, !body.Append)
		respond(c, gin.H{"ok": true}, err)
	})

	r.POST("/send", func(c *gin.Context) {
		var body sendBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err := console.SendMessage(c.Request.Context(), body.Address, jsonArguments(body.Args)...)
		if errors.Is(err, client.ErrInvalidAddress) || errors.Is(err, client.ErrReservedAddress) || errors.Is(err, protocol.ErrTypeMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		respond(c, gin.H{"ok": true}, err)
	})

	r.GET("/events", gin.WrapH(hub))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// jsonArguments narrows JSON numbers to the int32 and float32 the console
// expects.
func jsonArguments(args []interface{}) []interface{} {
	values := make([]interface{}, 0, len(args))

	for _, arg := range args {
		if f, ok := arg.(float64); ok {
			if f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
				arg = int32(f)
			} else {
				arg = float32(f)
			}
		}

		values = append(values, arg)
	}

	return values
}

func recordsModule(c *gin.Context, console *client.Console) (*client.AnyModule, bool) {
	t, err := records.ParseTargetType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}

	module, err := console.Records(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	return module, true
}

func numberParam(c *gin.Context, name string) (protocol.TargetNumber, bool) {
	n, err := protocol.ParseTargetNumber(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}

	return n, true
}

func respond(c *gin.Context, body interface{}, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, body)

	case errors.Is(err, client.ErrNotConnected), errors.Is(err, client.ErrDisconnected):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/ping", "/metrics"},
	}))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}

func setFileLimit() (uint64, error) {
	var rLimit syscall.Rlimit

	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	rLimit.Cur = rLimit.Max
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return 0, err
	}

	return rLimit.Cur, nil
}
