package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luma/eosc/client"
	"github.com/luma/eosc/internal/env"
	"github.com/luma/eosc/internal/metrics"
	"github.com/luma/eosc/storage"
)

// setup loads the config, applies the flags that were set and builds the
// logger.
func setup(cmd *cobra.Command) (*env.Config, *zap.Logger, error) {
	conf, err := env.LoadConfig(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("host") {
		conf.Host = consoleHost
	}
	if flags.Changed("port") {
		conf.Port = consolePort
	}
	if flags.Changed("timeout") {
		conf.RequestTimeout = requestTimeout
	}
	if flags.Changed("user") {
		conf.User = userID
	}
	if flags.Changed("log-level") {
		conf.LogLevel = logLevel
	}

	log, err := env.MakeLogger(conf.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("Invalid log level: %w", err)
	}

	return conf, log, nil
}

// connect dials the console and switches user when one is configured.
func connect(ctx context.Context, conf *env.Config, log *zap.Logger, m *metrics.Metrics) (*client.Console, error) {
	console := client.New(client.Options{
		Host:           conf.Host,
		Port:           conf.Port,
		ConnectTimeout: conf.ConnectTimeout,
		RequestTimeout: conf.RequestTimeout,
		Metrics:        m,
		Log:            log.Named("console"),
	})

	if err := console.Connect(ctx); err != nil {
		return nil, err
	}

	if conf.User > 0 {
		if err := console.ChangeUser(ctx, conf.User); err != nil {
			console.Disconnect()
			return nil, err
		}
	}

	return console, nil
}

func disconnect(console *client.Console, log *zap.Logger) {
	if err := console.Disconnect(); err != nil {
		log.Warn("Failed to disconnect cleanly", zap.Error(err))
	}
}

// progressLogger logs list progress every tenth record target.
func progressLogger(log *zap.Logger, what string) client.ProgressFunc {
	return func(complete, total int) {
		if complete == total || complete%10 == 0 {
			log.Info("Reading", zap.String("what", what), zap.Int("complete", complete), zap.Int("total", total))
		}
	}
}

// writeDocument prints the store, or the result of query when set.
func writeDocument(ctx context.Context, w io.Writer, store storage.Store, query string) error {
	var (
		out []byte
		err error
	)

	if query == "" {
		out, err = store.Backup()
	} else {
		out, err = store.Get(ctx, query)
	}

	if err != nil {
		return err
	}

	if out == nil {
		out = []byte("null")
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
