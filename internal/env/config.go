package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is read from EOSC_ environment variables, .env.local is loaded
// first when it exists. Command line flags override it.
type Config struct {
	Host           string        `env:"EOSC_HOST,default=localhost"`
	Port           int           `env:"EOSC_PORT,default=3037"`
	ConnectTimeout time.Duration `env:"EOSC_CONNECT_TIMEOUT,default=5s"`
	RequestTimeout time.Duration `env:"EOSC_REQUEST_TIMEOUT,default=10s"`

	// User is the console user to act as, 0 keeps the console's default
	User int `env:"EOSC_USER"`

	LogLevel  string `env:"EOSC_LOG_LEVEL,default=info"`
	DebugHTTP bool   `env:"EOSC_DEBUG_HTTP"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return ProcessConfig(ctx, envconfig.OsLookuper())
}

// ProcessConfig reads the config from lookuper without touching .env.local.
func ProcessConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	config := Config{}

	if err := envconfig.ProcessWith(ctx, &config, lookuper); err != nil {
		return nil, err
	}

	return &config, nil
}
