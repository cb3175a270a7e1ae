package featureflags

import (
	"context"
	"fmt"

	"github.com/rollout/rox-go/v5/core/model"
	"github.com/rollout/rox-go/v5/server"
)

// Flags holds the service's feature flags. Offline is a kill switch that takes
// the storefront API offline (health endpoints stay up); LogLevel drives the
// runtime log level.
type Flags struct {
	Offline  model.Flag
	LogLevel model.RoxString
}

var (
	rox   *server.Rox
	flags = &Flags{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
	}
)

// Init registers the flag container and, when an API key is provided, connects
// to the hosted backend. With an empty key the flags serve their defaults,
// which keeps local development working without an account.
func Init(ctx context.Context, apiKey string) error {
	rox = server.NewRox()
	rox.Register("", flags)

	if apiKey == "" {
		return nil
	}

	done := rox.Setup(apiKey, server.NewRoxOptions(server.RoxOptionsBuilder{}))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("feature flags setup: %w", ctx.Err())
	}
}

// Values returns the live flag container.
func Values() *Flags {
	return flags
}

// Shutdown releases the SDK. Safe to call when Init was never reached.
func Shutdown() {
	if rox != nil {
		<-rox.Shutdown()
	}
}
