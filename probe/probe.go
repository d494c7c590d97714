package probe

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Func is a single readiness or liveness check. A nil error means healthy.
type Func func(ctx context.Context) error

// NewPingProbe names fn so failures read "<name> probe failed: ..." in the
// readiness payload.
func NewPingProbe(name string, fn Func) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return nilDependencyError(name, "ping function")
		}
		if err := fn(contextOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// MongoPinger is satisfied by *mongo.Client.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// NewMongoPingProbe pings MongoDB through client. A nil readPref means
// readpref.Primary.
func NewMongoPingProbe(client MongoPinger, readPref *readpref.ReadPref) Func {
	if readPref == nil {
		readPref = readpref.Primary()
	}
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("mongo probe: client is nil")
		}
		if err := client.Ping(contextOrBackground(ctx), readPref); err != nil {
			return fmt.Errorf("mongo probe failed: %w", err)
		}
		return nil
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func nilDependencyError(name, dependency string) error {
	return fmt.Errorf("%s probe: %s is nil", name, dependency)
}
