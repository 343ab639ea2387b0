// Package unifi drives guest authorization on a UniFi wireless controller.
package unifi

import "context"

// Controller hands out single-use sessions against the wireless
// controller. One session is created, used, and torn down per
// authorization attempt; sessions are never shared or reused.
type Controller interface {
	NewSession() Session
}

// Session is one authenticate/command/logout cycle on the controller.
type Session interface {
	// Authenticate performs the controller login. Valid only once, on a
	// fresh session.
	Authenticate(ctx context.Context) error

	// AuthorizeDevice grants the canonical MAC network access for the
	// given number of minutes. Valid only after Authenticate.
	AuthorizeDevice(ctx context.Context, mac string, minutes int) error

	// DeauthorizeDevice revokes access for the canonical MAC. Valid only
	// after Authenticate.
	DeauthorizeDevice(ctx context.Context, mac string) error

	// Close tears down the controller-side session. Idempotent; teardown
	// failures are logged, never returned, so they cannot mask the
	// primary operation's outcome. Must run on every path that created
	// the session.
	Close(ctx context.Context)
}

// NoopController is used in tests and in deployments without a
// controller configured.
type NoopController struct{}

func (NoopController) NewSession() Session { return noopSession{} }

type noopSession struct{}

func (noopSession) Authenticate(ctx context.Context) error { return nil }

func (noopSession) AuthorizeDevice(ctx context.Context, mac string, minutes int) error { return nil }

func (noopSession) DeauthorizeDevice(ctx context.Context, mac string) error { return nil }

func (noopSession) Close(ctx context.Context) {}
