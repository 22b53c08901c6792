package testutil

import "context"

// TestComponent is a resource started for the duration of a test.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string
	// Start brings the component up.
	Start(ctx context.Context) error
	// Stop releases everything Start acquired.
	Stop(ctx context.Context) error
	// Reset restores the component to its initial state.
	// This is typically used between test cases to ensure test isolation.
	Reset(ctx context.Context) error
}
