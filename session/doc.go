// Package session owns the active query's lifecycle: admission control in
// front of session creation, the Idle/Running/terminal state machine, the
// ordered match list with wrap-around navigation, and cooperative
// cancellation. It drives an engine.Engine but never depends on which
// deployment is behind it.
package session
