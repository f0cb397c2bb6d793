package bootstrap

import "context"

// AuditLog is a lifecycle event worth keeping a trace of, such as a
// shutdown signal.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger receives server lifecycle events. The default
// implementation writes to the process log; the API wires an
// implementation backed by the audit trail.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
