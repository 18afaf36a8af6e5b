package repository

import (
	"context"
)

// ConnectionVar is an ambient connection slot carried through context.Context.
//
// A slot decouples repositories from connection handling: middleware or a
// worker loop stores the connection once per task, and every repository
// configured for the slot picks it up from the operation's context. Each
// ConnectionVar created with NewConnectionVar is a distinct slot, even when
// names collide; values stored in one slot are invisible to all others.
//
// Example usage:
//
//	ctx = repository.WithConnection(ctx, pool)
//	trans, err := transactionRepo.Insert(ctx, trans)
type ConnectionVar struct {
	name string
	key  *connectionVarKey
}

// connectionVarKey is a private pointer-identity key to prevent context key collisions.
type connectionVarKey struct {
	name string
}

// NewConnectionVar creates a distinct ambient connection slot.
// The name appears in logs and errors, it does not identify the slot.
func NewConnectionVar(name string) ConnectionVar {
	return ConnectionVar{
		name: name,
		key:  &connectionVarKey{name: name},
	}
}

// Name returns the slot name for logging and error reporting.
func (v ConnectionVar) Name() string {
	return v.name
}

// IsZero reports whether the var is the zero value instead of a slot
// created with NewConnectionVar.
func (v ConnectionVar) IsZero() bool {
	return v.key == nil
}

// WithConnection returns a context carrying the connection in this slot.
// Storing a new connection shadows the previous one for the returned
// context's lifetime; the parent context is unaffected.
func (v ConnectionVar) WithConnection(ctx context.Context, conn any) context.Context {
	return context.WithValue(ctx, v.key, conn)
}

// ConnectionFrom extracts the connection stored in this slot, if any.
func (v ConnectionVar) ConnectionFrom(ctx context.Context) (any, bool) {
	if v.key == nil {
		return nil, false
	}

	conn := ctx.Value(v.key)
	if conn == nil {
		return nil, false
	}

	return conn, true
}

// DefaultConnectionVar is the slot repositories consult unless an alternate
// slot is configured. It is process-global on purpose: an application that
// manages one database connection shares it through this slot without any
// wiring.
var DefaultConnectionVar = NewConnectionVar("default")

// WithConnection stores the connection in the default slot.
func WithConnection(ctx context.Context, conn any) context.Context {
	return DefaultConnectionVar.WithConnection(ctx, conn)
}

// ConnectionFrom extracts the connection from the default slot, if any.
func ConnectionFrom(ctx context.Context) (any, bool) {
	return DefaultConnectionVar.ConnectionFrom(ctx)
}
