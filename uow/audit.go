package uow

import (
	"context"
	"time"

	"github.com/AntonStoeckl/ddd-kernel-go/kernel"
)

// SystemUser is recorded when no user can be determined.
const SystemUser = "system"

// Clock returns the current time.
type Clock func() time.Time

// UserProvider returns the user on whose behalf a change is saved.
type UserProvider interface {
	CurrentUser(ctx context.Context) string
}

// UserFunc adapts a function to the UserProvider interface.
type UserFunc func(ctx context.Context) string

// CurrentUser calls f(ctx).
func (f UserFunc) CurrentUser(ctx context.Context) string {
	return f(ctx)
}

// AuditStamper sets creation and modification audit info.
type AuditStamper struct {
	clock Clock
	users UserProvider
}

// NewAuditStamper builds an AuditStamper. A nil clock means time.Now, a nil provider means SystemUser.
func NewAuditStamper(clock Clock, users UserProvider) AuditStamper {
	return AuditStamper{clock: clock, users: users}
}

// Stamp records creation for Added and modification for Modified targets. Removed targets are left alone.
func (s AuditStamper) Stamp(ctx context.Context, kind ChangeKind, target kernel.Auditable) {
	switch kind {
	case Added:
		target.SetCreated(s.now(), s.user(ctx))
	case Modified:
		target.SetModified(s.now(), s.user(ctx))
	}
}

func (s AuditStamper) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}

	return s.clock()
}

func (s AuditStamper) user(ctx context.Context) string {
	if s.users == nil {
		return SystemUser
	}

	if user := s.users.CurrentUser(ctx); user != "" {
		return user
	}

	return SystemUser
}
