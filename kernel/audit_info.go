package kernel

import (
	"time"
)

// Auditable is implemented by entities and aggregates that embed AuditInfo.
// The persistence collaborator uses it to stamp creation and modification.
type Auditable interface {
	CreatedAtUTC() time.Time
	CreatedBy() string
	ModifiedAtUTC() (time.Time, bool)
	ModifiedBy() (string, bool)
	SetCreated(at time.Time, by string)
	SetModified(at time.Time, by string)
}

// AuditInfo is the embeddable audit component.
//
// It stores whatever it is given. Calling SetCreated exactly once, at the first successful save,
// and SetModified on every later save is up to the caller and not enforced here.
type AuditInfo struct {
	createdAtUTC  time.Time
	createdBy     string
	modifiedAtUTC *time.Time
	modifiedBy    *string
}

// RestoreAuditInfo rebuilds the component from persisted values, e.g. in a repository.
func RestoreAuditInfo(createdAt time.Time, createdBy string, modifiedAt *time.Time, modifiedBy *string) AuditInfo {
	info := AuditInfo{}
	info.SetCreated(createdAt, createdBy)

	if modifiedAt != nil {
		by := ""
		if modifiedBy != nil {
			by = *modifiedBy
		}

		info.SetModified(*modifiedAt, by)
	}

	return info
}

// CreatedAtUTC returns the creation time, or the zero time if it was never set.
func (a *AuditInfo) CreatedAtUTC() time.Time {
	return a.createdAtUTC
}

// CreatedBy returns who created the entity.
func (a *AuditInfo) CreatedBy() string {
	return a.createdBy
}

// ModifiedAtUTC returns the last modification time and whether there was one.
func (a *AuditInfo) ModifiedAtUTC() (time.Time, bool) {
	if a.modifiedAtUTC == nil {
		return time.Time{}, false
	}

	return *a.modifiedAtUTC, true
}

// ModifiedBy returns who modified the entity last and whether there was a modification.
func (a *AuditInfo) ModifiedBy() (string, bool) {
	if a.modifiedBy == nil {
		return "", false
	}

	return *a.modifiedBy, true
}

// IsCreated reports whether SetCreated has been called.
func (a *AuditInfo) IsCreated() bool {
	return !a.createdAtUTC.IsZero()
}

// SetCreated records the creation stamp.
func (a *AuditInfo) SetCreated(at time.Time, by string) {
	a.createdAtUTC = at.UTC()
	a.createdBy = by
}

// SetModified records a modification stamp.
func (a *AuditInfo) SetModified(at time.Time, by string) {
	utc := at.UTC()
	a.modifiedAtUTC = &utc
	a.modifiedBy = &by
}
