// Package repository stores updates and members.
package repository

import (
	"context"
	"time"

	"github.com/okian/pragati/internal/domain/model"
)

// Filter selects updates. Zero fields do not filter.
type Filter struct {
	Since      time.Time
	Until      time.Time
	MemberID   int64
	Department string
}

// UpdateStore persists updates with their structured fields in raw form.
type UpdateStore interface {
	// SaveUpdate stores rec and returns its assigned id.
	SaveUpdate(ctx context.Context, rec model.UpdateRecord) (int64, error)
	// ListUpdates returns the matching updates ordered by timestamp, then id.
	ListUpdates(ctx context.Context, f Filter) ([]model.UpdateRecord, error)
}

// MemberDirectory holds members. Members are never deleted.
type MemberDirectory interface {
	// ListMembers returns every member ordered by id.
	ListMembers(ctx context.Context) ([]model.Member, error)
	// GetMember returns ErrNotFound for an unknown id.
	GetMember(ctx context.Context, id int64) (model.Member, error)
	// EnsureMember returns the member called name, creating it with role and
	// department if it does not exist. created reports whether it was new.
	EnsureMember(ctx context.Context, name, role, department string) (m model.Member, created bool, err error)
}

// Store is both an update store and a member directory.
type Store interface {
	UpdateStore
	MemberDirectory
	Close() error
}

func (f Filter) matches(rec model.UpdateRecord, dept string) bool {
	if !f.Since.IsZero() && rec.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && rec.Timestamp.After(f.Until) {
		return false
	}
	if f.MemberID != 0 && rec.MemberID != f.MemberID {
		return false
	}
	if f.Department != "" && f.Department != dept {
		return false
	}
	return true
}
