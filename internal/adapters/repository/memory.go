package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/pragati/internal/domain/model"
)

// MemoryStore keeps updates and members in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	members    []model.Member
	byName     map[string]int64
	updates    []model.UpdateRecord
	nextMember int64
	nextUpdate int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byName: make(map[string]int64)}
}

// SaveUpdate stores rec. The member must exist.
func (s *MemoryStore) SaveUpdate(_ context.Context, rec model.UpdateRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.member(rec.MemberID); !ok {
		return 0, fmt.Errorf("member %d: %w", rec.MemberID, ErrNotFound)
	}
	s.nextUpdate++
	rec.ID = s.nextUpdate
	s.updates = append(s.updates, rec)
	return rec.ID, nil
}

// ListUpdates returns matching updates ordered by timestamp, then id.
func (s *MemoryStore) ListUpdates(_ context.Context, f Filter) ([]model.UpdateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.UpdateRecord{}
	for _, rec := range s.updates {
		m, _ := s.member(rec.MemberID)
		if f.matches(rec, m.Department) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListMembers returns every member ordered by id.
func (s *MemoryStore) ListMembers(_ context.Context) ([]model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}

// GetMember returns the member with id.
func (s *MemoryStore) GetMember(_ context.Context, id int64) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.member(id)
	if !ok {
		return model.Member{}, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	return m, nil
}

// EnsureMember looks up name and creates the member if missing.
func (s *MemoryStore) EnsureMember(_ context.Context, name, role, department string) (model.Member, bool, error) {
	if name == "" {
		return model.Member{}, false, ErrInvalidMember
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[name]; ok {
		m, _ := s.member(id)
		return m, false, nil
	}
	s.nextMember++
	m := model.Member{ID: s.nextMember, Name: name, Role: role, Department: department}
	s.members = append(s.members, m)
	s.byName[name] = m.ID
	return m, true, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// member looks up id; ids are dense so the slice index is id-1.
func (s *MemoryStore) member(id int64) (model.Member, bool) {
	if id < 1 || id > int64(len(s.members)) {
		return model.Member{}, false
	}
	return s.members[id-1], true
}
