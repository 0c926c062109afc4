package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/pragati/internal/domain/model"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pragati.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sarah, created, err := s.EnsureMember(ctx, "Sarah Chen - Backend Engineer", "Backend Engineer", "Engineering")
			require.NoError(t, err)
			assert.True(t, created)
			again, created, err := s.EnsureMember(ctx, "Sarah Chen - Backend Engineer", "ignored", "ignored")
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, sarah, again)

			mike, _, err := s.EnsureMember(ctx, "Mike Ross - Product Designer", "Product Designer", "Design")
			require.NoError(t, err)
			assert.NotEqual(t, sarah.ID, mike.ID)

			_, _, err = s.EnsureMember(ctx, "", "", "")
			assert.ErrorIs(t, err, ErrInvalidMember)

			got, err := s.GetMember(ctx, mike.ID)
			require.NoError(t, err)
			assert.Equal(t, "Design", got.Department)
			_, err = s.GetMember(ctx, 999)
			assert.ErrorIs(t, err, ErrNotFound)

			members, err := s.ListMembers(ctx)
			require.NoError(t, err)
			require.Len(t, members, 2)
			assert.Equal(t, sarah.ID, members[0].ID)

			// inserted out of order to check the timestamp ordering
			later := model.UpdateRecord{
				MemberID:          sarah.ID,
				Timestamp:         base.Add(48 * time.Hour),
				Text:              "shipped the api",
				CompletedTasks:    model.ListField("api", "docs"),
				Blockers:          model.RawText("not json"),
				ProductivityScore: model.Float(8.5),
			}
			earlier := model.UpdateRecord{
				MemberID:  mike.ID,
				Timestamp: base,
				Text:      "mockups",
			}
			id1, err := s.SaveUpdate(ctx, later)
			require.NoError(t, err)
			id2, err := s.SaveUpdate(ctx, earlier)
			require.NoError(t, err)
			assert.NotEqual(t, id1, id2)

			_, err = s.SaveUpdate(ctx, model.UpdateRecord{MemberID: 999, Timestamp: base})
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := s.ListUpdates(ctx, Filter{})
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, id2, all[0].ID)
			assert.Equal(t, id1, all[1].ID)
			assert.True(t, all[1].Timestamp.Equal(later.Timestamp))
			require.NotNil(t, all[1].ProductivityScore)
			assert.InDelta(t, 8.5, *all[1].ProductivityScore, 1e-9)
			assert.Nil(t, all[0].ProductivityScore)
			assert.Equal(t, model.FieldEmpty, all[0].GoalsStatus.Kind)
			assert.NotEqual(t, model.FieldEmpty, all[1].CompletedTasks.Kind)
			assert.NotEqual(t, model.FieldEmpty, all[1].Blockers.Kind)

			since, err := s.ListUpdates(ctx, Filter{Since: base.Add(time.Hour)})
			require.NoError(t, err)
			require.Len(t, since, 1)
			assert.Equal(t, id1, since[0].ID)

			until, err := s.ListUpdates(ctx, Filter{Until: base})
			require.NoError(t, err)
			require.Len(t, until, 1)
			assert.Equal(t, id2, until[0].ID)

			byDept, err := s.ListUpdates(ctx, Filter{Department: "Engineering"})
			require.NoError(t, err)
			require.Len(t, byDept, 1)
			assert.Equal(t, sarah.ID, byDept[0].MemberID)

			byMember, err := s.ListUpdates(ctx, Filter{MemberID: mike.ID})
			require.NoError(t, err)
			require.Len(t, byMember, 1)

			none, err := s.ListUpdates(ctx, Filter{Department: "Sales"})
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pragati.db")

	s, err := NewSQLiteStore(path, WithBusyTimeout(1000))
	require.NoError(t, err)
	m, _, err := s.EnsureMember(ctx, "Priya Patel - Data Analyst", "Data Analyst", "Analytics")
	require.NoError(t, err)
	_, err = s.SaveUpdate(ctx, model.UpdateRecord{
		MemberID:       m.ID,
		Timestamp:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		CompletedTasks: model.ListField("report"),
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	ups, err := s.ListUpdates(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, model.FieldRaw, ups[0].CompletedTasks.Kind)
	assert.Equal(t, `["report"]`, ups[0].CompletedTasks.Raw)
}

func TestOpen(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	_ = s.Close()

	_, err = Open("postgres", "")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
