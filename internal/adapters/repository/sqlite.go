package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/pragati/internal/domain/fields"
	"github.com/okian/pragati/internal/domain/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS team_members (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS updates (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	team_member_id     INTEGER NOT NULL REFERENCES team_members(id),
	timestamp          TEXT NOT NULL,
	update_text        TEXT NOT NULL DEFAULT '',
	completed_tasks    TEXT,
	project_progress   TEXT,
	goals_status       TEXT,
	blockers           TEXT,
	next_week_plans    TEXT,
	productivity_score REAL
);

CREATE INDEX IF NOT EXISTS idx_updates_timestamp ON updates(timestamp);
CREATE INDEX IF NOT EXISTS idx_updates_member ON updates(team_member_id);
`

// timestampLayout has fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const (
	defaultBusyTimeoutMs = 5000
	defaultMaxOpenConns  = 1
)

// SQLiteStore persists updates and members in a SQLite database.
// Structured fields are stored as text exactly as received and come back
// in raw form for the field normalizer.
type SQLiteStore struct {
	db            *sqlx.DB
	mu            sync.Mutex
	busyTimeoutMs int
	maxOpenConns  int
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeoutMs: defaultBusyTimeoutMs,
		maxOpenConns:  defaultMaxOpenConns,
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(%d)", path, s.busyTimeoutMs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s.db = db
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type memberRow struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Role       string `db:"role"`
	Department string `db:"department"`
}

func (r memberRow) member() model.Member {
	return model.Member{ID: r.ID, Name: r.Name, Role: r.Role, Department: r.Department}
}

type updateRow struct {
	ID                int64           `db:"id"`
	MemberID          int64           `db:"team_member_id"`
	Timestamp         string          `db:"timestamp"`
	Text              string          `db:"update_text"`
	CompletedTasks    sql.NullString  `db:"completed_tasks"`
	ProjectProgress   sql.NullString  `db:"project_progress"`
	GoalsStatus       sql.NullString  `db:"goals_status"`
	Blockers          sql.NullString  `db:"blockers"`
	NextWeekPlans     sql.NullString  `db:"next_week_plans"`
	ProductivityScore sql.NullFloat64 `db:"productivity_score"`
}

func (r updateRow) record() (model.UpdateRecord, error) {
	ts, err := time.Parse(timestampLayout, r.Timestamp)
	if err != nil {
		return model.UpdateRecord{}, fmt.Errorf("update %d timestamp %q: %w", r.ID, r.Timestamp, err)
	}
	rec := model.UpdateRecord{
		ID:              r.ID,
		MemberID:        r.MemberID,
		Timestamp:       ts,
		Text:            r.Text,
		CompletedTasks:  fieldFromColumn(r.CompletedTasks),
		ProjectProgress: fieldFromColumn(r.ProjectProgress),
		GoalsStatus:     fieldFromColumn(r.GoalsStatus),
		Blockers:        fieldFromColumn(r.Blockers),
		NextWeekPlans:   fieldFromColumn(r.NextWeekPlans),
	}
	if r.ProductivityScore.Valid {
		rec.ProductivityScore = model.Float(r.ProductivityScore.Float64)
	}
	return rec, nil
}

func fieldFromColumn(v sql.NullString) model.RawField {
	if !v.Valid {
		return model.EmptyField()
	}
	return model.RawText(v.String)
}

func fieldToColumn(f model.RawField) sql.NullString {
	switch f.Kind {
	case model.FieldList:
		return sql.NullString{String: fields.Encode(f.Items), Valid: true}
	case model.FieldRaw:
		return sql.NullString{String: f.Raw, Valid: true}
	default:
		return sql.NullString{}
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// SaveUpdate inserts rec and returns its id.
func (s *SQLiteStore) SaveUpdate(ctx context.Context, rec model.UpdateRecord) (int64, error) {
	var score sql.NullFloat64
	if rec.ProductivityScore != nil {
		score = sql.NullFloat64{Float64: *rec.ProductivityScore, Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getMember(ctx, rec.MemberID); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO updates
		(team_member_id, timestamp, update_text, completed_tasks, project_progress, goals_status, blockers, next_week_plans, productivity_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MemberID,
		formatTimestamp(rec.Timestamp),
		rec.Text,
		fieldToColumn(rec.CompletedTasks),
		fieldToColumn(rec.ProjectProgress),
		fieldToColumn(rec.GoalsStatus),
		fieldToColumn(rec.Blockers),
		fieldToColumn(rec.NextWeekPlans),
		score,
	)
	if err != nil {
		return 0, fmt.Errorf("insert update: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert update id: %w", err)
	}
	return id, nil
}

// ListUpdates returns matching updates ordered by timestamp, then id.
func (s *SQLiteStore) ListUpdates(ctx context.Context, f Filter) ([]model.UpdateRecord, error) {
	var (
		where []string
		args  []any
	)
	if !f.Since.IsZero() {
		where = append(where, "u.timestamp >= ?")
		args = append(args, formatTimestamp(f.Since))
	}
	if !f.Until.IsZero() {
		where = append(where, "u.timestamp <= ?")
		args = append(args, formatTimestamp(f.Until))
	}
	if f.MemberID != 0 {
		where = append(where, "u.team_member_id = ?")
		args = append(args, f.MemberID)
	}
	if f.Department != "" {
		where = append(where, "m.department = ?")
		args = append(args, f.Department)
	}

	q := `SELECT u.id, u.team_member_id, u.timestamp, u.update_text, u.completed_tasks, u.project_progress,
		u.goals_status, u.blockers, u.next_week_plans, u.productivity_score
		FROM updates u JOIN team_members m ON m.id = u.team_member_id`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY u.timestamp, u.id"

	var rows []updateRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	out := make([]model.UpdateRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListMembers returns every member ordered by id.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]model.Member, error) {
	var rows []memberRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, name, role, department FROM team_members ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]model.Member, len(rows))
	for i, r := range rows {
		out[i] = r.member()
	}
	return out, nil
}

// GetMember returns the member with id.
func (s *SQLiteStore) GetMember(ctx context.Context, id int64) (model.Member, error) {
	return s.getMember(ctx, id)
}

func (s *SQLiteStore) getMember(ctx context.Context, id int64) (model.Member, error) {
	var r memberRow
	err := s.db.GetContext(ctx, &r, "SELECT id, name, role, department FROM team_members WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Member{}, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Member{}, fmt.Errorf("get member %d: %w", id, err)
	}
	return r.member(), nil
}

// EnsureMember looks up name and creates the member if missing.
func (s *SQLiteStore) EnsureMember(ctx context.Context, name, role, department string) (model.Member, bool, error) {
	if name == "" {
		return model.Member{}, false, ErrInvalidMember
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO team_members (name, role, department) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
		name, role, department)
	if err != nil {
		return model.Member{}, false, fmt.Errorf("insert member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Member{}, false, fmt.Errorf("insert member: %w", err)
	}

	var r memberRow
	if err := s.db.GetContext(ctx, &r, "SELECT id, name, role, department FROM team_members WHERE name = ?", name); err != nil {
		return model.Member{}, false, fmt.Errorf("get member %q: %w", name, err)
	}
	return r.member(), n == 1, nil
}
