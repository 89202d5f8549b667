package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dmelojr/Diagnos/internal/api"
)

// SQLiteStore implements api.Store on a single SQLite database. Timestamps
// are stored as RFC3339Nano UTC strings; the result payload maps are stored
// as JSON text columns.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func contextBg() context.Context { return context.Background() }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeJSONText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// --- Pillar methods ---

func (s *SQLiteStore) AddPillar(p *api.Pillar) (*api.Pillar, error) {
	if p == nil {
		return nil, errors.New("nil pillar")
	}
	now := formatTime(s.now())
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO pillars(id, name, position, created_at, updated_at) VALUES(?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Order, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert pillar: %w", err)
	}
	return s.GetPillar(p.ID)
}

func (s *SQLiteStore) UpdatePillar(p *api.Pillar) error {
	if p == nil {
		return errors.New("nil pillar")
	}
	_, err := s.db.ExecContext(contextBg(),
		`UPDATE pillars SET name = ?, position = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Order, formatTime(s.now()), p.ID)
	if err != nil {
		return fmt.Errorf("update pillar: %w", err)
	}
	return nil
}

// DeletePillar removes the pillar; the ON DELETE CASCADE foreign key drops
// its questions in the same statement.
func (s *SQLiteStore) DeletePillar(id string) error {
	if _, err := s.db.ExecContext(contextBg(), `DELETE FROM pillars WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete pillar: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPillar(id string) (*api.Pillar, error) {
	row := s.db.QueryRowContext(contextBg(),
		`SELECT id, name, position, created_at, updated_at FROM pillars WHERE id = ?`, id)
	p, err := scanPillar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pillar: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPillar(row rowScanner) (*api.Pillar, error) {
	var p api.Pillar
	var created, updated string
	if err := row.Scan(&p.ID, &p.Name, &p.Order, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// --- Question methods ---

func (s *SQLiteStore) AddQuestion(q *api.Question) (*api.Question, error) {
	if q == nil {
		return nil, errors.New("nil question")
	}
	now := formatTime(s.now())
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO questions(id, pillar_id, text, points, positive_answer, answer_type, position, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.PillarID, q.Text, q.Points, q.PositiveAnswer, q.AnswerType, q.Order, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return s.GetQuestion(q.ID)
}

func (s *SQLiteStore) UpdateQuestion(q *api.Question) error {
	if q == nil {
		return errors.New("nil question")
	}
	_, err := s.db.ExecContext(contextBg(),
		`UPDATE questions SET pillar_id = ?, text = ?, points = ?, positive_answer = ?, answer_type = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		q.PillarID, q.Text, q.Points, q.PositiveAnswer, q.AnswerType, q.Order, formatTime(s.now()), q.ID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteQuestion(id string) error {
	if _, err := s.db.ExecContext(contextBg(), `DELETE FROM questions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetQuestion(id string) (*api.Question, error) {
	row := s.db.QueryRowContext(contextBg(),
		`SELECT id, pillar_id, text, points, positive_answer, answer_type, position, created_at, updated_at
		 FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func scanQuestion(row rowScanner) (*api.Question, error) {
	var q api.Question
	var created, updated string
	if err := row.Scan(&q.ID, &q.PillarID, &q.Text, &q.Points, &q.PositiveAnswer, &q.AnswerType, &q.Order, &created, &updated); err != nil {
		return nil, err
	}
	q.CreatedAt = parseTime(created)
	q.UpdatedAt = parseTime(updated)
	return &q, nil
}

// CatalogSnapshot reads pillars and questions inside one transaction so the
// caller sees a single consistent catalog version.
func (s *SQLiteStore) CatalogSnapshot() (snap *api.CatalogSnapshot, err error) {
	ctx := contextBg()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("snapshot commit: %w", err)
		}
	}()

	pillarRows, err := tx.QueryContext(ctx,
		`SELECT id, name, position, created_at, updated_at FROM pillars ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshot pillars: %w", err)
	}
	snap = &api.CatalogSnapshot{Pillars: []*api.Pillar{}}
	byID := map[string]*api.Pillar{}
	for pillarRows.Next() {
		var p *api.Pillar
		if p, err = scanPillar(pillarRows); err != nil {
			_ = pillarRows.Close()
			return nil, fmt.Errorf("snapshot scan pillar: %w", err)
		}
		snap.Pillars = append(snap.Pillars, p)
		byID[p.ID] = p
	}
	if err = pillarRows.Err(); err != nil {
		_ = pillarRows.Close()
		return nil, fmt.Errorf("snapshot pillars: %w", err)
	}
	if err = pillarRows.Close(); err != nil {
		return nil, fmt.Errorf("snapshot pillars close: %w", err)
	}

	questionRows, err := tx.QueryContext(ctx,
		`SELECT id, pillar_id, text, points, positive_answer, answer_type, position, created_at, updated_at
		 FROM questions ORDER BY pillar_id ASC, position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshot questions: %w", err)
	}
	for questionRows.Next() {
		var q *api.Question
		if q, err = scanQuestion(questionRows); err != nil {
			_ = questionRows.Close()
			return nil, fmt.Errorf("snapshot scan question: %w", err)
		}
		if p, ok := byID[q.PillarID]; ok {
			p.Questions = append(p.Questions, q)
		}
	}
	if err = questionRows.Err(); err != nil {
		_ = questionRows.Close()
		return nil, fmt.Errorf("snapshot questions: %w", err)
	}
	if err = questionRows.Close(); err != nil {
		return nil, fmt.Errorf("snapshot questions close: %w", err)
	}
	return snap, nil
}

// --- Result methods ---

func (s *SQLiteStore) AddResult(r *api.DiagnosticResult) (*api.DiagnosticResult, error) {
	if r == nil {
		return nil, errors.New("nil result")
	}
	companyData, err := encodeJSONText(r.CompanyData)
	if err != nil {
		return nil, fmt.Errorf("encode company data: %w", err)
	}
	answers, err := encodeJSONText(r.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}
	pillarScores, err := encodeJSONText(r.PillarScores)
	if err != nil {
		return nil, fmt.Errorf("encode pillar scores: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	_, err = s.db.ExecContext(contextBg(),
		`INSERT INTO diagnostic_results(id, user_id, company_data, answers, pillar_scores, total_score, max_possible_score, percentage_score, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, companyData, answers, pillarScores, r.TotalScore, r.MaxPossibleScore, r.PercentageScore, formatTime(created))
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}
	return s.GetResult(r.ID)
}

func (s *SQLiteStore) GetResult(id string) (*api.DiagnosticResult, error) {
	row := s.db.QueryRowContext(contextBg(),
		`SELECT id, user_id, company_data, answers, pillar_scores, total_score, max_possible_score, percentage_score, created_at
		 FROM diagnostic_results WHERE id = ?`, id)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) ListResultsByUser(userID string) ([]*api.DiagnosticResult, error) {
	rows, err := s.db.QueryContext(contextBg(),
		`SELECT id, user_id, company_data, answers, pillar_scores, total_score, max_possible_score, percentage_score, created_at
		 FROM diagnostic_results WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer func() { s.logErr("ListResultsByUser rows close", rows.Close()) }()
	out := []*api.DiagnosticResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteResult(id string) error {
	if _, err := s.db.ExecContext(contextBg(), `DELETE FROM diagnostic_results WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

func scanResult(row rowScanner) (*api.DiagnosticResult, error) {
	var r api.DiagnosticResult
	var companyData, answers, pillarScores, created string
	if err := row.Scan(&r.ID, &r.UserID, &companyData, &answers, &pillarScores, &r.TotalScore, &r.MaxPossibleScore, &r.PercentageScore, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(companyData), &r.CompanyData); err != nil {
		return nil, fmt.Errorf("decode company data: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(pillarScores), &r.PillarScores); err != nil {
		return nil, fmt.Errorf("decode pillar scores: %w", err)
	}
	r.CreatedAt = parseTime(created)
	return &r, nil
}

// --- Settings methods ---

func (s *SQLiteStore) GetSettings() (*api.Settings, error) {
	row := s.db.QueryRowContext(contextBg(),
		`SELECT logo, navbar_logo, updated_at FROM settings WHERE id = 1`)
	var st api.Settings
	var updated string
	err := row.Scan(&st.Logo, &st.NavbarLogo, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	st.UpdatedAt = parseTime(updated)
	return &st, nil
}

func (s *SQLiteStore) UpsertSettings(st *api.Settings) error {
	if st == nil {
		return errors.New("nil settings")
	}
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO settings(id, logo, navbar_logo, updated_at) VALUES(1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET logo = excluded.logo, navbar_logo = excluded.navbar_logo, updated_at = excluded.updated_at`,
		st.Logo, st.NavbarLogo, formatTime(s.now()))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// --- User methods ---

func (s *SQLiteStore) AddUser(u *api.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	_, err := s.db.ExecContext(contextBg(),
		`INSERT INTO users(id, email, pass_hash, role, created_at) VALUES(?, ?, ?, ?, ?)`,
		u.ID, strings.ToLower(u.Email), u.PassHash, u.Role, formatTime(created))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindUserByEmail(email string) (*api.User, error) {
	row := s.db.QueryRowContext(contextBg(),
		`SELECT id, email, pass_hash, role, created_at FROM users WHERE email = ?`, strings.ToLower(email))
	var u api.User
	var created string
	err := row.Scan(&u.ID, &u.Email, &u.PassHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

func (s *SQLiteStore) CountUsers() (int, error) {
	var n int
	if err := s.db.QueryRowContext(contextBg(), `SELECT COUNT(1) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

var _ api.Store = (*SQLiteStore)(nil)
