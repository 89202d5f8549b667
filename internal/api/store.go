package api

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

type Pillar struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Order     int         `json:"order"`
	Questions []*Question `json:"questions,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Question struct {
	ID             string    `json:"id"`
	PillarID       string    `json:"pillar_id"`
	Text           string    `json:"text"`
	Points         int       `json:"points"`
	PositiveAnswer string    `json:"positive_answer"`
	AnswerType     string    `json:"answer_type"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CatalogSnapshot struct {
	Pillars []*Pillar `json:"pillars"`
}

type PillarScore struct {
	Earned     int     `json:"earned"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

type DiagnosticResult struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	CompanyData      map[string]any         `json:"company_data"`
	Answers          map[string]string      `json:"answers"`
	PillarScores     map[string]PillarScore `json:"pillar_scores"`
	TotalScore       int                    `json:"total_score"`
	MaxPossibleScore int                    `json:"max_possible_score"`
	PercentageScore  float64                `json:"percentage_score"`
	CreatedAt        time.Time              `json:"created_at"`
}

type Settings struct {
	Logo       string    `json:"logo"`
	NavbarLogo string    `json:"navbar_logo"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	PassHash  []byte `json:"-"`
	Role      string `json:"role"`
	CreatedAt time.Time
}

// memoryStore keeps everything in maps behind one RWMutex. It hands out
// copies, never its own pointers, so callers cannot mutate stored state.
// Updates and deletes of missing records are no-ops; services check
// existence first and own the not-found semantics.
type memoryStore struct {
	mu           sync.RWMutex
	pillars      map[string]*Pillar
	questions    map[string]*Question
	results      map[string]*DiagnosticResult
	settings     *Settings
	usersByEmail map[string]*User
	now          func() time.Time
}

// NewMemoryStore returns an empty in-process store. Useful for tests and
// for running without a database path configured.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		pillars:      map[string]*Pillar{},
		questions:    map[string]*Question{},
		results:      map[string]*DiagnosticResult{},
		usersByEmail: map[string]*User{},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (m *memoryStore) AddPillar(p *Pillar) (*Pillar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *p
	copy.Questions = nil
	copy.CreatedAt = m.now()
	copy.UpdatedAt = copy.CreatedAt
	m.pillars[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (m *memoryStore) UpdatePillar(p *Pillar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.pillars[p.ID]
	if !ok {
		return nil
	}
	copy := *p
	copy.Questions = nil
	copy.CreatedAt = existing.CreatedAt
	copy.UpdatedAt = m.now()
	m.pillars[copy.ID] = &copy
	return nil
}

// DeletePillar removes the pillar and every question under it, the same
// cascade the SQLite schema enforces with foreign keys.
func (m *memoryStore) DeletePillar(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pillars, id)
	for qid, q := range m.questions {
		if q.PillarID == id {
			delete(m.questions, qid)
		}
	}
	return nil
}

func (m *memoryStore) GetPillar(id string) (*Pillar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pillars[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	return &copy, nil
}

func (m *memoryStore) listPillarsLocked() []*Pillar {
	out := make([]*Pillar, 0, len(m.pillars))
	for _, p := range m.pillars {
		copy := *p
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryStore) AddQuestion(q *Question) (*Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *q
	copy.CreatedAt = m.now()
	copy.UpdatedAt = copy.CreatedAt
	m.questions[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (m *memoryStore) UpdateQuestion(q *Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.questions[q.ID]
	if !ok {
		return nil
	}
	copy := *q
	copy.CreatedAt = existing.CreatedAt
	copy.UpdatedAt = m.now()
	m.questions[copy.ID] = &copy
	return nil
}

func (m *memoryStore) DeleteQuestion(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.questions, id)
	return nil
}

func (m *memoryStore) GetQuestion(id string) (*Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, nil
	}
	copy := *q
	return &copy, nil
}

func (m *memoryStore) listQuestionsLocked(pillarID string) []*Question {
	out := []*Question{}
	for _, q := range m.questions {
		if q.PillarID == pillarID {
			copy := *q
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CatalogSnapshot assembles the full catalog under one read lock, so the
// result is a single consistent view even while writers are active.
func (m *memoryStore) CatalogSnapshot() (*CatalogSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := &CatalogSnapshot{Pillars: m.listPillarsLocked()}
	for _, p := range snap.Pillars {
		p.Questions = m.listQuestionsLocked(p.ID)
	}
	return snap, nil
}

func (m *memoryStore) AddResult(r *DiagnosticResult) (*DiagnosticResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := cloneResult(r)
	if copy.CreatedAt.IsZero() {
		copy.CreatedAt = m.now()
	}
	m.results[copy.ID] = copy
	return cloneResult(copy), nil
}

func (m *memoryStore) GetResult(id string) (*DiagnosticResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	return cloneResult(r), nil
}

func (m *memoryStore) ListResultsByUser(userID string) ([]*DiagnosticResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*DiagnosticResult{}
	for _, r := range m.results {
		if r.UserID == userID {
			out = append(out, cloneResult(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memoryStore) DeleteResult(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.results, id)
	return nil
}

func (m *memoryStore) GetSettings() (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, nil
	}
	copy := *m.settings
	return &copy, nil
}

func (m *memoryStore) UpsertSettings(st *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *st
	copy.UpdatedAt = m.now()
	m.settings = &copy
	return nil
}

func (m *memoryStore) AddUser(u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := m.usersByEmail[key]; ok {
		return errors.New("email already registered")
	}
	copy := *u
	copy.PassHash = append([]byte(nil), u.PassHash...)
	if copy.CreatedAt.IsZero() {
		copy.CreatedAt = m.now()
	}
	m.usersByEmail[key] = &copy
	return nil
}

func (m *memoryStore) FindUserByEmail(email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	copy := *u
	copy.PassHash = append([]byte(nil), u.PassHash...)
	return &copy, nil
}

func (m *memoryStore) CountUsers() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.usersByEmail), nil
}

func cloneResult(r *DiagnosticResult) *DiagnosticResult {
	copy := *r
	if r.CompanyData != nil {
		copy.CompanyData = make(map[string]any, len(r.CompanyData))
		for k, v := range r.CompanyData {
			copy.CompanyData[k] = v
		}
	}
	if r.Answers != nil {
		copy.Answers = make(map[string]string, len(r.Answers))
		for k, v := range r.Answers {
			copy.Answers[k] = v
		}
	}
	if r.PillarScores != nil {
		copy.PillarScores = make(map[string]PillarScore, len(r.PillarScores))
		for k, v := range r.PillarScores {
			copy.PillarScores[k] = v
		}
	}
	return &copy
}
