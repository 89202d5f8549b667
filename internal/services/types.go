package services

import "time"

// AnswerType says which answer values a question accepts.
type AnswerType string

const (
	// AnswerTypeBinary accepts yes/no only.
	AnswerTypeBinary AnswerType = "BINARY"
	// AnswerTypeTernary additionally accepts a neutral "not applicable".
	AnswerTypeTernary AnswerType = "TERNARY"
)

// Canonical answer values as they travel over the wire and into storage.
const (
	AnswerYes           = "SIM"
	AnswerNo            = "NÃO"
	AnswerNotApplicable = "N/A"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Pillar groups questions under one diagnostic theme.
type Pillar struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Order     int         `json:"order"`
	Questions []*Question `json:"questions,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Question is a single scored item inside a pillar. PositiveAnswer is the
// value that earns Points; the other legal values earn nothing.
type Question struct {
	ID             string     `json:"id"`
	PillarID       string     `json:"pillar_id"`
	Text           string     `json:"text"`
	Points         int        `json:"points"`
	PositiveAnswer string     `json:"positive_answer"`
	AnswerType     AnswerType `json:"answer_type"`
	Order          int        `json:"order"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CatalogSnapshot is one consistent read of the whole catalog. Scoring and
// submission operate on a snapshot so a concurrent catalog edit cannot
// interleave.
type CatalogSnapshot struct {
	Pillars []*Pillar `json:"pillars"`
}

// PillarScore is the scored outcome for a single pillar.
type PillarScore struct {
	Earned     int     `json:"earned"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

// ScoredDiagnostic is the output of the scoring engine before persistence.
type ScoredDiagnostic struct {
	PillarScores     map[string]PillarScore `json:"pillar_scores"`
	TotalScore       int                    `json:"total_score"`
	MaxPossibleScore int                    `json:"max_possible_score"`
	PercentageScore  float64                `json:"percentage_score"`
}

// DiagnosticResult is an immutable record of one submitted diagnostic.
// CompanyData is opaque respondent-supplied context; it is stored and
// returned untouched.
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

// Settings is the site-wide singleton (branding assets).
type Settings struct {
	Logo       string    `json:"logo"`
	NavbarLogo string    `json:"navbar_logo"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// User is an authenticated account.
type User struct {
	ID        string
	Email     string
	PassHash  []byte
	Role      string
	CreatedAt time.Time
}
