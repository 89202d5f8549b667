package api

// Store is the persistence boundary of the API layer. Both the in-memory
// store and the SQLite store implement it. Get methods return (nil, nil)
// when the record does not exist so callers can map absence to their own
// error taxonomy.
type Store interface {
	AddPillar(p *Pillar) (*Pillar, error)
	UpdatePillar(p *Pillar) error
	DeletePillar(id string) error
	GetPillar(id string) (*Pillar, error)

	AddQuestion(q *Question) (*Question, error)
	UpdateQuestion(q *Question) error
	DeleteQuestion(id string) error
	GetQuestion(id string) (*Question, error)

	// CatalogSnapshot assembles every pillar with its questions in one
	// consistent read.
	CatalogSnapshot() (*CatalogSnapshot, error)

	AddResult(r *DiagnosticResult) (*DiagnosticResult, error)
	GetResult(id string) (*DiagnosticResult, error)
	ListResultsByUser(userID string) ([]*DiagnosticResult, error)
	DeleteResult(id string) error

	GetSettings() (*Settings, error)
	UpsertSettings(st *Settings) error

	AddUser(u *User) error
	FindUserByEmail(email string) (*User, error)
	CountUsers() (int, error)
}

var _ Store = (*memoryStore)(nil)
