package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorUnauthenticated ErrorCode = "unauthenticated"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorForbidden       ErrorCode = "forbidden"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorConflict        ErrorCode = "conflict"
	ErrorUnavailable     ErrorCode = "unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }

func NewUnauthenticatedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthenticated, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

// NewUnavailableError marks a storage failure. Callers may retry the same
// operation without side effects.
func NewUnavailableError(msg string) error {
	return &ServiceError{Code: ErrorUnavailable, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CatalogStore is the storage dependency needed by CatalogService.
// Get methods return (nil, nil) when the record does not exist.
type CatalogStore interface {
	InsertPillar(p *Pillar) (*Pillar, error)
	UpdatePillar(p *Pillar) error
	DeletePillar(id string) error
	GetPillar(id string) (*Pillar, error)
	InsertQuestion(q *Question) (*Question, error)
	UpdateQuestion(q *Question) error
	DeleteQuestion(id string) error
	GetQuestion(id string) (*Question, error)
	Snapshot() (*CatalogSnapshot, error)
}

// CatalogService manages pillars and questions.
type CatalogService struct {
	store  CatalogStore
	policy *Policy
	idGen  func(n int) string
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store, policy: NewPolicy(), idGen: shortID}
}

func (s *CatalogService) CreatePillar(caller Identity, p *Pillar) (*Pillar, error) {
	if err := s.policy.Authorize(caller, ActionCatalogWrite, ""); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewInvalidError("pillar required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, NewInvalidError("name required")
	}
	if p.ID == "" {
		p.ID = s.idGen(8)
	}
	created, err := s.store.InsertPillar(p)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return p, nil
	}
	return created, nil
}

func (s *CatalogService) UpdatePillar(caller Identity, id string, p *Pillar) (*Pillar, error) {
	if err := s.policy.Authorize(caller, ActionCatalogWrite, ""); err != nil {
		return nil, err
	}
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, NewInvalidError("name required")
	}
	existing, err := s.store.GetPillar(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NewNotFoundError("pillar not found")
	}
	updated := *existing
	updated.Name = p.Name
	updated.Order = p.Order
	if err := s.store.UpdatePillar(&updated); err != nil {
		return nil, err
	}
	return s.store.GetPillar(id)
}

func (s *CatalogService) DeletePillar(caller Identity, id string) error {
	if err := s.policy.Authorize(caller, ActionCatalogDelete, ""); err != nil {
		return err
	}
	existing, err := s.store.GetPillar(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("pillar not found")
	}
	return s.store.DeletePillar(id)
}

func (s *CatalogService) CreateQuestion(caller Identity, q *Question) (*Question, error) {
	if err := s.policy.Authorize(caller, ActionCatalogWrite, ""); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewInvalidError("question required")
	}
	if strings.TrimSpace(q.PillarID) == "" {
		return nil, NewInvalidError("pillar_id required")
	}
	if err := normalizeQuestion(q); err != nil {
		return nil, err
	}
	pillar, err := s.store.GetPillar(q.PillarID)
	if err != nil {
		return nil, err
	}
	if pillar == nil {
		return nil, NewNotFoundError("pillar not found")
	}
	if q.ID == "" {
		q.ID = s.idGen(8)
	}
	created, err := s.store.InsertQuestion(q)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return q, nil
	}
	return created, nil
}

func (s *CatalogService) UpdateQuestion(caller Identity, id string, q *Question) (*Question, error) {
	if err := s.policy.Authorize(caller, ActionCatalogWrite, ""); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewInvalidError("question required")
	}
	existing, err := s.store.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NewNotFoundError("question not found")
	}
	if err := normalizeQuestion(q); err != nil {
		return nil, err
	}
	updated := *existing
	updated.Text = q.Text
	updated.Points = q.Points
	updated.PositiveAnswer = q.PositiveAnswer
	updated.AnswerType = q.AnswerType
	updated.Order = q.Order
	if q.PillarID != "" && q.PillarID != existing.PillarID {
		pillar, err := s.store.GetPillar(q.PillarID)
		if err != nil {
			return nil, err
		}
		if pillar == nil {
			return nil, NewNotFoundError("pillar not found")
		}
		updated.PillarID = q.PillarID
	}
	if err := s.store.UpdateQuestion(&updated); err != nil {
		return nil, err
	}
	return s.store.GetQuestion(id)
}

func (s *CatalogService) DeleteQuestion(caller Identity, id string) error {
	if err := s.policy.Authorize(caller, ActionCatalogDelete, ""); err != nil {
		return err
	}
	existing, err := s.store.GetQuestion(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("question not found")
	}
	return s.store.DeleteQuestion(id)
}

// Snapshot returns one consistent view of the whole catalog, pillars and
// questions in stored order.
func (s *CatalogService) Snapshot(caller Identity) (*CatalogSnapshot, error) {
	if err := s.policy.Authorize(caller, ActionCatalogRead, ""); err != nil {
		return nil, err
	}
	return s.store.Snapshot()
}

// ListPillars returns the ordered pillars with their questions embedded,
// read from the same consistent snapshot Submit scores against.
func (s *CatalogService) ListPillars(caller Identity) ([]*Pillar, error) {
	snap, err := s.Snapshot(caller)
	if err != nil {
		return nil, err
	}
	return snap.Pillars, nil
}

// normalizeQuestion applies defaults and rejects out-of-range fields.
func normalizeQuestion(q *Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidError("text required")
	}
	if q.Points == 0 {
		q.Points = 1
	}
	if q.Points < 1 {
		return NewInvalidError("points must be at least 1")
	}
	switch q.PositiveAnswer {
	case AnswerYes, AnswerNo:
	default:
		return NewInvalidError("positive_answer must be SIM or NÃO")
	}
	switch q.AnswerType {
	case "":
		q.AnswerType = AnswerTypeBinary
	case AnswerTypeBinary, AnswerTypeTernary:
	default:
		return NewInvalidError("answer_type must be BINARY or TERNARY")
	}
	return nil
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
