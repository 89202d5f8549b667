package api

import "github.com/dmelojr/Diagnos/internal/services"

type catalogStoreAdapter struct {
	store Store
}

func newCatalogStoreAdapter(store Store) services.CatalogStore {
	return &catalogStoreAdapter{store: store}
}

func (a *catalogStoreAdapter) InsertPillar(p *services.Pillar) (*services.Pillar, error) {
	stored, err := a.store.AddPillar(convertServicePillar(p))
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIPillar(stored), nil
}

func (a *catalogStoreAdapter) UpdatePillar(p *services.Pillar) error {
	if p == nil {
		return services.NewInvalidError("pillar required")
	}
	return storeErr(a.store.UpdatePillar(convertServicePillar(p)))
}

func (a *catalogStoreAdapter) DeletePillar(id string) error {
	return storeErr(a.store.DeletePillar(id))
}

func (a *catalogStoreAdapter) GetPillar(id string) (*services.Pillar, error) {
	p, err := a.store.GetPillar(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIPillar(p), nil
}

func (a *catalogStoreAdapter) InsertQuestion(q *services.Question) (*services.Question, error) {
	stored, err := a.store.AddQuestion(convertServiceQuestion(q))
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIQuestion(stored), nil
}

func (a *catalogStoreAdapter) UpdateQuestion(q *services.Question) error {
	if q == nil {
		return services.NewInvalidError("question required")
	}
	return storeErr(a.store.UpdateQuestion(convertServiceQuestion(q)))
}

func (a *catalogStoreAdapter) DeleteQuestion(id string) error {
	return storeErr(a.store.DeleteQuestion(id))
}

func (a *catalogStoreAdapter) GetQuestion(id string) (*services.Question, error) {
	q, err := a.store.GetQuestion(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIQuestion(q), nil
}

func (a *catalogStoreAdapter) Snapshot() (*services.CatalogSnapshot, error) {
	snap, err := a.store.CatalogSnapshot()
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPISnapshot(snap), nil
}

func convertServicePillar(p *services.Pillar) *Pillar {
	if p == nil {
		return nil
	}
	return &Pillar{
		ID:        p.ID,
		Name:      p.Name,
		Order:     p.Order,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func convertAPIPillar(p *Pillar) *services.Pillar {
	if p == nil {
		return nil
	}
	out := &services.Pillar{
		ID:        p.ID,
		Name:      p.Name,
		Order:     p.Order,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, q := range p.Questions {
		out.Questions = append(out.Questions, convertAPIQuestion(q))
	}
	return out
}

func convertServiceQuestion(q *services.Question) *Question {
	if q == nil {
		return nil
	}
	return &Question{
		ID:             q.ID,
		PillarID:       q.PillarID,
		Text:           q.Text,
		Points:         q.Points,
		PositiveAnswer: q.PositiveAnswer,
		AnswerType:     string(q.AnswerType),
		Order:          q.Order,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func convertAPIQuestion(q *Question) *services.Question {
	if q == nil {
		return nil
	}
	return &services.Question{
		ID:             q.ID,
		PillarID:       q.PillarID,
		Text:           q.Text,
		Points:         q.Points,
		PositiveAnswer: q.PositiveAnswer,
		AnswerType:     services.AnswerType(q.AnswerType),
		Order:          q.Order,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func convertAPISnapshot(snap *CatalogSnapshot) *services.CatalogSnapshot {
	if snap == nil {
		return &services.CatalogSnapshot{}
	}
	out := &services.CatalogSnapshot{}
	for _, p := range snap.Pillars {
		out.Pillars = append(out.Pillars, convertAPIPillar(p))
	}
	return out
}

var _ services.CatalogStore = (*catalogStoreAdapter)(nil)
