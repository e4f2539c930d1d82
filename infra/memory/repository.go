package memory

import (
	"context"
	"sync"
	"time"

	"lostfound/domain"

	"github.com/google/uuid"
)

// entry guards a single item. Mutations of one item are serialised on its
// mutex; different items never contend.
type entry struct {
	mu   sync.Mutex
	item domain.Item
}

func (e *entry) snapshot() domain.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.Clone()
}

// Repository is the authoritative in-memory item store.
type Repository struct {
	mu    sync.RWMutex
	byID  map[string]*entry
	order []*entry

	now   func() time.Time
	newID func() string
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		byID:  make(map[string]*entry),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) Create(ctx context.Context, report domain.Report) (domain.Item, error) {
	if err := report.Validate(); err != nil {
		return domain.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, taken := r.byID[id]; taken; _, taken = r.byID[id] {
		id = r.newID()
	}

	e := &entry{item: domain.NewItem(id, report, r.now())}
	r.byID[id] = e
	r.order = append(r.order, e)

	return e.item.Clone(), nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (domain.Item, error) {
	e, err := r.lookup(id)
	if err != nil {
		return domain.Item{}, err
	}
	return e.snapshot(), nil
}

// ListItems returns a snapshot of every item in insertion order.
func (r *Repository) ListItems(ctx context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	entries := make([]*entry, len(r.order))
	copy(entries, r.order)
	r.mu.RUnlock()

	items := make([]domain.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.snapshot())
	}
	return items, nil
}

func (r *Repository) CountItems(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

// SetStatus overwrites the moderation status regardless of the current one.
func (r *Repository) SetStatus(ctx context.Context, id string, status domain.Status) (domain.Item, error) {
	if !status.Decided() {
		return domain.Item{}, &domain.ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}

	return r.mutate(id, func(item *domain.Item) error {
		item.Status = status
		return nil
	})
}

func (r *Repository) AddSighting(ctx context.Context, id string, input domain.SightingInput) (domain.Item, error) {
	e, err := r.lookup(id)
	if err != nil {
		return domain.Item{}, err
	}
	if err := input.Validate(); err != nil {
		return domain.Item{}, err
	}

	sighting := domain.Sighting{
		ID:              r.newID(),
		ReportedBy:      input.ReporterName,
		ReportedByEmail: input.ReporterEmail,
		Location:        input.Location,
		Notes:           input.Notes,
		ReportedAt:      r.now().UTC(),
	}

	return apply(e, func(item *domain.Item) error {
		item.Sightings = append(item.Sightings, sighting)
		return nil
	})
}

func (r *Repository) AddComment(ctx context.Context, id, authorEmail, content string) (domain.Item, error) {
	e, err := r.lookup(id)
	if err != nil {
		return domain.Item{}, err
	}

	comment, err := domain.NewComment(r.newID(), authorEmail, content, r.now())
	if err != nil {
		return domain.Item{}, err
	}

	return apply(e, func(item *domain.Item) error {
		item.Comments = append(item.Comments, comment)
		return nil
	})
}

func (r *Repository) AddReaction(ctx context.Context, id string, kind domain.ReactionKind) (domain.Item, error) {
	return r.mutate(id, func(item *domain.Item) error {
		return item.Reactions.Add(kind)
	})
}

func (r *Repository) lookup(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ItemNotFound(id)
	}
	return e, nil
}

func (r *Repository) mutate(id string, fn func(*domain.Item) error) (domain.Item, error) {
	e, err := r.lookup(id)
	if err != nil {
		return domain.Item{}, err
	}
	return apply(e, fn)
}

// apply runs fn on a copy and commits it only on success, so a failed
// mutation never leaves a partial update behind.
func apply(e *entry, fn func(*domain.Item) error) (domain.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.item.Clone()
	if err := fn(&next); err != nil {
		return domain.Item{}, err
	}
	e.item = next

	return e.item.Clone(), nil
}
