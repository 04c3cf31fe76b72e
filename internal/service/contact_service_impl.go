package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cintyy73/template-todo-list/internal/metrics"
	"github.com/cintyy73/template-todo-list/internal/model"
	"github.com/cintyy73/template-todo-list/internal/query"
	"github.com/cintyy73/template-todo-list/internal/repository"
	"github.com/cintyy73/template-todo-list/internal/validation"
)

// Option configures NewContactService.
type Option func(*contactServiceImpl)

// WithSeed sets the contacts used when nothing readable is stored.
// nil starts from an empty collection.
func WithSeed(seed []model.Contact) Option {
	return func(s *contactServiceImpl) { s.seed = seed }
}

// WithClock replaces time.Now for id minting.
func WithClock(now func() time.Time) Option {
	return func(s *contactServiceImpl) { s.now = now }
}

// WithLogger replaces slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *contactServiceImpl) { s.logger = logger }
}

type subscriber struct {
	id int
	fn func(model.View)
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	seed   []model.Contact
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	// notifyMu is taken before mu is released so views reach subscribers
	// in version order.
	notifyMu sync.Mutex
	contacts []model.Contact
	term     string
	version  uint64
	lastID   model.ContactID
	persist  bool
	subs     []subscriber
	nextSub  int
}

// NewContactService loads the stored collection through repo.
//
// A missing or unreadable slot starts from the seed set, which is saved right
// away. Any other read failure starts from an empty collection and disables
// persistence for the session so the stored data is never overwritten.
func NewContactService(ctx context.Context, repo repository.ContactRepository, opts ...Option) ContactService {
	s := &contactServiceImpl{
		repo:    repo,
		seed:    model.SeedContacts(),
		now:     time.Now,
		logger:  slog.Default(),
		persist: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	contacts, err := repo.Load(ctx)
	switch {
	case err == nil:
		s.logger.Info("contacts loaded", "count", len(contacts))
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Info("no saved contacts, starting from seed", "count", len(s.seed))
		contacts = clone(s.seed)
		s.saveLocked(ctx, contacts)
	case errors.Is(err, repository.ErrMalformed):
		metrics.StoreFailure("load")
		s.logger.Warn("saved contacts unreadable, starting from seed", "error", err)
		contacts = clone(s.seed)
		s.saveLocked(ctx, contacts)
	default:
		metrics.StoreFailure("load")
		s.logger.Warn("could not load contacts, continuing in memory only", "error", err)
		s.persist = false
		contacts = []model.Contact{}
	}

	s.contacts = contacts
	for _, c := range contacts {
		s.lastID = max(s.lastID, c.ID)
	}
	metrics.SetContacts(len(contacts))
	return s
}

func (s *contactServiceImpl) Add(ctx context.Context, draft model.Draft) (model.Contact, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Phone = strings.TrimSpace(draft.Phone)
	if err := validation.Validate(draft).Err(); err != nil {
		metrics.Mutation("add", "invalid")
		return model.Contact{}, err
	}

	s.mu.Lock()
	for _, c := range s.contacts {
		if strings.EqualFold(c.Name, draft.Name) {
			s.mu.Unlock()
			metrics.Mutation("add", "duplicate")
			return model.Contact{}, fmt.Errorf("%w: %q", ErrDuplicateName, draft.Name)
		}
	}

	contact := model.Contact{
		ID:          s.mintIDLocked(),
		Name:        draft.Name,
		Phone:       draft.Phone,
		IsCompleted: false,
	}
	next := make([]model.Contact, 0, len(s.contacts)+1)
	next = append(next, s.contacts...)
	next = append(next, contact)

	view, subs := s.commitLocked(ctx, next)
	s.unlockAndNotify(view, subs)

	metrics.Mutation("add", "ok")
	s.logger.Debug("contact added", "id", contact.ID)
	return contact, nil
}

func (s *contactServiceImpl) Remove(ctx context.Context, id model.ContactID) (model.Contact, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		metrics.Mutation("remove", "not_found")
		return model.Contact{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	removed := s.contacts[idx]
	next := make([]model.Contact, 0, len(s.contacts)-1)
	next = append(next, s.contacts[:idx]...)
	next = append(next, s.contacts[idx+1:]...)

	view, subs := s.commitLocked(ctx, next)
	s.unlockAndNotify(view, subs)

	metrics.Mutation("remove", "ok")
	s.logger.Debug("contact removed", "id", id)
	return removed, nil
}

func (s *contactServiceImpl) ToggleComplete(ctx context.Context, id model.ContactID) (model.Contact, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		metrics.Mutation("toggle", "not_found")
		return model.Contact{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	next := clone(s.contacts)
	next[idx].IsCompleted = !next[idx].IsCompleted
	toggled := next[idx]

	view, subs := s.commitLocked(ctx, next)
	s.unlockAndNotify(view, subs)

	metrics.Mutation("toggle", "ok")
	s.logger.Debug("contact toggled", "id", id, "is_completed", toggled.IsCompleted)
	return toggled, nil
}

func (s *contactServiceImpl) Contacts() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.contacts)
}

func (s *contactServiceImpl) View() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(s.term)
}

func (s *contactServiceImpl) ViewFor(term string) model.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(term)
}

func (s *contactServiceImpl) SetSearchTerm(term string) model.View {
	s.mu.Lock()
	s.term = term
	s.version++
	view := s.viewLocked(term)
	subs := s.subscribersLocked()
	s.unlockAndNotify(view, subs)
	return view
}

func (s *contactServiceImpl) Subscribe(fn func(model.View)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		kept := make([]subscriber, 0, len(s.subs))
		for _, sub := range s.subs {
			if sub.id != id {
				kept = append(kept, sub)
			}
		}
		s.subs = kept
	}
}

func (s *contactServiceImpl) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.persist
}

// commitLocked installs next as the collection, saves it and returns the view
// and subscribers to notify once the lock is released.
func (s *contactServiceImpl) commitLocked(ctx context.Context, next []model.Contact) (model.View, []func(model.View)) {
	s.contacts = next
	s.version++
	metrics.SetContacts(len(next))
	s.saveLocked(ctx, next)
	return s.viewLocked(s.term), s.subscribersLocked()
}

// saveLocked writes contacts if persistence is still enabled. A failed save
// switches the session to in-memory only.
func (s *contactServiceImpl) saveLocked(ctx context.Context, contacts []model.Contact) {
	if !s.persist {
		return
	}
	if err := s.repo.Save(ctx, contacts); err != nil {
		s.persist = false
		metrics.StoreFailure("save")
		s.logger.Warn("could not save contacts, continuing in memory only", "error", err)
	}
}

// mintIDLocked derives an id from the clock, bumped past the last id issued.
func (s *contactServiceImpl) mintIDLocked() model.ContactID {
	id := model.ContactID(s.now().UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *contactServiceImpl) indexLocked(id model.ContactID) int {
	for i, c := range s.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *contactServiceImpl) viewLocked(term string) model.View {
	v := query.BuildView(s.contacts, term)
	v.Version = s.version
	return v
}

func (s *contactServiceImpl) subscribersLocked() []func(model.View) {
	fns := make([]func(model.View), 0, len(s.subs))
	for _, sub := range s.subs {
		fns = append(fns, sub.fn)
	}
	return fns
}

// unlockAndNotify releases mu and hands view to subs. Subscribers run
// outside mu and must not call mutating methods of the service.
func (s *contactServiceImpl) unlockAndNotify(view model.View, subs []func(model.View)) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, fn := range subs {
		fn(view)
	}
}

func clone(contacts []model.Contact) []model.Contact {
	return append(make([]model.Contact, 0, len(contacts)), contacts...)
}
