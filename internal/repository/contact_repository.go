package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cintyy73/template-todo-list/internal/model"
	"github.com/cintyy73/template-todo-list/internal/storage"
)

// SlotContactRepository is the storage-backed implementation of ContactRepository.
// The whole collection lives as one JSON array under a single slot.
type SlotContactRepository struct {
	store storage.Storage
	slot  string
}

// Ensure SlotContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*SlotContactRepository)(nil)

// NewSlotContactRepository creates a repository writing to slot of store.
// An empty slot selects DefaultSlot.
func NewSlotContactRepository(store storage.Storage, slot string) *SlotContactRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	return &SlotContactRepository{store: store, slot: slot}
}

// Ping reports whether the underlying store is reachable.
func (r *SlotContactRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Load reads and decodes the slot. A missing slot yields ErrNotFound and a
// value that is not a JSON array of contacts yields ErrMalformed; both are
// wrapped in ErrStoreRead like any other fault.
func (r *SlotContactRepository) Load(ctx context.Context) ([]model.Contact, error) {
	raw, err := r.store.Get(ctx, r.slot)
	if errors.Is(err, storage.ErrNotFound) {
		return []model.Contact{}, fmt.Errorf("%w: slot %q: %w", ErrStoreRead, r.slot, ErrNotFound)
	}
	if err != nil {
		return []model.Contact{}, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	contacts, err := decodeContacts(raw)
	if err != nil {
		return []model.Contact{}, fmt.Errorf("%w: slot %q: %w: %v", ErrStoreRead, r.slot, ErrMalformed, err)
	}
	return contacts, nil
}

// Save encodes the full collection and writes it in one Put.
func (r *SlotContactRepository) Save(ctx context.Context, contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}
	raw, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrStoreWrite, err)
	}
	if err := r.store.Put(ctx, r.slot, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// Clear deletes the slot. The next Load reports ErrNotFound.
func (r *SlotContactRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.slot); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// decodeContacts accepts only a JSON array whose elements are objects.
// "null", scalars and arrays of non-objects are rejected.
func decodeContacts(raw []byte) ([]model.Contact, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("value is not a JSON array")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, err
	}

	contacts := make([]model.Contact, 0, len(elems))
	for i, elem := range elems {
		e := bytes.TrimSpace(elem)
		if len(e) == 0 || e[0] != '{' {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		var c model.Contact
		if err := json.Unmarshal(e, &c); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
