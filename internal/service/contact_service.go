package service

import (
	"context"
	"errors"

	"github.com/cintyy73/template-todo-list/internal/model"
)

var (
	// ErrDuplicateName is returned by Add when a contact with the same name
	// (ignoring case) already exists.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound is returned by Remove and ToggleComplete for an unknown id.
	// The collection is left unchanged.
	ErrNotFound = errors.New("contact not found")
)

// ContactService owns the contact collection and the current search term.
// Every state change produces a new collection value and is pushed to
// subscribers as a fresh render-model.
type ContactService interface {
	// Add validates draft, rejects duplicate names and appends a new contact.
	// Validation failures match validation.ErrValidation.
	Add(ctx context.Context, draft model.Draft) (model.Contact, error)

	// Remove deletes the contact with the given id and returns it.
	// Confirmation is the caller's concern.
	Remove(ctx context.Context, id model.ContactID) (model.Contact, error)

	// ToggleComplete flips IsCompleted of the contact and returns the updated record.
	ToggleComplete(ctx context.Context, id model.ContactID) (model.Contact, error)

	// Contacts returns a copy of the collection in insertion order.
	Contacts() []model.Contact

	// View returns the render-model for the current search term.
	View() model.View

	// ViewFor returns the render-model for term without changing the stored term.
	ViewFor(term string) model.View

	// SetSearchTerm stores term, notifies subscribers and returns the new view.
	SetSearchTerm(term string) model.View

	// Subscribe registers fn to receive every new view. Views are delivered
	// one at a time in increasing Version order; fn must not call Add,
	// Remove, ToggleComplete or SetSearchTerm. Calling the returned function
	// removes the subscription.
	Subscribe(fn func(model.View)) (unsubscribe func())

	// Degraded reports whether persistence has been disabled for this
	// session after a store failure.
	Degraded() bool
}
