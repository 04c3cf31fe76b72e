// Package query derives filtered views of a contact collection.
package query

import (
	"strings"

	"github.com/cintyy73/template-todo-list/internal/model"
)

// Filter returns the contacts whose name contains term (case-insensitive) or
// whose phone contains term verbatim. An empty term returns contacts as is.
// The relative order of contacts is preserved and the input is not modified.
func Filter(contacts []model.Contact, term string) []model.Contact {
	if term == "" {
		return contacts
	}

	lower := strings.ToLower(term)
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), lower) || strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out
}

// CountCompleted returns how many contacts are marked as completed.
func CountCompleted(contacts []model.Contact) int {
	n := 0
	for _, c := range contacts {
		if c.IsCompleted {
			n++
		}
	}
	return n
}

// BuildView assembles the render-model for term. Counters other than
// VisibleCount refer to the whole collection.
func BuildView(contacts []model.Contact, term string) model.View {
	visible := Filter(contacts, term)
	return model.View{
		VisibleContacts: append(make([]model.Contact, 0, len(visible)), visible...),
		TotalCount:      len(contacts),
		VisibleCount:    len(visible),
		CompletedCount:  CountCompleted(contacts),
		SearchTerm:      term,
	}
}
