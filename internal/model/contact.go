package model

// ContactID identifies a contact. IDs are minted from the wall clock in
// milliseconds and never change once assigned.
type ContactID int64

// Contact represents a single entry of the contact list.
// The JSON shape is the persisted layout of the "contactos" slot.
type Contact struct {
	ID          ContactID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	IsCompleted bool      `json:"isCompleted"`
}

// Draft is an unvalidated name/phone pair submitted by a user.
type Draft struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// View is the read-only render-model handed to the presentation layer.
type View struct {
	VisibleContacts []Contact `json:"visibleContacts"`
	TotalCount      int       `json:"totalCount"`
	VisibleCount    int       `json:"visibleCount"`
	CompletedCount  int       `json:"completedCount"`
	SearchTerm      string    `json:"searchTerm"`
	// Version increases on every state change so observers can drop stale views.
	Version uint64 `json:"version"`
}

// SeedContacts returns the contacts used when nothing has been stored yet.
func SeedContacts() []Contact {
	return []Contact{
		{ID: 1, Name: "Ana García", Phone: "555-0001", IsCompleted: false},
		{ID: 2, Name: "Carlos López", Phone: "555-0002", IsCompleted: true},
		{ID: 3, Name: "María Rodríguez", Phone: "555-0003", IsCompleted: false},
	}
}
