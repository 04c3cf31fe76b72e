package repository

// DefaultSlot is the storage key holding the serialized contact collection.
const DefaultSlot = "contactos"
