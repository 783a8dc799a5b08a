package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no stored item.
var ErrNotFound = errors.New("item not found")

// Item is one stored key/value pair. Values are opaque JSON documents.
type Item struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// AuditEntry records a mutation made through the Repository.
type AuditEntry struct {
	ID        int64
	Action    string
	Key       string
	Detail    string
	Timestamp time.Time
}

// Stats holds aggregate statistics about the recalldoc database.
type Stats struct {
	TotalItems        int64
	TotalAuditEntries int64
	OldestUpdate      time.Time
	NewestUpdate      time.Time
	DatabaseSizeBytes int64
	LargestItems      []KeySize
}

// KeySize pairs an item key with the byte size of its value.
type KeySize struct {
	Key  string
	Size int64
}
