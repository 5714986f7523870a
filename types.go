package notably

import (
	"time"
)

const (
	EventNoteCreated = "note.created"
	EventNoteUpdated = "note.updated"
	EventNoteDeleted = "note.deleted"
)

// Event is pushed over the realtime socket whenever one of the owner's
// notes changes.
type Event struct {
	Type      string    `json:"type"`
	NoteID    string    `json:"noteId"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NoteChannel is the pub/sub channel carrying note events for one owner.
func NoteChannel(ownerID string) string {
	return "notes:" + ownerID
}
