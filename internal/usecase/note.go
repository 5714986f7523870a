package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kesuzuki/notably"
	"github.com/kesuzuki/notably/internal/domain"
)

type NoteUsecase struct {
	users  UserRepository
	events EventPublisher
}

func NewNoteUsecase(users UserRepository, events EventPublisher) *NoteUsecase {
	return &NoteUsecase{users: users, events: events}
}

// List returns the owner's notes in stored order.
func (uc *NoteUsecase) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	user, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if user.Notes == nil {
		return []domain.Note{}, nil
	}
	return user.Notes, nil
}

// Create appends a new note to the owner's list. Repeated calls create
// distinct notes.
func (uc *NoteUsecase) Create(ctx context.Context, ownerID, title, content string) (domain.Note, error) {
	if title == "" || content == "" {
		return domain.Note{}, domain.ValidationError{
			Message: "Title and content are required for creating a note.",
		}
	}

	user, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
	}
	user.Notes = append(user.Notes, note)

	err = uc.users.Save(ctx, user)
	if err != nil {
		return domain.Note{}, err
	}

	uc.publish(ctx, ownerID, notably.EventNoteCreated, note)

	return note, nil
}

// Update overwrites both fields of the note. There is no partial update;
// an omitted field becomes empty.
func (uc *NoteUsecase) Update(ctx context.Context, ownerID, noteID, title, content string) (domain.Note, error) {
	user, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return domain.Note{}, err
	}

	idx := findNote(user.Notes, noteID)
	if idx < 0 {
		return domain.Note{}, domain.NotFoundError{Resource: "note"}
	}

	user.Notes[idx].Title = title
	user.Notes[idx].Content = content

	err = uc.users.Save(ctx, user)
	if err != nil {
		return domain.Note{}, err
	}

	note := user.Notes[idx]
	uc.publish(ctx, ownerID, notably.EventNoteUpdated, note)

	return note, nil
}

// Delete removes the note, preserving the order of the remaining ones.
func (uc *NoteUsecase) Delete(ctx context.Context, ownerID, noteID string) error {
	user, err := uc.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	idx := findNote(user.Notes, noteID)
	if idx < 0 {
		return domain.NotFoundError{Resource: "note"}
	}

	note := user.Notes[idx]
	user.Notes = append(user.Notes[:idx], user.Notes[idx+1:]...)

	err = uc.users.Save(ctx, user)
	if err != nil {
		return err
	}

	uc.publish(ctx, ownerID, notably.EventNoteDeleted, note)

	return nil
}

// findNote is the owner-scoped lookup: only the given list is searched, so
// a note id belonging to another owner is never found.
func findNote(notes []domain.Note, noteID string) int {
	for i, n := range notes {
		if n.ID == noteID {
			return i
		}
	}
	return -1
}

func (uc *NoteUsecase) publish(ctx context.Context, ownerID, eventType string, note domain.Note) {
	if uc.events == nil {
		return
	}

	event := notably.Event{
		Type:      eventType,
		NoteID:    note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Timestamp: time.Now().UTC(),
	}

	// Best effort. A realtime miss must not fail the mutation.
	err := uc.events.Publish(ctx, notably.NoteChannel(ownerID), event)
	if err != nil {
		slog.WarnContext(
			ctx, "Failed to publish note event",
			slog.String("error", err.Error()),
			slog.String("module", "notes"),
		)
	}
}
