package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kesuzuki/notably"
	"github.com/kesuzuki/notably/internal/domain"
)

func seedUser(users *mockUserRepo, id string) {
	users.users[id] = domain.User{ID: id, Email: id + "@example.com"}
}

func TestNoteCreateAndList(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	created, err := uc.Create(context.Background(), "owner", "T", "C")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("created note has no identifier")
	}

	notes, err := uc.List(context.Background(), "owner")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Title != "T" || notes[0].Content != "C" {
		t.Fatalf("unexpected note fields: %+v", notes[0])
	}
}

func TestNoteCreateDistinctIdentifiers(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	a, _ := uc.Create(context.Background(), "owner", "same", "same")
	b, _ := uc.Create(context.Background(), "owner", "same", "same")
	if a.ID == b.ID {
		t.Fatalf("repeated create reused identifier %s", a.ID)
	}
}

func TestNoteCreateValidation(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	_, err := uc.Create(context.Background(), "owner", "", "content")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing title, got %v", err)
	}
	_, err = uc.Create(context.Background(), "owner", "title", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing content, got %v", err)
	}
}

func TestNoteCreateOwnerMissing(t *testing.T) {
	uc := NewNoteUsecase(newMockUserRepo(), nil)

	_, err := uc.Create(context.Background(), "ghost", "t", "c")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNoteListEmpty(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	notes, err := uc.List(context.Background(), "owner")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty slice, got %#v", notes)
	}
}

func TestNoteUpdateRoundTrip(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	created, _ := uc.Create(context.Background(), "owner", "old title", "old content")

	updated, err := uc.Update(context.Background(), "owner", created.ID, "new title", "new content")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "new title" || updated.Content != "new content" {
		t.Fatalf("unexpected updated note: %+v", updated)
	}

	notes, _ := uc.List(context.Background(), "owner")
	if len(notes) != 1 {
		t.Fatalf("update changed note count to %d", len(notes))
	}
	if notes[0].Title != "new title" || notes[0].Content != "new content" {
		t.Fatalf("list shows stale fields: %+v", notes[0])
	}
}

func TestNoteUpdateOverwritesBothFields(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	created, _ := uc.Create(context.Background(), "owner", "title", "content")

	// No partial update: an omitted field is replaced with its zero value.
	updated, err := uc.Update(context.Background(), "owner", created.ID, "only title", "")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "" {
		t.Fatalf("expected content to be overwritten, got %q", updated.Content)
	}
}

func TestNoteUpdateMissing(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	_, err := uc.Update(context.Background(), "owner", "no-such-note", "t", "c")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNoteDeleteMissingLeavesListUnchanged(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	uc.Create(context.Background(), "owner", "keep", "me")

	err := uc.Delete(context.Background(), "owner", "no-such-note")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	notes, _ := uc.List(context.Background(), "owner")
	if len(notes) != 1 {
		t.Fatalf("failed delete changed note count to %d", len(notes))
	}
}

func TestNoteDeletePreservesOrder(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	uc := NewNoteUsecase(users, nil)

	first, _ := uc.Create(context.Background(), "owner", "first", "1")
	second, _ := uc.Create(context.Background(), "owner", "second", "2")
	third, _ := uc.Create(context.Background(), "owner", "third", "3")

	err := uc.Delete(context.Background(), "owner", second.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	notes, _ := uc.List(context.Background(), "owner")
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != first.ID || notes[1].ID != third.ID {
		t.Fatalf("relative order not preserved: %+v", notes)
	}
}

func TestNoteOwnershipIsolation(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "alice")
	seedUser(users, "bob")
	uc := NewNoteUsecase(users, nil)

	note, _ := uc.Create(context.Background(), "alice", "private", "data")

	_, err := uc.Update(context.Background(), "bob", note.ID, "stolen", "data")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-owner update should be not found, got %v", err)
	}

	err = uc.Delete(context.Background(), "bob", note.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-owner delete should be not found, got %v", err)
	}

	notes, _ := uc.List(context.Background(), "alice")
	if len(notes) != 1 {
		t.Fatalf("alice's notes were touched, have %d", len(notes))
	}
}

func TestNoteMutationsPublishEvents(t *testing.T) {
	users := newMockUserRepo()
	seedUser(users, "owner")
	pub := &mockPublisher{}
	uc := NewNoteUsecase(users, pub)

	note, _ := uc.Create(context.Background(), "owner", "t", "c")
	uc.Update(context.Background(), "owner", note.ID, "t2", "c2")
	uc.Delete(context.Background(), "owner", note.ID)

	if len(pub.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.events))
	}
	want := []string{notably.EventNoteCreated, notably.EventNoteUpdated, notably.EventNoteDeleted}
	for i, event := range pub.events {
		if event.Type != want[i] {
			t.Fatalf("event %d: expected %s got %s", i, want[i], event.Type)
		}
		if event.NoteID != note.ID {
			t.Fatalf("event %d carries wrong note id %s", i, event.NoteID)
		}
	}
	for _, channel := range pub.channels {
		if channel != notably.NoteChannel("owner") {
			t.Fatalf("event published to wrong channel %s", channel)
		}
	}
}
