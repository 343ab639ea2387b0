package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/frontiertower/portal-backend/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertMember_InsertThenUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first, err := db.UpsertMember(ctx, "a@b.com", "Jane Doe", 3, "aa:bb:cc:dd:ee:ff")
	if err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}

	// Same email again with new details must update the row, not add one.
	second, err := db.UpsertMember(ctx, "a@b.com", "Jane D.", 5, "00:11:22:33:44:55")
	if err != nil {
		t.Fatalf("UpsertMember: %v", err)
	}
	if first != second {
		t.Errorf("expected same row id, got %d then %d", first, second)
	}

	m, err := db.GetMemberByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("GetMemberByEmail: %v", err)
	}
	if m.Name != "Jane D." || m.FloorID != 5 || m.MAC != "00:11:22:33:44:55" {
		t.Errorf("row not updated in place: %+v", m)
	}
	if !m.LastSeenAt.After(m.CreatedAt) && !m.LastSeenAt.Equal(m.CreatedAt) {
		t.Errorf("last_seen_at %v before created_at %v", m.LastSeenAt, m.CreatedAt)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalMembers != 1 {
		t.Errorf("expected 1 member after double upsert, got %d", stats.TotalMembers)
	}
}

func TestInsertGuest_AppendOnly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id1, err := db.InsertGuest(ctx, "Guest One", "g@example.com", "aa:bb:cc:dd:ee:01")
	if err != nil {
		t.Fatalf("InsertGuest: %v", err)
	}
	id2, err := db.InsertGuest(ctx, "Guest One", "g@example.com", "aa:bb:cc:dd:ee:01")
	if err != nil {
		t.Fatalf("InsertGuest: %v", err)
	}
	if id1 == id2 {
		t.Errorf("expected distinct rows for repeat guest, got id %d twice", id1)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalGuests != 2 {
		t.Errorf("expected 2 guests, got %d", stats.TotalGuests)
	}
	if stats.RecentGuests != 2 {
		t.Errorf("expected 2 recent guests, got %d", stats.RecentGuests)
	}
}

func TestInsertEventAttendee(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	eventID, err := db.CreateEvent(ctx, "Demo Day", "quarterly demos")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if _, err := db.InsertEventAttendee(ctx, eventID, "Event Goer", "e@example.com", "aa:bb:cc:dd:ee:02"); err != nil {
		t.Fatalf("InsertEventAttendee: %v", err)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalEventAttendees != 1 {
		t.Errorf("expected 1 attendee, got %d", stats.TotalEventAttendees)
	}
	if stats.ActiveEvents != 1 {
		t.Errorf("expected 1 active event, got %d", stats.ActiveEvents)
	}
}

func TestFloorLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id3, err := db.CreateFloor(ctx, 3, "Third Floor")
	if err != nil {
		t.Fatalf("CreateFloor: %v", err)
	}
	if _, err := db.CreateFloor(ctx, 1, "Lobby"); err != nil {
		t.Fatalf("CreateFloor: %v", err)
	}

	floors, err := db.ListActiveFloors(ctx)
	if err != nil {
		t.Fatalf("ListActiveFloors: %v", err)
	}
	if len(floors) != 2 {
		t.Fatalf("expected 2 active floors, got %d", len(floors))
	}
	if floors[0].Number != 1 || floors[1].Number != 3 {
		t.Errorf("floors not ordered by number: %+v", floors)
	}

	if err := db.SetFloorActive(ctx, id3, false); err != nil {
		t.Fatalf("SetFloorActive: %v", err)
	}
	floors, err = db.ListActiveFloors(ctx)
	if err != nil {
		t.Fatalf("ListActiveFloors: %v", err)
	}
	if len(floors) != 1 || floors[0].Name != "Lobby" {
		t.Errorf("expected only Lobby active, got %+v", floors)
	}

	// Deactivated floors still show up for the admin.
	all, err := db.ListFloors(ctx)
	if err != nil {
		t.Fatalf("ListFloors: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 floors total, got %d", len(all))
	}

	if err := db.DeleteFloor(ctx, id3); err != nil {
		t.Fatalf("DeleteFloor: %v", err)
	}
	all, err = db.ListFloors(ctx)
	if err != nil {
		t.Fatalf("ListFloors: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 floor after delete, got %d", len(all))
	}
}

func TestEventLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	idB, err := db.CreateEvent(ctx, "Beta Launch", "")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := db.CreateEvent(ctx, "AI Meetup", "monthly"); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := db.ListActiveEvents(ctx)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 active events, got %d", len(events))
	}
	if events[0].Name != "AI Meetup" || events[1].Name != "Beta Launch" {
		t.Errorf("events not ordered by name: %+v", events)
	}

	if err := db.SetEventActive(ctx, idB, false); err != nil {
		t.Fatalf("SetEventActive: %v", err)
	}
	events, err = db.ListActiveEvents(ctx)
	if err != nil {
		t.Fatalf("ListActiveEvents: %v", err)
	}
	if len(events) != 1 || events[0].Name != "AI Meetup" {
		t.Errorf("expected only AI Meetup active, got %+v", events)
	}

	if err := db.DeleteEvent(ctx, idB); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	all, err := db.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 event after delete, got %d", len(all))
	}
}

func TestGetMemberByEmail_Missing(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.GetMemberByEmail(context.Background(), "nobody@example.com"); err == nil {
		t.Fatal("expected error for missing member")
	}
}
