// Package store persists portal requester records and the floor/event
// directory the registration form is built from.
package store

import (
	"context"
	"time"
)

// Member is a building resident keyed by unique email. Repeat
// registrations update the row in place.
type Member struct {
	ID         int64
	Email      string
	Name       string
	FloorID    int64
	MAC        string
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Guest is a one-off visitor registration. Append-only.
type Guest struct {
	ID        int64
	Name      string
	Email     string
	MAC       string
	CreatedAt time.Time
}

// EventAttendee records attendance of an event visitor. Append-only.
type EventAttendee struct {
	ID        int64
	EventID   int64
	Name      string
	Email     string
	MAC       string
	CreatedAt time.Time
}

// Floor is a selectable building floor on the registration form.
type Floor struct {
	ID     int64
	Number int
	Name   string
	Active bool
}

// Event is a selectable event on the registration form.
type Event struct {
	ID          int64
	Name        string
	Description string
	Active      bool
}

// Stats summarizes registration activity for the admin dashboard.
type Stats struct {
	TotalMembers         int
	TotalGuests          int
	TotalEventAttendees  int
	ActiveEvents         int
	RecentMembers        int // seen in the last 24h
	RecentGuests         int
	RecentEventAttendees int
}

// RecordStore writes exactly one requester record per successful
// authorization. Each operation is a single atomic unit of work: on
// failure nothing is visible. Member upserts for the same email serialize
// through the engine's unique constraint, last writer wins.
type RecordStore interface {
	UpsertMember(ctx context.Context, email, name string, floorID int64, mac string) (int64, error)
	InsertGuest(ctx context.Context, name, email, mac string) (int64, error)
	InsertEventAttendee(ctx context.Context, eventID int64, name, email, mac string) (int64, error)
}

// Directory serves the registration form lookups and the admin API.
type Directory interface {
	ListActiveFloors(ctx context.Context) ([]Floor, error)
	ListActiveEvents(ctx context.Context) ([]Event, error)
	ListFloors(ctx context.Context) ([]Floor, error)
	ListEvents(ctx context.Context) ([]Event, error)

	CreateFloor(ctx context.Context, number int, name string) (int64, error)
	SetFloorActive(ctx context.Context, id int64, active bool) error
	DeleteFloor(ctx context.Context, id int64) error

	CreateEvent(ctx context.Context, name, description string) (int64, error)
	SetEventActive(ctx context.Context, id int64, active bool) error
	DeleteEvent(ctx context.Context, id int64) error

	Stats(ctx context.Context) (Stats, error)
}
