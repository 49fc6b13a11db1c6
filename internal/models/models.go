// Package models holds the wire types exchanged with the Artics
// reservation service.
package models

import "time"

// Roles known to the service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated user's profile as returned by
// GET /users/me. It is replaced wholesale on login/logout, never
// mutated in place.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// MeetingRoom is a bookable room.
type MeetingRoom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TimeSlot is a bookable window belonging to exactly one room.
type TimeSlot struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomWithSlots is the GET /meeting-rooms/available element: a room
// together with its still-open time slots.
type RoomWithSlots struct {
	MeetingRoom
	TimeSlots []TimeSlot `json:"time_slots"`
}

// CreateReservationRequest is the POST /users/me/reservations body.
type CreateReservationRequest struct {
	MeetingRoomID string `json:"meeting_room_id"`
	TimeSlotID    string `json:"time_slot_id"`
}

// Reservation is the flat reservation record returned by create and
// cancel calls. CanceledAt is set iff Canceled is true.
type Reservation struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	MeetingRoomID string     `json:"meeting_room_id"`
	TimeSlotID    string     `json:"time_slot_id"`
	Canceled      bool       `json:"canceled"`
	CanceledAt    *time.Time `json:"canceled_at"`
	ReservedAt    time.Time  `json:"reserved_at"`
}

// UserReservation is a history entry from GET /users/me/reservations,
// with the room and slot embedded.
type UserReservation struct {
	ID          string      `json:"id"`
	MeetingRoom MeetingRoom `json:"meeting_room"`
	TimeSlot    TimeSlot    `json:"time_slot"`
	Canceled    bool        `json:"canceled"`
	CanceledAt  *time.Time  `json:"canceled_at"`
	ReservedAt  time.Time   `json:"reserved_at"`
}

// EnrichedReservation is an element of the privileged GET /reservations
// listing, carrying the reserving user as well.
type EnrichedReservation struct {
	ID          string      `json:"id"`
	User        Identity    `json:"user"`
	MeetingRoom MeetingRoom `json:"meeting_room"`
	TimeSlot    TimeSlot    `json:"time_slot"`
	Canceled    bool        `json:"canceled"`
	CanceledAt  *time.Time  `json:"canceled_at"`
	ReservedAt  time.Time   `json:"reserved_at"`
}

// RegisterRequest is the POST /auth/register body.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
