package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdayat/artics-communication/internal/guard"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/reservation"
	"github.com/mdayat/artics-communication/internal/rooms"
)

type homeFocus int

const (
	focusRooms homeFocus = iota
	focusSlots
	focusConfirm
	focusAllReservations
)

type homeScreen struct {
	loading bool
	rooms   []models.RoomWithSlots
	cursor  int

	focus        homeFocus
	selectedRoom int
	slotCursor   int
	selectedSlot int
	creating     bool

	// Privileged listing, admins only.
	resLoading   bool
	reservations []models.EnrichedReservation
}

func (a *App) loadRoomsCmd(seq int) tea.Cmd {
	return func() tea.Msg {
		list, ok := a.deps.Catalog.AvailableRooms(context.Background())
		return roomsLoadedMsg{seq: seq, rooms: list, ok: ok}
	}
}

func (a *App) loadReservationsCmd(seq int) tea.Cmd {
	return func() tea.Msg {
		items, outcome := a.deps.Catalog.AllReservations(context.Background())
		return reservationsLoadedMsg{seq: seq, items: items, outcome: outcome}
	}
}

func (a *App) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	h := &a.home

	switch msg := msg.(type) {
	case roomsLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.loading = false
		h.rooms = msg.rooms
		h.cursor = 0
		a.drainNotices()
		return a, nil

	case reservationsLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.resLoading = false
		a.drainNotices()
		if msg.outcome == rooms.ListOK {
			h.reservations = msg.items
		} else {
			// Forbidden or failed; fall back to the rooms table.
			h.focus = focusRooms
		}
		return a, nil

	case createDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.creating = false
		a.drainNotices()
		if msg.result.Outcome == reservation.CreateCreated {
			// Close both the confirmation and the slot dialog. On
			// conflict or failure both stay open: the dialog's other
			// slots may still be valid.
			h.focus = focusRooms
		}
		return a, nil

	case logoutDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.drainNotices()
		if msg.ok {
			return a, a.navigate(guard.PathLogin)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleHomeKey(msg)
	}

	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &a.home
	if h.creating {
		return a, nil
	}

	switch h.focus {
	case focusRooms:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "up", "k":
			if h.cursor > 0 {
				h.cursor--
			}
		case "down", "j":
			if h.cursor < len(h.rooms)-1 {
				h.cursor++
			}
		case "enter":
			if len(h.rooms) > 0 {
				h.selectedRoom = h.cursor
				h.slotCursor = 0
				h.focus = focusSlots
			}
		case "h":
			return a, a.navigate(guard.PathHistory)
		case "r":
			if a.deps.Sessions.Snapshot().Identity.IsAdmin() {
				h.focus = focusAllReservations
				h.resLoading = true
				return a, a.loadReservationsCmd(a.seq)
			}
		case "l":
			seq := a.seq
			return a, func() tea.Msg {
				ok := a.deps.Account.Logout(context.Background())
				return logoutDoneMsg{seq: seq, ok: ok}
			}
		}

	case focusSlots:
		slots := h.rooms[h.selectedRoom].TimeSlots
		switch msg.String() {
		case "esc":
			h.focus = focusRooms
		case "up", "k":
			if h.slotCursor > 0 {
				h.slotCursor--
			}
		case "down", "j":
			if h.slotCursor < len(slots)-1 {
				h.slotCursor++
			}
		case "enter":
			if len(slots) > 0 {
				h.selectedSlot = h.slotCursor
				h.focus = focusConfirm
			}
		}

	case focusConfirm:
		switch msg.String() {
		case "esc", "n":
			h.focus = focusSlots
		case "enter", "y":
			h.creating = true
			seq := a.seq
			roomID := h.rooms[h.selectedRoom].ID
			slotID := h.rooms[h.selectedRoom].TimeSlots[h.selectedSlot].ID
			return a, func() tea.Msg {
				result := a.deps.Mutator.Create(context.Background(), roomID, slotID)
				return createDoneMsg{seq: seq, result: result}
			}
		}

	case focusAllReservations:
		switch msg.String() {
		case "esc", "q":
			h.focus = focusRooms
		}
	}

	return a, nil
}

func (a *App) viewHome() string {
	h := &a.home

	if h.focus == focusAllReservations {
		return a.viewAllReservations()
	}

	out := titleStyle.Render("Available Meeting Rooms") + "\n"
	out += subtitleStyle.Render("You can search the available meeting rooms and make a reservation.") + "\n\n"

	if h.loading {
		out += "Loading meeting rooms...\n"
		return out
	}

	if len(h.rooms) == 0 {
		out += subtitleStyle.Render("There are no available meeting rooms") + "\n"
	}

	out += headerStyle.Render(fmt.Sprintf("%-30s %-25s %s", "Name", "Created At", "Slots")) + "\n"
	for i, room := range h.rooms {
		line := fmt.Sprintf("%-30s %-25s %d", room.Name, formatDate(room.CreatedAt), len(room.TimeSlots))
		if i == h.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		out += line + "\n"
	}

	if h.focus == focusSlots || h.focus == focusConfirm {
		out += "\n" + a.viewSlotDialog()
	}

	out += "\n" + helpStyle.Render("↑/↓ move • enter view detail • h history • r reservations • l logout • q quit")
	return out
}

func (a *App) viewSlotDialog() string {
	h := &a.home
	room := h.rooms[h.selectedRoom]

	body := headerStyle.Render(fmt.Sprintf("%s - Time Slots", room.Name)) + "\n"
	body += subtitleStyle.Render("Available time slots for reservation") + "\n\n"

	for i, slot := range room.TimeSlots {
		line := fmt.Sprintf("Start: %s  End: %s", formatDate(slot.StartDate), formatDate(slot.EndDate))
		if i == h.slotCursor && h.focus == focusSlots {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		body += line + "\n"
	}

	if h.focus == focusConfirm {
		slot := room.TimeSlots[h.selectedSlot]
		confirm := headerStyle.Render("Are you sure?") + "\n"
		confirm += fmt.Sprintf("You will reserve for %s until %s.\n", formatDate(slot.StartDate), formatDate(slot.EndDate))
		if h.creating {
			confirm += "\nReserving..."
		} else {
			confirm += "\n" + helpStyle.Render("y/enter continue • n/esc cancel")
		}
		body += "\n" + dialogStyle.Render(confirm)
	} else {
		body += "\n" + helpStyle.Render("↑/↓ move • enter reserve • esc close")
	}

	return dialogStyle.Render(body)
}

func (a *App) viewAllReservations() string {
	h := &a.home

	out := titleStyle.Render("Reservation") + "\n"
	out += subtitleStyle.Render("You can search a reservation through reservation list.") + "\n\n"

	if h.resLoading {
		out += "Loading reservations...\n"
		return out
	}

	if len(h.reservations) == 0 {
		out += subtitleStyle.Render("You don't have reservation history") + "\n"
	} else {
		out += headerStyle.Render(fmt.Sprintf("%-20s %-25s %-45s %-14s", "User", "Meeting Room", "Start Date - End Date", "Status")) + "\n"
		for _, r := range h.reservations {
			out += fmt.Sprintf("%-20s %-25s %-45s %s\n",
				r.User.Name,
				r.MeetingRoom.Name,
				fmt.Sprintf("%s - %s", formatDate(r.TimeSlot.StartDate), formatDate(r.TimeSlot.EndDate)),
				cancellationBadge(r.Canceled),
			)
		}
	}

	out += "\n" + helpStyle.Render("esc back")
	return out
}
