package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdayat/artics-communication/internal/export"
	"github.com/mdayat/artics-communication/internal/guard"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/reservation"
)

type historyScreen struct {
	loading bool
	items   []*models.UserReservation
	cursor  int

	confirming bool
	canceling  bool
	exporting  bool
	syncing    bool
}

func (a *App) loadHistoryCmd(seq int) tea.Cmd {
	return func() tea.Msg {
		items, ok := a.deps.Catalog.History(context.Background())
		return historyLoadedMsg{seq: seq, items: items, ok: ok}
	}
}

func (a *App) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	h := &a.history

	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.loading = false
		h.items = msg.items
		h.cursor = 0
		a.drainNotices()
		return a, nil

	case cancelDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.canceling = false
		a.drainNotices()
		if msg.result.Outcome == reservation.CancelCanceled {
			// The reducer is the only sanctioned way to fold the server
			// outcome into the held collection.
			h.items = reservation.Apply(h.items, msg.id, reservation.Patch{
				Canceled:   true,
				CanceledAt: msg.result.CanceledAt,
			})
			h.confirming = false
		}
		return a, nil

	case exportDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.exporting = false
		if msg.err != nil {
			a.deps.Logger.Error().Err(msg.err).Msg("failed to export history")
			a.deps.Notices.Errorf("Export failed, please try again")
		} else {
			a.deps.Notices.Successf("History exported to %s", msg.path)
		}
		a.drainNotices()
		return a, nil

	case sheetsSyncDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		h.syncing = false
		if msg.err != nil {
			a.deps.Logger.Error().Err(msg.err).Msg("failed to sync history to sheet")
			a.deps.Notices.Errorf("Sheet sync failed, please try again")
		} else {
			a.deps.Notices.Successf("History synced to Google Sheets")
		}
		a.drainNotices()
		return a, nil

	case tea.KeyMsg:
		return a.handleHistoryKey(msg)
	}

	return a, nil
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &a.history
	if h.canceling {
		return a, nil
	}

	if h.confirming {
		switch msg.String() {
		case "esc", "n":
			h.confirming = false
		case "enter", "y":
			h.canceling = true
			seq := a.seq
			id := h.items[h.cursor].ID
			return a, func() tea.Msg {
				result := a.deps.Mutator.Cancel(context.Background(), id)
				return cancelDoneMsg{seq: seq, id: id, result: result}
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "b":
		return a, a.navigate(guard.PathHome)
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.items)-1 {
			h.cursor++
		}
	case "c", "enter":
		if len(h.items) > 0 {
			h.confirming = true
		}
	case "e":
		if len(h.items) > 0 && !h.exporting {
			h.exporting = true
			seq := a.seq
			items := h.items
			path := fmt.Sprintf("reservations-%s.xlsx", time.Now().Format("20060102-150405"))
			return a, func() tea.Msg {
				err := export.SaveHistory(path, items)
				return exportDoneMsg{seq: seq, path: path, err: err}
			}
		}
	case "s":
		if a.deps.Sheets != nil && len(h.items) > 0 && !h.syncing {
			h.syncing = true
			seq := a.seq
			items := h.items
			return a, func() tea.Msg {
				err := a.deps.Sheets.SyncHistory(context.Background(), items)
				return sheetsSyncDoneMsg{seq: seq, err: err}
			}
		}
	}

	return a, nil
}

func (a *App) viewHistory() string {
	h := &a.history

	out := titleStyle.Render("Reservation History") + "\n"
	out += subtitleStyle.Render("You can search your reservation history.") + "\n\n"

	if h.loading {
		out += "Loading reservation history...\n"
		return out
	}

	if len(h.items) == 0 {
		out += subtitleStyle.Render("You don't have reservation history") + "\n"
	} else {
		out += headerStyle.Render(fmt.Sprintf("%-25s %-45s %-14s %s", "Meeting Room Name", "Start Date - End Date", "Status", "Reserved At")) + "\n"
		for i, r := range h.items {
			line := fmt.Sprintf("%-25s %-45s %-14s %s",
				r.MeetingRoom.Name,
				fmt.Sprintf("%s - %s", formatDate(r.TimeSlot.StartDate), formatDate(r.TimeSlot.EndDate)),
				cancellationBadge(r.Canceled),
				formatDate(r.ReservedAt),
			)
			if i == h.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			out += line + "\n"
		}
	}

	if h.confirming {
		r := h.items[h.cursor]
		confirm := headerStyle.Render("Are you sure?") + "\n"
		confirm += fmt.Sprintf("You will cancel your reservation on %s Meeting Room\n", r.MeetingRoom.Name)
		if h.canceling {
			confirm += "\nCancelling..."
		} else {
			confirm += "\n" + helpStyle.Render("y/enter continue • n/esc keep")
		}
		out += "\n" + dialogStyle.Render(confirm)
	}

	help := "↑/↓ move • c cancel reservation • e export xlsx"
	if a.deps.Sheets != nil {
		help += " • s sync to sheet"
	}
	help += " • esc home • q quit"
	out += "\n" + helpStyle.Render(help)
	return out
}
