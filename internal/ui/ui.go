// Package ui renders the client as a bubbletea program. Screens are
// keyed by the same paths the service's web front-end uses; every
// navigation goes through the guard, and nothing is drawn while the
// session is still resolving.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/account"
	"github.com/mdayat/artics-communication/internal/google"
	"github.com/mdayat/artics-communication/internal/guard"
	"github.com/mdayat/artics-communication/internal/metrics"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
	"github.com/mdayat/artics-communication/internal/reservation"
	"github.com/mdayat/artics-communication/internal/rooms"
	"github.com/mdayat/artics-communication/internal/session"
)

// Deps are the collaborators the UI drives. Sheets may be nil.
type Deps struct {
	Sessions *session.Store
	Account  *account.Service
	Catalog  *rooms.Catalog
	Mutator  *reservation.Mutator
	Notices  *notice.Feed
	Sheets   *google.SheetsService
	Logger   zerolog.Logger
}

// App is the root bubbletea model: a router around the four screens.
type App struct {
	deps Deps

	path    string
	ready   bool
	mounted bool
	// seq increments on every navigation; async results stamped with an
	// older seq belong to a departed screen and are discarded.
	seq int

	width  int
	height int

	login        loginForm
	registration registrationForm
	home         homeScreen
	history      historyScreen

	notices []notice.Notice
}

// New builds the app pointed at the home path. The guard immediately
// parks it on Wait until the session resolves.
func New(deps Deps) *App {
	return &App{
		deps:         deps,
		path:         guard.PathHome,
		login:        newLoginForm(),
		registration: newRegistrationForm(),
	}
}

// Messages flowing back from async work. Every message carries the
// navigation seq it was started under.
type (
	sessionResolvedMsg struct{}

	roomsLoadedMsg struct {
		seq   int
		rooms []models.RoomWithSlots
		ok    bool
	}

	reservationsLoadedMsg struct {
		seq     int
		items   []models.EnrichedReservation
		outcome rooms.ListOutcome
	}

	historyLoadedMsg struct {
		seq   int
		items []*models.UserReservation
		ok    bool
	}

	loginDoneMsg struct {
		seq     int
		outcome account.LoginOutcome
	}

	registerDoneMsg struct {
		seq     int
		outcome account.RegisterOutcome
	}

	logoutDoneMsg struct {
		seq int
		ok  bool
	}

	createDoneMsg struct {
		seq    int
		result reservation.CreateResult
	}

	cancelDoneMsg struct {
		seq    int
		id     string
		result reservation.CancelResult
	}

	exportDoneMsg struct {
		seq  int
		path string
		err  error
	}

	sheetsSyncDoneMsg struct {
		seq int
		err error
	}
)

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.resolveSessionCmd(), a.login.inputs[0].Focus())
}

func (a *App) resolveSessionCmd() tea.Cmd {
	return func() tea.Msg {
		a.deps.Sessions.Resolve(context.Background())
		return sessionResolvedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case sessionResolvedMsg:
		a.drainNotices()
		return a, a.navigate(a.path)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if !a.ready {
			// Session still resolving; swallow input.
			return a, nil
		}
		return a.updateScreen(msg)
	}

	// Async results route to the screen that started them; stale ones
	// are dropped inside each handler.
	return a.updateScreen(msg)
}

func (a *App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.path {
	case guard.PathLogin:
		return a.updateLogin(msg)
	case guard.PathRegistration:
		return a.updateRegistration(msg)
	case guard.PathHome:
		return a.updateHome(msg)
	case guard.PathHistory:
		return a.updateHistory(msg)
	default:
		return a, nil
	}
}

// navigate runs the guard for the requested path, following redirects
// until a terminal decision. Both redirect targets (/ and /login)
// resolve in at most two hops, but the loop is bounded anyway.
func (a *App) navigate(path string) tea.Cmd {
	for range 4 {
		decision := guard.Decide(path, a.deps.Sessions.Snapshot())
		metrics.IncGuardDecision(decision.Action.String())

		switch decision.Action {
		case guard.ActionWait:
			a.ready = false
			return nil
		case guard.ActionRedirect:
			path = decision.Target
			continue
		case guard.ActionAllow:
			a.ready = true
			return a.enter(path)
		}
	}

	a.deps.Logger.Error().Str("path", path).Msg("guard redirect loop")
	return nil
}

// enter mounts the screen for path and kicks off its data load.
func (a *App) enter(path string) tea.Cmd {
	if a.path == path && a.mounted {
		// Re-evaluation landed on the current screen; nothing to mount.
		return nil
	}

	a.path = path
	a.mounted = true
	a.seq++
	seq := a.seq

	switch path {
	case guard.PathLogin:
		a.login = newLoginForm()
		return a.login.inputs[0].Focus()
	case guard.PathRegistration:
		a.registration = newRegistrationForm()
		return a.registration.inputs[0].Focus()
	case guard.PathHome:
		a.home = homeScreen{loading: true}
		return a.loadRoomsCmd(seq)
	case guard.PathHistory:
		a.history = historyScreen{loading: true}
		return a.loadHistoryCmd(seq)
	default:
		return nil
	}
}

func (a *App) drainNotices() {
	fresh := a.deps.Notices.Drain()
	if len(fresh) == 0 {
		return
	}
	a.notices = append(a.notices, fresh...)
	if len(a.notices) > 3 {
		a.notices = a.notices[len(a.notices)-3:]
	}
}

func (a *App) View() string {
	if !a.ready {
		// Guard says wait: render nothing rather than flash content.
		return ""
	}

	var body string
	switch a.path {
	case guard.PathLogin:
		body = a.viewLogin()
	case guard.PathRegistration:
		body = a.viewRegistration()
	case guard.PathHome:
		body = a.viewHome()
	case guard.PathHistory:
		body = a.viewHistory()
	}

	return body + "\n" + a.viewNotices()
}
