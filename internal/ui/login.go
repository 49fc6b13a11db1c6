package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdayat/artics-communication/internal/account"
	"github.com/mdayat/artics-communication/internal/guard"
)

type loginForm struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "john@example.com"
	email.Prompt = "Email    > "
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password > "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return loginForm{inputs: []textinput.Model{email, password}}
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.login.submitting = false
		a.drainNotices()
		if msg.outcome == account.LoginSuccess {
			return a, a.navigate(guard.PathHome)
		}
		return a, nil

	case tea.KeyMsg:
		if a.login.submitting {
			return a, nil
		}
		switch msg.String() {
		case "ctrl+r":
			return a, a.navigate(guard.PathRegistration)
		case "tab", "down":
			return a, a.focusLoginInput((a.login.focus + 1) % len(a.login.inputs))
		case "shift+tab", "up":
			return a, a.focusLoginInput((a.login.focus + len(a.login.inputs) - 1) % len(a.login.inputs))
		case "enter":
			if a.login.focus < len(a.login.inputs)-1 {
				return a, a.focusLoginInput(a.login.focus + 1)
			}
			a.login.submitting = true
			seq := a.seq
			email := a.login.inputs[0].Value()
			password := a.login.inputs[1].Value()
			return a, func() tea.Msg {
				outcome := a.deps.Account.Login(context.Background(), email, password)
				return loginDoneMsg{seq: seq, outcome: outcome}
			}
		}
	}

	var cmd tea.Cmd
	a.login.inputs[a.login.focus], cmd = a.login.inputs[a.login.focus].Update(msg)
	return a, cmd
}

func (a *App) focusLoginInput(i int) tea.Cmd {
	a.login.inputs[a.login.focus].Blur()
	a.login.focus = i
	return a.login.inputs[i].Focus()
}

func (a *App) viewLogin() string {
	out := titleStyle.Render("Reservation App") + "\n\n"
	out += "Login to your account\n\n"
	for i := range a.login.inputs {
		out += a.login.inputs[i].View() + "\n"
	}
	if a.login.submitting {
		out += "\nLogging in...\n"
	}
	out += "\n" + helpStyle.Render("enter submit • tab next field • ctrl+r register • ctrl+c quit")
	return out
}

type registrationForm struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newRegistrationForm() registrationForm {
	username := textinput.New()
	username.Placeholder = "John"
	username.Prompt = "Username > "
	username.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "john@example.com"
	email.Prompt = "Email    > "
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "at least 8 characters"
	password.Prompt = "Password > "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return registrationForm{inputs: []textinput.Model{username, email, password}}
}

func (a *App) updateRegistration(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.registration.submitting = false
		a.drainNotices()
		if msg.outcome == account.RegisterSuccess {
			return a, a.navigate(guard.PathLogin)
		}
		return a, nil

	case tea.KeyMsg:
		if a.registration.submitting {
			return a, nil
		}
		switch msg.String() {
		case "ctrl+l":
			return a, a.navigate(guard.PathLogin)
		case "tab", "down":
			return a, a.focusRegistrationInput((a.registration.focus + 1) % len(a.registration.inputs))
		case "shift+tab", "up":
			return a, a.focusRegistrationInput((a.registration.focus + len(a.registration.inputs) - 1) % len(a.registration.inputs))
		case "enter":
			if a.registration.focus < len(a.registration.inputs)-1 {
				return a, a.focusRegistrationInput(a.registration.focus + 1)
			}
			a.registration.submitting = true
			seq := a.seq
			username := a.registration.inputs[0].Value()
			email := a.registration.inputs[1].Value()
			password := a.registration.inputs[2].Value()
			return a, func() tea.Msg {
				outcome := a.deps.Account.Register(context.Background(), username, email, password)
				return registerDoneMsg{seq: seq, outcome: outcome}
			}
		}
	}

	var cmd tea.Cmd
	a.registration.inputs[a.registration.focus], cmd = a.registration.inputs[a.registration.focus].Update(msg)
	return a, cmd
}

func (a *App) focusRegistrationInput(i int) tea.Cmd {
	a.registration.inputs[a.registration.focus].Blur()
	a.registration.focus = i
	return a.registration.inputs[i].Focus()
}

func (a *App) viewRegistration() string {
	out := titleStyle.Render("Reservation App") + "\n\n"
	out += "Create an account\n\n"
	for i := range a.registration.inputs {
		out += a.registration.inputs[i].View() + "\n"
	}
	if a.registration.submitting {
		out += "\nRegistering...\n"
	}
	out += "\n" + helpStyle.Render("enter submit • tab next field • ctrl+l login • ctrl+c quit")
	return out
}
