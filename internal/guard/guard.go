// Package guard decides whether a protected view may render.
package guard

import "github.com/example/elevate/internal/session"

// Action is the guard's verdict for a protected view
type Action int

const (
	// ShowLoading means the session has not finished initializing yet
	ShowLoading Action = iota
	// RedirectToLogin means the user must authenticate first
	RedirectToLogin
	// Render means the view may be shown
	Render
)

func (a Action) String() string {
	switch a {
	case ShowLoading:
		return "loading"
	case RedirectToLogin:
		return "redirect-to-login"
	default:
		return "render"
	}
}

// Outcome carries the verdict plus, on redirect, the originally requested
// location so a successful login can return the user there.
type Outcome struct {
	Action   Action
	ReturnTo string
}

// Sessions is the slice of the session store the guard needs
type Sessions interface {
	Snapshot() session.State
}

// Guard gates protected views on the session state. It is a pure decision
// over the store's snapshot and never inspects token storage itself.
type Guard struct {
	sessions Sessions
}

// New creates a guard over the given session store
func New(sessions Sessions) *Guard {
	return &Guard{sessions: sessions}
}

// Resolve decides what to do with a request for the protected view at target
func (g *Guard) Resolve(target string) Outcome {
	state := g.sessions.Snapshot()

	if !state.Initialized {
		return Outcome{Action: ShowLoading}
	}
	if !state.Authenticated {
		return Outcome{Action: RedirectToLogin, ReturnTo: target}
	}
	return Outcome{Action: Render}
}
