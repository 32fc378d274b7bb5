package form

import "github.com/fragmede/tagterm/internal/api"

// Mode selects which of the two forms is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Modes lists every mode in tab order.
var Modes = []Mode{ModeLogin, ModeRegister}

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	}
	return "unknown"
}

// Next returns the other mode.
func (m Mode) Next() Mode {
	if m == ModeLogin {
		return ModeRegister
	}
	return ModeLogin
}

// Kind styles a banner.
type Kind int

const (
	KindNeutral Kind = iota
	KindSuccess
	KindError
)

// Banner is the transient feedback line under the form.
type Banner struct {
	Text string
	Kind Kind
}

// Empty reports whether there is nothing to show.
func (b Banner) Empty() bool {
	return b.Text == ""
}

// Phase is where the current submission stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	// PhaseError is reported for the failed submission; the controller
	// accepts a new submission right away.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// ResultMsg carries the outcome of a submission back to the event loop.
type ResultMsg struct {
	Mode     Mode
	Username string
	Result   *api.AuthResult
	Err      error
}

// NavigateMsg is sent once the post-success delay has elapsed.
type NavigateMsg struct {
	Target   string
	Username string
}

// RootTarget is the application root navigated to after signing in.
const RootTarget = "/"
