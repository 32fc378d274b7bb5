// Package form holds the login/register state machine behind the auth
// screen: which form is shown, the message banner, and the submit flow.
// It has no rendering; ui/authform draws it.
package form

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fragmede/tagterm/internal/api"
)

// Authenticator is the remote side of the two forms.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResult, error)
	Register(ctx context.Context, creds api.Credentials) (*api.AuthResult, error)
}

// TokenStore persists the session token issued on success.
type TokenStore interface {
	SaveToken(token string) error
}

// Defaults applied by New when an Options field is left zero.
const (
	DefaultRedirectDelay  = 1000 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
)

// Options tune a Controller.
type Options struct {
	Catalog        Catalog
	RedirectDelay  time.Duration
	RequestTimeout time.Duration
}

// Controller owns the auth screen state. It is driven from the Bubble Tea
// update loop: mutate it only there, and let the returned commands carry
// network work off the loop.
type Controller struct {
	mode   Mode
	phase  Phase
	banner Banner

	auth   Authenticator
	tokens TokenStore
	log    *zap.Logger
	opts   Options
}

// New creates a controller showing the login form.
func New(auth Authenticator, tokens TokenStore, log *zap.Logger, opts Options) Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Catalog == (Catalog{}) {
		opts.Catalog = CatalogFor("en")
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return Controller{
		mode:   ModeLogin,
		auth:   auth,
		tokens: tokens,
		log:    log,
		opts:   opts,
	}
}

func (c *Controller) Mode() Mode       { return c.mode }
func (c *Controller) Phase() Phase     { return c.phase }
func (c *Controller) Banner() Banner   { return c.banner }
func (c *Controller) Catalog() Catalog { return c.opts.Catalog }

// FormVisible reports whether the form for m is the one on screen.
func (c *Controller) FormVisible(m Mode) bool { return c.mode == m }

// TabActive reports whether the tab for m is highlighted.
func (c *Controller) TabActive(m Mode) bool { return c.mode == m }

// Busy reports whether a submission is in flight or navigation is pending.
func (c *Controller) Busy() bool {
	return c.phase == PhaseSubmitting || c.phase == PhaseSuccess
}

// SwitchMode shows the form for target and clears the banner.
func (c *Controller) SwitchMode(target Mode) {
	if target != ModeRegister {
		target = ModeLogin
	}
	c.mode = target
	c.ClearMessage()
}

// ShowMessage replaces the banner.
func (c *Controller) ShowMessage(text string, kind Kind) {
	c.banner = Banner{Text: text, Kind: kind}
}

// ClearMessage empties the banner.
func (c *Controller) ClearMessage() {
	c.banner = Banner{}
}

// SubmitLogin starts a login request. The returned command performs the
// request and yields a ResultMsg; it is nil when a submission is already
// in flight.
func (c *Controller) SubmitLogin(creds api.Credentials) tea.Cmd {
	if c.Busy() {
		return nil
	}
	c.phase = PhaseSubmitting
	return c.request(ModeLogin, creds, c.auth.Login)
}

// SubmitRegister starts a registration request. Mismatched passwords are
// reported immediately and nothing is sent.
func (c *Controller) SubmitRegister(creds api.Credentials, confirmPassword string) tea.Cmd {
	if c.Busy() {
		return nil
	}
	if creds.Password != confirmPassword {
		c.ShowMessage(c.opts.Catalog.PasswordMismatch, KindError)
		c.phase = PhaseError
		return nil
	}
	c.phase = PhaseSubmitting
	return c.request(ModeRegister, creds, c.auth.Register)
}

type authFunc func(context.Context, api.Credentials) (*api.AuthResult, error)

func (c *Controller) request(mode Mode, creds api.Credentials, call authFunc) tea.Cmd {
	timeout := c.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := call(ctx, creds)
		return ResultMsg{Mode: mode, Username: creds.Username, Result: res, Err: err}
	}
}

// HandleResult applies a finished submission. On success it stores the
// token and returns a command that navigates to the root after the
// redirect delay.
func (c *Controller) HandleResult(msg ResultMsg) tea.Cmd {
	text := c.opts.Catalog
	log := c.log.With(zap.Stringer("mode", msg.Mode), zap.String("username", msg.Username))

	if msg.Err != nil || msg.Result == nil {
		log.Warn("auth request failed", zap.Error(msg.Err))
		c.fail(text.failed(msg.Mode))
		return nil
	}

	res := msg.Result
	if !res.Success {
		log.Info("auth rejected by server", zap.String("error", res.Error))
		if res.Error == "" {
			c.fail(text.failed(msg.Mode))
			return nil
		}
		c.fail(res.Error)
		return nil
	}

	if res.Token == "" {
		log.Warn("auth succeeded without a token")
		c.fail(text.failed(msg.Mode))
		return nil
	}

	c.ShowMessage(text.success(msg.Mode), KindSuccess)
	if err := c.tokens.SaveToken(res.Token); err != nil {
		log.Error("persisting session token", zap.Error(err))
		c.fail(text.failed(msg.Mode))
		return nil
	}
	c.phase = PhaseSuccess
	log.Info("signed in", zap.Duration("redirect_delay", c.opts.RedirectDelay))

	username := msg.Username
	if res.User != nil && res.User.Username != "" {
		username = res.User.Username
	}
	return tea.Tick(c.opts.RedirectDelay, func(time.Time) tea.Msg {
		return NavigateMsg{Target: RootTarget, Username: username}
	})
}

// RedirectDelay is the pause between a successful sign-in and navigation.
func (c *Controller) RedirectDelay() time.Duration {
	return c.opts.RedirectDelay
}

func (c *Controller) fail(text string) {
	c.ShowMessage(text, KindError)
	c.phase = PhaseError
}
