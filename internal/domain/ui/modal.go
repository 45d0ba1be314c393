package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
)

// Kind selects how the global modal renders.
type Kind string

const (
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
	KindCustom  Kind = "custom"
)

// AuthView marks that the open modal is the authentication dialog.
// While set, the generic modal is suppressed so two dialogs never overlap.
type AuthView string

const (
	AuthViewNone     AuthView = ""
	AuthViewLogin    AuthView = "login"
	AuthViewRegister AuthView = "register"
)

// ParseAuthView maps a query/form value onto an AuthView.
func ParseAuthView(s string) (AuthView, bool) {
	switch AuthView(s) {
	case AuthViewLogin, AuthViewRegister:
		return AuthView(s), true
	default:
		return AuthViewNone, false
	}
}

// Callback is the single asynchronous contract for modal hooks.
// Synchronous work simply returns; long-running work blocks until it settles.
type Callback func(ctx context.Context) error

// Default button labels.
const (
	DefaultConfirmLabel = "Confirm"
	DefaultCancelLabel  = "Cancel"
)

var (
	// ErrModalBusy is returned while a confirm callback is still running.
	ErrModalBusy = errors.New("modal is busy")
	// ErrModalClosed is returned when confirming a modal that is not open.
	ErrModalClosed = errors.New("modal is not open")
)

// Options carries the payload of an open request.
type Options struct {
	Title        string
	Description  string
	Body         template.HTML
	ConfirmLabel string
	CancelLabel  string
	Dangerous    bool
	OnConfirm    Callback
	OnCancel     Callback
}

// ModalState is an immutable snapshot of the coordinator. Callbacks are not exposed.
type ModalState struct {
	IsOpen       bool          `json:"is_open"`
	Kind         Kind          `json:"kind"`
	Title        string        `json:"title,omitempty"`
	Description  string        `json:"description,omitempty"`
	Body         template.HTML `json:"body,omitempty"`
	ConfirmLabel string        `json:"confirm_label"`
	CancelLabel  string        `json:"cancel_label"`
	IsDangerous  bool          `json:"is_dangerous"`
	Pending      bool          `json:"pending"`
	AuthView     AuthView      `json:"auth_view,omitempty"`
}

// ShowsGenericModal reports whether the generic modal should render.
func (s ModalState) ShowsGenericModal() bool {
	return s.IsOpen && s.AuthView == AuthViewNone
}

// ShowsAuthModal reports whether the authentication dialog should render.
func (s ModalState) ShowsAuthModal() bool {
	return s.IsOpen && s.AuthView != AuthViewNone
}

// ShowsCancel reports whether the cancel button is part of the footer.
func (s ModalState) ShowsCancel() bool {
	return s.Kind == KindConfirm
}

type modalEntry struct {
	state     ModalState
	onConfirm Callback
	onCancel  Callback
}

func closedEntry() modalEntry {
	return modalEntry{state: ModalState{
		Kind:         KindInfo,
		ConfirmLabel: DefaultConfirmLabel,
		CancelLabel:  DefaultCancelLabel,
	}}
}

// Modal coordinates the single process-wide modal of a workspace.
// States: Closed -> Open(kind, payload) -> Closed. A second open replaces the
// payload wholesale. Safe for concurrent use; callbacks run without the lock held.
type Modal struct {
	mu         sync.Mutex
	cur        modalEntry
	generation uint64
	logger     *slog.Logger
}

// NewModal creates a closed modal coordinator.
func NewModal(logger *slog.Logger) *Modal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Modal{cur: closedEntry(), logger: logger}
}

// OpenInfo opens an informational modal.
func (m *Modal) OpenInfo(opts Options) { m.open(KindInfo, opts) }

// OpenConfirm opens a confirmation modal; OnConfirm runs on Confirm.
func (m *Modal) OpenConfirm(opts Options) { m.open(KindConfirm, opts) }

// OpenCustom opens a modal whose body is the authoritative content.
func (m *Modal) OpenCustom(body template.HTML, opts Options) {
	opts.Body = body
	m.open(KindCustom, opts)
}

// OpenAuth opens the authentication dialog in the given view.
func (m *Modal) OpenAuth(view AuthView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(KindCustom, Options{})
	m.cur.state.AuthView = view
}

// open replaces whatever is showing, including an auth view: last writer wins.
func (m *Modal) open(kind Kind, opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(kind, opts)
}

// replaceLocked installs a fresh entry so nothing from the previous payload survives.
func (m *Modal) replaceLocked(kind Kind, opts Options) {
	e := closedEntry()
	e.state.IsOpen = true
	e.state.Kind = kind
	e.state.Title = opts.Title
	e.state.Description = opts.Description
	e.state.Body = opts.Body
	e.state.IsDangerous = opts.Dangerous
	if opts.ConfirmLabel != "" {
		e.state.ConfirmLabel = opts.ConfirmLabel
	}
	if opts.CancelLabel != "" {
		e.state.CancelLabel = opts.CancelLabel
	}
	e.onConfirm = opts.OnConfirm
	e.onCancel = opts.OnCancel
	m.cur = e
	m.generation++
}

// SetAuthView switches the authentication view without touching the payload.
func (m *Modal) SetAuthView(view AuthView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur.state.AuthView = view
}

// Close resets the modal to its defaults without running any callback.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Modal) resetLocked() {
	m.cur = closedEntry()
	m.generation++
}

// Confirm runs OnConfirm for confirm modals and closes on success.
// On failure the modal stays open with Pending cleared so the user can retry or cancel;
// the returned error is for logging and is never rendered automatically.
func (m *Modal) Confirm(ctx context.Context) error {
	m.mu.Lock()
	if !m.cur.state.IsOpen {
		m.mu.Unlock()
		return ErrModalClosed
	}
	if m.cur.state.Pending {
		m.mu.Unlock()
		return ErrModalBusy
	}
	cb := m.cur.onConfirm
	if m.cur.state.Kind != KindConfirm || cb == nil {
		m.resetLocked()
		m.mu.Unlock()
		return nil
	}
	m.cur.state.Pending = true
	gen := m.generation
	m.mu.Unlock()

	err := invoke(ctx, cb)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		// Replaced while the callback ran; the newer modal is left alone.
		return err
	}
	m.cur.state.Pending = false
	if err != nil {
		m.logger.ErrorContext(ctx, "modal confirm failed", "error", err, "title", m.cur.state.Title)
		return err
	}
	m.resetLocked()
	return nil
}

// Cancel runs OnCancel best-effort and always closes. It is refused only while a
// confirm callback is pending, matching the disabled cancel button.
func (m *Modal) Cancel(ctx context.Context) error {
	m.mu.Lock()
	if !m.cur.state.IsOpen {
		m.mu.Unlock()
		return nil
	}
	if m.cur.state.Pending {
		m.mu.Unlock()
		return ErrModalBusy
	}
	cb := m.cur.onCancel
	gen := m.generation
	m.mu.Unlock()

	if cb != nil {
		if err := invoke(ctx, cb); err != nil {
			m.logger.WarnContext(ctx, "modal cancel callback failed", "error", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation == gen {
		m.resetLocked()
	}
	return nil
}

// Snapshot returns the current state.
func (m *Modal) Snapshot() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.state
}

// invoke runs cb and converts a panic into an error.
func invoke(ctx context.Context, cb Callback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return cb(ctx)
}
