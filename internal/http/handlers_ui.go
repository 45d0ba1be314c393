package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	apperrors "github.com/finnabbear/finnabear-web/internal/errors"
	"github.com/finnabbear/finnabear-web/internal/service"
)

// DefaultDemoDelay is how long the playground's confirm callback takes to settle.
const DefaultDemoDelay = time.Second

// UIHandlers serves the shell and every UI-state transition.
type UIHandlers struct {
	T      *TemplateRenderer
	Logger *slog.Logger
	// DemoDelay overrides DefaultDemoDelay; negative disables the wait.
	DemoDelay time.Duration
}

func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) render(w http.ResponseWriter, name string, data any) {
	if err := h.T.Render(w, name, data); err != nil {
		h.logger().Error("render ui fragment", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *UIHandlers) renderShell(w http.ResponseWriter, r *http.Request, page string) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	if view, ok := ui.ParseAuthView(r.URL.Query().Get("auth_modal")); ok {
		ws.Modal.OpenAuth(view)
	}
	AdvertiseColorSchemeHint(w)
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, "shell", NewTemplateData(r, ws).WithPage(page).Build())
}

// Home handles GET /. ?auth_modal=login|register opens the auth dialog.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.renderShell(w, r, PageHome)
}

// Playground handles GET /playground.
func (h *UIHandlers) Playground(w http.ResponseWriter, r *http.Request) {
	h.renderShell(w, r, PagePlayground)
}

// State handles GET /ui/state.
func (h *UIHandlers) State(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, ws.Snapshot(ObserveSystemDark(r, ws, false)))
}

// overlays re-renders the modal, dialog and loader slots.
func (h *UIHandlers) overlays(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	if WantsJSON(r) {
		WriteJSON(w, http.StatusOK, ws.Snapshot(ObserveSystemDark(r, ws, false)))
		return
	}
	h.render(w, "overlays", NewTemplateData(r, ws).Build())
}

// OpenAuthModal handles GET /ui/auth-modal?view=login|register.
func (h *UIHandlers) OpenAuthModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	view, valid := ui.ParseAuthView(r.URL.Query().Get("view"))
	if !valid {
		WriteAppError(w, apperrors.ValidationField("view", "view must be login or register"))
		return
	}
	if !IsHTMX(r) && !WantsJSON(r) {
		http.Redirect(w, r, "/?auth_modal="+string(view), http.StatusSeeOther)
		return
	}
	if ws.Modal.Snapshot().ShowsAuthModal() {
		ws.Modal.SetAuthView(view)
	} else {
		ws.Modal.OpenAuth(view)
	}
	h.overlays(w, r, ws)
}

// CloseAuthModal handles POST /ui/auth-modal/close. Submitted form values are dropped.
func (h *UIHandlers) CloseAuthModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	if ws.Modal.Snapshot().ShowsAuthModal() {
		ws.Modal.Close()
	}
	h.overlays(w, r, ws)
}

// ConfirmModal handles POST /ui/modal/confirm. The request blocks until OnConfirm settles.
func (h *UIHandlers) ConfirmModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	wasAuthenticated := ws.Auth.Snapshot().IsAuthenticated

	ctx, notices := withNotices(r.Context())
	err := ws.Modal.Confirm(ctx)
	switch {
	case err == nil, errors.Is(err, ui.ErrModalClosed):
	case errors.Is(err, ui.ErrModalBusy):
		Toast(w, ToastInfo, "Still working...")
	default:
		Toast(w, ToastError, apperrors.UserMessage(err, "Something went wrong"))
	}
	notices.flush(w)

	if WantsJSON(r) || wasAuthenticated == ws.Auth.Snapshot().IsAuthenticated {
		h.overlays(w, r, ws)
		return
	}
	SetHXTrigger(w, "auth-changed", nil)
	SetHXReplaceURL(w, "/")
	h.render(w, "auth-result", NewTemplateData(r, ws).WithOOB().Build())
}

// CancelModal handles POST /ui/modal/cancel.
func (h *UIHandlers) CancelModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	ctx, notices := withNotices(r.Context())
	if err := ws.Modal.Cancel(ctx); errors.Is(err, ui.ErrModalBusy) {
		Toast(w, ToastInfo, "Still working...")
	}
	notices.flush(w)
	h.overlays(w, r, ws)
}

// ConfirmLogout handles POST /ui/logout/confirm by opening a confirm dialog
// whose OnConfirm clears the session.
func (h *UIHandlers) ConfirmLogout(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	ws.Modal.OpenConfirm(ui.Options{
		Title:        "Sign out",
		Description:  "Are you sure you want to sign out?",
		ConfirmLabel: "Sign out",
		Dangerous:    true,
		OnConfirm:    logoutCallback(ws),
	})
	h.overlays(w, r, ws)
}

func logoutCallback(ws *service.Workspace) ui.Callback {
	return func(ctx context.Context) error {
		jar, ok := GetCookieJarFromContext(ctx)
		if !ok {
			return apperrors.Callback(errNoWorkspace)
		}
		ws.Auth.Logout(ctx, jar)
		Notify(ctx, ToastSuccess, "Signed out")
		return nil
	}
}

// SetTheme handles POST /ui/theme with theme=light|dark|system and the browser's dark=true|false.
func (h *UIHandlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	p, err := ui.ParsePreference(r.FormValue("theme"))
	if err != nil {
		WriteAppError(w, apperrors.ValidationField("theme", err.Error()))
		return
	}
	ws.SetTheme(r.Context(), p)
	h.themeApplied(w, r, ws, ObserveSystemDark(r, ws, true))
}

// SyncTheme handles POST /ui/theme/sync with dark=true|false, re-resolving "system"
// when the OS color scheme flips. The stored preference is untouched.
func (h *UIHandlers) SyncTheme(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	h.themeApplied(w, r, ws, ObserveSystemDark(r, ws, true))
}

func (h *UIHandlers) themeApplied(w http.ResponseWriter, r *http.Request, ws *service.Workspace, dark bool) {
	state := ws.Theme.Snapshot(dark)
	if WantsJSON(r) {
		WriteJSON(w, http.StatusOK, state)
		return
	}
	SetHXTrigger(w, "theme-applied", map[string]string{
		"mode":       string(state.Applied),
		"preference": string(state.Preference),
	})
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSidebar handles POST /ui/sidebar/toggle.
func (h *UIHandlers) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	ws.ToggleSidebar(r.Context())
	h.sidebar(w, r, ws)
}

// SetSidebar handles POST /ui/sidebar with open=true|false.
func (h *UIHandlers) SetSidebar(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	open, err := strconv.ParseBool(r.FormValue("open"))
	if err != nil {
		WriteAppError(w, apperrors.ValidationField("open", "open must be true or false"))
		return
	}
	ws.SetSidebar(r.Context(), open)
	h.sidebar(w, r, ws)
}

func (h *UIHandlers) sidebar(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	if WantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]bool{"sidebar_open": ws.Sidebar.IsOpen()})
		return
	}
	h.render(w, "sidebar", NewTemplateData(r, ws).Build())
}

// BeginLoading handles POST /ui/loading/begin.
func (h *UIHandlers) BeginLoading(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	ws.Loading.Begin()
	h.loader(w, r, ws)
}

// EndLoading handles POST /ui/loading/end. Extra ends clamp at zero.
func (h *UIHandlers) EndLoading(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	ws.Loading.End()
	h.loader(w, r, ws)
}

func (h *UIHandlers) loader(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	if WantsJSON(r) {
		WriteJSON(w, http.StatusOK, ws.Loading.Snapshot())
		return
	}
	h.render(w, "loader", NewTemplateData(r, ws).Build())
}

// DemoModal handles POST /ui/modal/demo?kind=info|confirm|custom for the playground.
func (h *UIHandlers) DemoModal(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := requestScope(w, r)
	if !ok {
		return
	}
	switch ui.Kind(r.URL.Query().Get("kind")) {
	case ui.KindInfo:
		ws.Modal.OpenInfo(ui.Options{Title: "Info Modal", Description: "This is an info modal."})
	case ui.KindConfirm:
		ws.Modal.OpenConfirm(ui.Options{
			Title:        "Delete Item",
			Description:  "Are you sure you want to delete this item?",
			ConfirmLabel: "Delete",
			Dangerous:    true,
			OnConfirm:    h.demoConfirm,
		})
	case ui.KindCustom:
		body, err := h.T.RenderString("demo-custom", nil)
		if err != nil {
			h.logger().Error("render custom modal body", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		ws.Modal.OpenCustom(body, ui.Options{Title: "Custom Modal"})
	default:
		WriteAppError(w, apperrors.ValidationField("kind", "kind must be info, confirm or custom"))
		return
	}
	h.overlays(w, r, ws)
}

func (h *UIHandlers) demoConfirm(ctx context.Context) error {
	delay := h.DemoDelay
	if delay == 0 {
		delay = DefaultDemoDelay
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return apperrors.Callback(ctx.Err())
		case <-timer.C:
		}
	}
	Notify(ctx, ToastSuccess, "Item deleted")
	return nil
}

// DemoToast handles POST /ui/toast/demo?level=success|error|info.
func (h *UIHandlers) DemoToast(w http.ResponseWriter, r *http.Request) {
	switch level := r.URL.Query().Get("level"); level {
	case ToastSuccess:
		Toast(w, level, "Success Toast")
	case ToastError:
		Toast(w, level, "Error Toast")
	default:
		Toast(w, ToastInfo, "Info Toast")
	}
	w.WriteHeader(http.StatusNoContent)
}
