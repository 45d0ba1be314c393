package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	"github.com/finnabbear/finnabear-web/internal/ports"
	"github.com/finnabbear/finnabear-web/internal/service"
)

var errNoWorkspace = errors.New("request has no workspace")

// ActionHandlers serves the login, register, logout and profile actions.
// JSON callers get the ActionResult; htmx callers get fragments; plain form
// posts are redirected back to the shell.
type ActionHandlers struct {
	Actions *service.AuthActions
	T       *TemplateRenderer
	Logger  *slog.Logger
}

func (h *ActionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// requestScope returns the workspace and cookie jar attached by WithWorkspace.
func requestScope(w http.ResponseWriter, r *http.Request) (*service.Workspace, ports.CookieJar, bool) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "no_workspace", Err: errNoWorkspace})
		return nil, nil, false
	}
	jar, ok := GetCookieJarFromContext(r.Context())
	if !ok {
		jar = NewRequestCookieJar(w, r)
	}
	return ws, jar, true
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// Login handles POST /actions/login.
func (h *ActionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ws, jar, ok := requestScope(w, r)
	if !ok {
		return
	}

	var in ports.LoginInput
	if isJSONBody(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		if !parseForm(w, r) {
			return
		}
		in = ports.LoginInput{Identifier: r.PostFormValue("identifier"), Password: r.PostFormValue("password")}
	}

	res := ws.Auth.Login(r.Context(), jar, in)
	h.respond(w, r, actionOutcome{
		ws:     ws,
		result: res,
		view:   ui.AuthViewLogin,
		form:   AuthForm{Identifier: in.Identifier},
	})
}

// Register handles POST /actions/register.
func (h *ActionHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ws, jar, ok := requestScope(w, r)
	if !ok {
		return
	}

	var in ports.RegisterInput
	if isJSONBody(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		if !parseForm(w, r) {
			return
		}
		in = ports.RegisterInput{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
	}

	res := ws.Auth.Register(r.Context(), jar, in)
	h.respond(w, r, actionOutcome{
		ws:     ws,
		result: res,
		view:   ui.AuthViewRegister,
		form:   AuthForm{Username: in.Username, Email: in.Email},
	})
}

// Logout handles POST /actions/logout. It always succeeds.
func (h *ActionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ws, jar, ok := requestScope(w, r)
	if !ok {
		return
	}
	res := ws.Auth.Logout(r.Context(), jar)

	switch {
	case WantsJSON(r):
		WriteJSON(w, http.StatusOK, res)
	case IsHTMX(r):
		Toast(w, ToastSuccess, "Signed out")
		SetHXTrigger(w, "auth-changed", nil)
		SetHXReplaceURL(w, "/")
		h.render(w, "auth-result", NewTemplateData(r, ws).WithOOB().Build())
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// profileView is the data of the profile-result fragment.
type profileView struct {
	Success bool
	JSON    string
	Error   string
}

// Me handles GET /actions/me, re-validating the token cookie with the backend.
func (h *ActionHandlers) Me(w http.ResponseWriter, r *http.Request) {
	jar, ok := GetCookieJarFromContext(r.Context())
	if !ok {
		jar = NewRequestCookieJar(w, r)
	}
	res := h.Actions.GetMe(r.Context(), jar)

	if !IsHTMX(r) {
		WriteJSON(w, http.StatusOK, res)
		return
	}

	view := profileView{Success: res.Success, Error: res.Error}
	if res.Success {
		var buf bytes.Buffer
		if err := json.Indent(&buf, res.Data, "", "  "); err != nil {
			view.JSON = string(res.Data)
		} else {
			view.JSON = buf.String()
		}
	} else {
		Toast(w, ToastError, res.Error)
	}
	h.render(w, "profile-result", view)
}

type actionOutcome struct {
	ws     *service.Workspace
	result domainauth.ActionResult
	view   ui.AuthView
	form   AuthForm
}

func (h *ActionHandlers) respond(w http.ResponseWriter, r *http.Request, o actionOutcome) {
	if WantsJSON(r) {
		WriteJSON(w, http.StatusOK, o.result)
		return
	}

	if o.result.Success {
		o.ws.Modal.Close()
		if !IsHTMX(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if o.result.User != nil {
			Toast(w, ToastSuccess, "Signed in as "+o.result.User.Username)
		}
		SetHXTrigger(w, "auth-changed", nil)
		SetHXReplaceURL(w, "/")
		h.render(w, "auth-result", NewTemplateData(r, o.ws).WithOOB().Build())
		return
	}

	// Keep the dialog open on the submitted view so the inline error is visible.
	if !o.ws.Modal.Snapshot().ShowsAuthModal() {
		o.ws.Modal.OpenAuth(o.view)
	} else {
		o.ws.Modal.SetAuthView(o.view)
	}
	o.form.Error = o.result.Error
	data := NewTemplateData(r, o.ws).WithForm(o.form)

	if IsHTMX(r) {
		h.render(w, "overlays", data.Build())
		return
	}
	h.render(w, "shell", data.Build())
}

func (h *ActionHandlers) render(w http.ResponseWriter, name string, data any) {
	if err := h.T.Render(w, name, data); err != nil {
		h.logger().Error("render action response", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return false
	}
	return true
}
