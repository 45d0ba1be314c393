package httpx

// Page identifiers used by the shell template.
const (
	PageHome       = "home"
	PagePlayground = "playground"
)

// DefaultWorkspaceCookieName identifies the browser's UI workspace.
const DefaultWorkspaceCookieName = "ui_session"

// maxBodyBytes caps JSON and form bodies accepted by action handlers.
const maxBodyBytes = 64 << 10
