package httpx

import (
	"net/http"

	"github.com/finnabbear/finnabear-web/internal/domain/ui"
	"github.com/finnabbear/finnabear-web/internal/service"
)

// AuthForm echoes submitted auth fields back into a re-rendered dialog.
// Passwords are never echoed.
type AuthForm struct {
	Error      string
	Identifier string
	Username   string
	Email      string
}

// PageData is the root value every template receives.
type PageData struct {
	Page         string
	CSRFToken    string
	State        service.Snapshot
	ThemeClass   ui.Mode
	ThemeOptions []ui.Preference
	Form         AuthForm
	// OOB marks fragments rendered as out-of-band swaps next to the main target.
	OOB bool
}

var themeOptions = []ui.Preference{ui.PreferenceSystem, ui.PreferenceLight, ui.PreferenceDark}

// TemplateDataBuilder provides a fluent API for building PageData.
type TemplateDataBuilder struct {
	data PageData
}

// NewTemplateData snapshots ws for the current request.
func NewTemplateData(r *http.Request, ws *service.Workspace) *TemplateDataBuilder {
	snap := ws.Snapshot(ObserveSystemDark(r, ws, false))
	return &TemplateDataBuilder{data: PageData{
		Page:         PageHome,
		CSRFToken:    GetCSRFToken(r),
		State:        snap,
		ThemeClass:   snap.Theme.Applied,
		ThemeOptions: themeOptions,
	}}
}

// WithPage selects the shell's main content.
func (b *TemplateDataBuilder) WithPage(page string) *TemplateDataBuilder {
	b.data.Page = page
	return b
}

// WithForm carries submitted values and an inline error.
func (b *TemplateDataBuilder) WithForm(form AuthForm) *TemplateDataBuilder {
	b.data.Form = form
	return b
}

// WithOOB marks the data for out-of-band fragments.
func (b *TemplateDataBuilder) WithOOB() *TemplateDataBuilder {
	b.data.OOB = true
	return b
}

// Build returns the final page data.
func (b *TemplateDataBuilder) Build() PageData {
	return b.data
}
