package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finnabbear/finnabear-web/internal/service"
)

// FieldSystemDark carries the matchMedia("(prefers-color-scheme: dark)") result.
const FieldSystemDark = "dark"

// HeaderPrefersColorScheme is the user-agent client hint carrying the OS color scheme.
const HeaderPrefersColorScheme = "Sec-CH-Prefers-Color-Scheme"

// AdvertiseColorSchemeHint asks supporting browsers to send the color-scheme hint,
// retrying the first navigation when it was missing.
func AdvertiseColorSchemeHint(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Accept-CH", HeaderPrefersColorScheme)
	h.Set("Critical-CH", HeaderPrefersColorScheme)
	h.Add("Vary", HeaderPrefersColorScheme)
}

// SystemPrefersDark reports the OS dark-mode client hint. Without a hint it is false (light).
func SystemPrefersDark(r *http.Request) bool {
	dark, _ := colorSchemeHint(r)
	return dark
}

func colorSchemeHint(r *http.Request) (dark, ok bool) {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(HeaderPrefersColorScheme)), `"`)
	if v == "" {
		return false, false
	}
	return strings.EqualFold(v, "dark"), true
}

// ObserveSystemDark resolves the OS signal for this request and remembers it on ws.
// An explicit dark= form field wins over the client hint; with neither, the last
// signal the browser reported is reused so browsers without client hints keep
// their mode across reloads.
func ObserveSystemDark(r *http.Request, ws *service.Workspace, readForm bool) bool {
	if readForm {
		if dark, err := strconv.ParseBool(r.FormValue(FieldSystemDark)); err == nil {
			ws.Theme.ObserveSystem(dark)
			return dark
		}
	}
	if dark, ok := colorSchemeHint(r); ok {
		ws.Theme.ObserveSystem(dark)
		return dark
	}
	return ws.Theme.SystemDark()
}
