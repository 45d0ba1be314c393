package ports_test

import (
	"testing"

	"github.com/finnabbear/finnabear-web/internal/mocks"
	mockauth "github.com/finnabbear/finnabear-web/internal/mocks/auth"
	mockui "github.com/finnabbear/finnabear-web/internal/mocks/ui"
	"github.com/finnabbear/finnabear-web/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.BackendAPI = (*mocks.MockBackendAPI)(nil)
	var _ ports.BackendAPI = (*mockauth.StubBackend)(nil)
	var _ ports.CookieJar = (*mockauth.MemoryCookieJar)(nil)
	var _ ports.PreferenceStore = (*mockui.MemoryPreferenceStore)(nil)
}
