// Package mocks provides gomock mocks for the BFF's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	backend := mocks.NewMockBackendAPI(ctrl)
//	backend.EXPECT().Login(gomock.Any(), gomock.Any()).Return(session, nil)
package mocks

// Generate mock for BackendAPI interface from internal/ports package.
// This creates MockBackendAPI with methods for all BackendAPI interface methods:
// Login, Register, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_api_mock.go github.com/finnabbear/finnabear-web/internal/ports BackendAPI
