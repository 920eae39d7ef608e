// Package mocks provides mock implementations for testing the ecotrack UI service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	api := portsmocks.NewMockAuthAPI(ctrl)
//	api.EXPECT().WhoAmI(gomock.Any(), gomock.Any()).Return(identity, nil)
package mocks

// Generate mocks for all port interfaces (SessionStore, AuthAPI, ComplaintAPI,
// CategoryAPI, AdminAPI) in one source-mode pass.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=../ports/ports.go -destination=ports/ports.go -package=portsmocks
