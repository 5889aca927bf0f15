// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these
// standardized implementations are shared across test packages. Each mock
// exposes function fields for per-test behavior; when a function field is
// nil, the mock falls back to a simple in-memory default.
//
// Usage:
//
//	import "github.com/taskdeck/taskdeck-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    tokens := &mocks.MockTokenService{
//	        IssueFn: func(ctx context.Context, userID uuid.UUID) (string, error) {
//	            return "mocked-token", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
