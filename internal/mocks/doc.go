// Package mocks holds test doubles shared by the service and API tests.
//
// Store mocks keep their data in memory and behave like the real stores,
// including not-found errors. Every method can be overridden through its
// function field:
//
//	sessions := mocks.NewSessionStore()
//	sessions.UpdateFn = func(ctx context.Context, id uuid.UUID, fn store.SessionUpdateFn) (*domain.LearningSession, error) {
//	    return nil, errors.New("database unavailable")
//	}
//
// Service mocks have only function fields; calling a method whose field is
// nil panics so a test cannot silently exercise a path it did not set up.
package mocks
