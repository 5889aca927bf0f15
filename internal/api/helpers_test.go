package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/mocks"
	"github.com/taskdeck/taskdeck-api/internal/platform/imaging"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// testEnv bundles the handlers with the in-memory stores backing them.
type testEnv struct {
	users    *mocks.MockUserStore
	sessions *mocks.MockSessionStore
	tasks    *mocks.MockTaskStore
	mailer   *mocks.MockMailer

	userService *service.UserService
	taskService *service.TaskService
}

const testMaxAvatarBytes = 1_000_000

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    mocks.NewMockUserStore(),
		sessions: mocks.NewMockSessionStore(),
		tasks:    mocks.NewMockTaskStore(),
		mailer:   &mocks.MockMailer{},
	}

	emitter := events.NewInMemoryEventEmitter(nil)

	processor, err := imaging.NewProcessor(250)
	require.NoError(t, err)

	env.userService, err = service.NewUserService(service.UserServiceConfig{
		Users:          env.users,
		Sessions:       env.sessions,
		Tokens:         &mocks.MockTokenService{},
		Hasher:         auth.NewBcryptHasher(bcrypt.MinCost),
		Verifier:       auth.NewBcryptVerifier(),
		Emitter:        emitter,
		Imaging:        processor,
		MaxAvatarBytes: testMaxAvatarBytes,
	})
	require.NoError(t, err)

	env.taskService, err = service.NewTaskService(env.tasks, nil)
	require.NoError(t, err)

	return env
}

// signUpUser registers a user directly through the service and returns it
// with its session token.
func (env *testEnv) signUpUser(t *testing.T, email string) (*domain.User, string) {
	t.Helper()

	user, token, err := env.userService.SignUp(context.Background(), "Test User", email, "supersecret", 25)
	require.NoError(t, err)
	return user, token
}

// authenticate mimics the auth middleware by attaching the user and token
// to the request context.
func authenticate(r *http.Request, user *domain.User, token string) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
	ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)
	return r.WithContext(ctx)
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
