package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdentityToolkit emulates the provider's signUp/signInWithPassword
// endpoints over an in-memory account table.
type fakeIdentityToolkit struct {
	accounts map[string]string // email -> password
	ids      map[string]string // email -> localId
	nextID   int
}

func newFakeIdentityToolkit() *fakeIdentityToolkit {
	return &fakeIdentityToolkit{
		accounts: make(map[string]string),
		ids:      make(map[string]string),
	}
}

func (f *fakeIdentityToolkit) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, exists := f.accounts[req.Email]; exists {
			writeToolkitError(w, "EMAIL_EXISTS")
			return
		}
		if len(req.Password) < 6 {
			writeToolkitError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
			return
		}
		f.nextID++
		id := fmt.Sprintf("uid-%d", f.nextID)
		f.accounts[req.Email] = req.Password
		f.ids[req.Email] = id
		json.NewEncoder(w).Encode(map[string]string{"localId": id, "email": req.Email})
	})
	mux.HandleFunc("/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		password, exists := f.accounts[req.Email]
		if !exists {
			writeToolkitError(w, "EMAIL_NOT_FOUND")
			return
		}
		if password != req.Password {
			writeToolkitError(w, "INVALID_PASSWORD")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"localId": f.ids[req.Email], "email": req.Email})
	})
	return mux
}

func writeToolkitError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": 400, "message": message},
	})
}

func newTestService(t *testing.T) (*Service, *fakeIdentityToolkit) {
	t.Helper()
	toolkit := newFakeIdentityToolkit()
	server := httptest.NewServer(toolkit.handler())
	t.Cleanup(server.Close)
	return NewService(server.URL, "test-api-key", nil, zap.NewNop()), toolkit
}

func TestSignUpThenSignInYieldsSameUserID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "pets@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, created.UserID)
	assert.Equal(t, "pets@example.com", created.Email)

	signedIn, err := svc.SignIn(ctx, "pets@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, signedIn.UserID,
		"sign-in must yield the identifier produced at sign-up")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "pets@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "pets@example.com", "different-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "pets@example.com", "hunter22")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "unknown account", email: "nobody@example.com", password: "hunter22"},
		{name: "bad password", email: "pets@example.com", password: "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials,
				"provider-specific causes must collapse to one generic error")
		})
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SignUp(context.Background(), "pets@example.com", "abc")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutWithoutAdminClient(t *testing.T) {
	svc, _ := newTestService(t)

	// Revocation is best effort; with no admin client sign-out is a no-op.
	assert.NoError(t, svc.SignOut(context.Background(), "uid-1"))
}

func TestProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // immediately: the endpoint is gone
	svc := NewService(server.URL, "test-api-key", nil, zap.NewNop())

	_, err := svc.SignIn(context.Background(), "pets@example.com", "hunter22")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials,
		"transport failures are not credential failures")
}
