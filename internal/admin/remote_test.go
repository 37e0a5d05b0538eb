package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteAttempts_Clear(t *testing.T) {
	var gotMethod, gotPath, gotToken string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		gotToken = r.Header.Get(common.AdminTokenHeaderName)
		if gotToken != "op-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid admin token"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	r := NewRemoteAttempts(ts.Client(), ts.URL+"/", "op-token")
	require.NoError(t, r.Clear(context.Background(), "al ice"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/admin/lockouts/al%20ice", gotPath)
	assert.Equal(t, "op-token", gotToken)

	r = NewRemoteAttempts(ts.Client(), ts.URL, "wrong")
	err := r.Clear(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unlock failed: 401")
	assert.Contains(t, err.Error(), "invalid admin token")
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://127.0.0.1:8080"},
		{"0.0.0.0:8080", "http://127.0.0.1:8080"},
		{"[::]:8080", "http://127.0.0.1:8080"},
		{"api.internal:9000", "http://api.internal:9000"},
		{"https://wanderlust.example/", "https://wanderlust.example"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, ServerURL(tt.addr))
		})
	}
}

func TestAttemptsFor(t *testing.T) {
	shared := &fakeAttempts{}
	dial := func(addr string) AttemptClearer {
		assert.Equal(t, "redis:6379", addr)
		return shared
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	assert.Nil(t, AttemptsFor(cfg, http.DefaultClient, dial), "no shared tracker under the default config")

	cfg.AdminToken = "op-token"
	remote, ok := AttemptsFor(cfg, http.DefaultClient, dial).(*RemoteAttempts)
	require.True(t, ok)
	assert.Equal(t, "http://127.0.0.1:8080", remote.baseURL)

	cfg.RedisAddr = "redis:6379"
	assert.Same(t, shared, AttemptsFor(cfg, http.DefaultClient, dial))
}

func TestUnlock_NoSharedTracker(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a, _, _, out := newTestApp("", nil)
	a.Attempts = AttemptsFor(cfg, http.DefaultClient, nil)

	err := a.Run(context.Background(), []string{"unlock", "alice"})
	assert.ErrorIs(t, err, ErrNoSharedTracker)
	assert.Empty(t, out.String(), "nothing may claim the lockout was cleared")
}

// The server's lockout is lifted when the CLI goes through the admin
// endpoint, even though both processes keep attempts in memory.
func TestUnlock_ThroughServerEndpoint(t *testing.T) {
	server := &fakeAttempts{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = server.Clear(r.Context(), r.URL.Path[len("/api/admin/lockouts/"):])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = ts.URL
	cfg.AdminToken = "op-token"

	a, _, _, out := newTestApp("", nil)
	a.Attempts = AttemptsFor(cfg, ts.Client(), nil)

	require.NoError(t, a.Run(context.Background(), []string{"unlock", "alice"}))
	assert.Equal(t, "alice", server.cleared)
	assert.Contains(t, out.String(), "cleared for alice")
}
