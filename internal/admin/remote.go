package admin

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/config"
)

// RemoteAttempts clears lockouts through the server's admin endpoint, so the
// server's own tracker is the one that forgets the failures.
type RemoteAttempts struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewRemoteAttempts(client *http.Client, baseURL, token string) *RemoteAttempts {
	return &RemoteAttempts{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

func (r *RemoteAttempts) Clear(ctx context.Context, username string) error {
	u := r.baseURL + "/api/admin/lockouts/" + url.PathEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set(common.AdminTokenHeaderName, r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unlock failed: %s; body: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return nil
}

// ServerURL turns the server's listen address into a URL the CLI can call.
// Wildcard hosts become the loopback address.
func ServerURL(addr string) string {
	if strings.Contains(addr, "://") {
		return strings.TrimRight(addr, "/")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// AttemptsFor picks where unlock clears attempts: the shared redis tracker
// when one is configured, otherwise the running server via its admin
// endpoint. It returns nil when neither is available, because a tracker
// private to this process would not affect the server.
func AttemptsFor(cfg *config.Config, client *http.Client, redisTracker func(addr string) AttemptClearer) AttemptClearer {
	switch {
	case cfg.RedisAddr != "":
		return redisTracker(cfg.RedisAddr)
	case cfg.AdminToken != "":
		return NewRemoteAttempts(client, ServerURL(cfg.HTTPAddr), cfg.AdminToken)
	default:
		return nil
	}
}
