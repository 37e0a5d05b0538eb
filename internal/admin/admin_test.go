package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/server/localauth"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	username, email, password string
	err                       error
}

func (f *fakeUsers) Register(_ context.Context, username, email, password string) (*models.User, error) {
	f.username, f.email, f.password = username, email, password
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u-1", Email: email, Credentials: localauth.Credentials{Username: username}}, nil
}

type fakeAttempts struct {
	cleared string
	err     error
}

func (f *fakeAttempts) Clear(_ context.Context, username string) error {
	f.cleared = username
	return f.err
}

type fakeListings struct {
	listing  *models.Listing
	getErr   error
	attached [3]string
}

func (f *fakeListings) Get(_ context.Context, id string) (*models.Listing, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.listing, nil
}

func (f *fakeListings) AttachImage(_ context.Context, id, ownerID, key string) error {
	f.attached = [3]string{id, ownerID, key}
	return nil
}

type fakeImages struct {
	url string
	err error
}

func (f *fakeImages) PresignUpload(context.Context) (string, string, error) {
	return "listings/2024/1/2/k", f.url, f.err
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), err }
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(in string, migrate func(context.Context) error) (*App, *fakeUsers, *fakeAttempts, *bytes.Buffer) {
	u := &fakeUsers{}
	at := &fakeAttempts{}
	var out bytes.Buffer
	if migrate == nil {
		migrate = func(context.Context) error { return nil }
	}
	return NewApp(Services{Migrate: migrate, Users: u, Attempts: at}, strings.NewReader(in), &out), u, at, &out
}

func TestRun_Usage(t *testing.T) {
	a, _, _, out := newTestApp("", nil)
	require.NoError(t, a.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "create-user")

	out.Reset()
	require.NoError(t, a.Run(context.Background(), []string{"help"}))
	assert.Contains(t, out.String(), "unlock <username>")
}

func TestRun_Unknown(t *testing.T) {
	a, _, _, _ := newTestApp("", nil)
	err := a.Run(context.Background(), []string{"drop-all"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestRun_Migrate(t *testing.T) {
	called := false
	a, _, _, out := newTestApp("", func(context.Context) error { called = true; return nil })
	require.NoError(t, a.Run(context.Background(), []string{"migrate"}))
	assert.True(t, called)
	assert.Contains(t, out.String(), "Migrations applied")

	boom := errors.New("boom")
	a, _, _, _ = newTestApp("", func(context.Context) error { return boom })
	assert.ErrorIs(t, a.Run(context.Background(), []string{"migrate"}), boom)
}

func TestRun_CreateUser(t *testing.T) {
	stubPassword(t, "s3cret", nil)

	a, u, _, out := newTestApp("alice\nalice@example.com\n", nil)
	require.NoError(t, a.Run(context.Background(), []string{"create-user"}))

	assert.Equal(t, "alice", u.username)
	assert.Equal(t, "alice@example.com", u.email)
	assert.Equal(t, "s3cret", u.password)
	assert.Contains(t, out.String(), "User alice created (id u-1)")
}

func TestRun_CreateUserErrors(t *testing.T) {
	stubPassword(t, "s3cret", nil)

	a, u, _, _ := newTestApp("alice\n\n", nil)
	u.err = common.ErrorValidation
	assert.ErrorIs(t, a.Run(context.Background(), []string{"create-user"}), common.ErrorValidation)

	a, _, _, _ = newTestApp("", nil)
	assert.ErrorIs(t, a.Run(context.Background(), []string{"create-user"}), io.EOF)

	stubPassword(t, "", errors.New("no tty"))
	a, _, _, _ = newTestApp("alice\nalice@example.com\n", nil)
	assert.EqualError(t, a.Run(context.Background(), []string{"create-user"}), "no tty")
}

func TestRun_Unlock(t *testing.T) {
	a, _, at, out := newTestApp("", nil)
	require.NoError(t, a.Run(context.Background(), []string{"unlock", "alice"}))
	assert.Equal(t, "alice", at.cleared)
	assert.Contains(t, out.String(), "cleared for alice")

	assert.ErrorIs(t, a.Run(context.Background(), []string{"unlock"}), common.ErrorValidation)

	at.err = errors.New("redis down")
	assert.EqualError(t, a.Run(context.Background(), []string{"unlock", "bob"}), "redis down")
}

func TestRun_UploadImage(t *testing.T) {
	var uploaded []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	orig := readFile
	readFile = func(name string) ([]byte, error) {
		if name != "photo.jpg" {
			return nil, errors.New("no such file")
		}
		return []byte("jpeg bytes"), nil
	}
	t.Cleanup(func() { readFile = orig })

	ls := &fakeListings{listing: &models.Listing{ID: "l-1", OwnerID: "u-1"}}
	var out bytes.Buffer
	a := NewApp(Services{Listings: ls, Images: &fakeImages{url: ts.URL + "/bucket/k"}}, strings.NewReader(""), &out)

	require.NoError(t, a.Run(context.Background(), []string{"upload-image", "l-1", "photo.jpg"}))
	assert.Equal(t, []byte("jpeg bytes"), uploaded)
	assert.Equal(t, [3]string{"l-1", "u-1", "listings/2024/1/2/k"}, ls.attached)
	assert.Contains(t, out.String(), "attached to l-1")

	assert.ErrorIs(t, a.Run(context.Background(), []string{"upload-image", "l-1"}), common.ErrorValidation)
	assert.EqualError(t, a.Run(context.Background(), []string{"upload-image", "l-1", "missing.jpg"}), "no such file")

	ls.getErr = common.ErrorNotFound
	assert.ErrorIs(t, a.Run(context.Background(), []string{"upload-image", "l-2", "photo.jpg"}), common.ErrorNotFound)
}

func TestRun_UploadImagePresignFails(t *testing.T) {
	orig := readFile
	readFile = func(string) ([]byte, error) { return []byte("x"), nil }
	t.Cleanup(func() { readFile = orig })

	boom := errors.New("boom")
	ls := &fakeListings{listing: &models.Listing{ID: "l-1", OwnerID: "u-1"}}
	a := NewApp(Services{Listings: ls, Images: &fakeImages{err: boom}}, strings.NewReader(""), io.Discard)

	err := a.Run(context.Background(), []string{"upload-image", "l-1", "photo.jpg"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, ls.attached[0])
}
