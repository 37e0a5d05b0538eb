// Package admin implements the operator commands: applying migrations,
// creating a user account and clearing a locked-out login.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/common"
	"github.com/dmitrijs2005/wanderlust/internal/netx"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoSharedTracker means neither redis_addr nor admin_token is set, so
	// nothing this process can reach holds the server's attempt counters.
	ErrNoSharedTracker = errors.New("unlock needs redis_addr or admin_token")
)

// UserRegistrar creates accounts.
type UserRegistrar interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
}

// AttemptClearer forgets failed login attempts.
type AttemptClearer interface {
	Clear(ctx context.Context, username string) error
}

// ListingImages looks up listings and points them at uploaded images.
type ListingImages interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
	AttachImage(ctx context.Context, id, ownerID, key string) error
}

// UploadPresigner issues object storage upload URLs.
type UploadPresigner interface {
	PresignUpload(ctx context.Context) (string, string, error)
}

// Test seams.
var (
	getPassword = GetPassword
	readFile    = os.ReadFile
)

type Services struct {
	Migrate  func(ctx context.Context) error
	Users    UserRegistrar
	Attempts AttemptClearer
	Listings ListingImages
	Images   UploadPresigner
}

type App struct {
	Services
	http   *http.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(s Services, in io.Reader, out io.Writer) *App {
	return &App{Services: s, http: &http.Client{Timeout: time.Minute}, reader: bufio.NewReader(in), out: out}
}

const usage = `Usage: admin [flags] <command>

Commands:
  migrate             apply database migrations
  create-user         create an account (prompts for username, email, password)
  unlock <username>   clear failed login attempts
  upload-image <listing-id> <file>
                      upload a listing photo and attach it
`

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	switch args[0] {
	case "help":
		fmt.Fprint(a.out, usage)
		return nil
	case "migrate":
		return a.RunMigrations(ctx)
	case "create-user":
		return a.CreateUser(ctx)
	case "unlock":
		if len(args) < 2 {
			return fmt.Errorf("%w: unlock needs a username", common.ErrorValidation)
		}
		return a.Unlock(ctx, args[1])
	case "upload-image":
		if len(args) < 3 {
			return fmt.Errorf("%w: upload-image needs a listing id and a file", common.ErrorValidation)
		}
		return a.UploadImage(ctx, args[1], args[2])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) RunMigrations(ctx context.Context) error {
	if err := a.Migrate(ctx); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	fmt.Fprintln(a.out, "Migrations applied")
	return nil
}

func (a *App) CreateUser(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.Users.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User %s created (id %s)\n", user.Username, user.ID)
	return nil
}

func (a *App) Unlock(ctx context.Context, username string) error {
	if a.Attempts == nil {
		return ErrNoSharedTracker
	}
	if err := a.Attempts.Clear(ctx, username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Login attempts cleared for %s\n", username)
	return nil
}

// UploadImage sends the file at path to object storage and attaches it to
// the listing on behalf of its owner.
func (a *App) UploadImage(ctx context.Context, listingID, path string) error {
	listing, err := a.Listings.Get(ctx, listingID)
	if err != nil {
		return err
	}

	data, err := readFile(path)
	if err != nil {
		return err
	}

	key, url, err := a.Images.PresignUpload(ctx)
	if err != nil {
		return fmt.Errorf("presign failed: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, a.http, url, data); err != nil {
		return err
	}

	if err := a.Listings.AttachImage(ctx, listing.ID, listing.OwnerID, key); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Image %s attached to %s\n", key, listing.ID)
	return nil
}
