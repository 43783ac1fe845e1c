package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/client"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/config"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/services"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/client/session"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/filex"
	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	api    client.Client

	authService services.AuthService
	otpService  services.OTPService
	roster      *services.Roster
	schedule    *services.Schedule
	store       *session.Store

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local state database and builds the API client and
// services described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(c.StateDBPath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.StateDBPath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, client.Options{
		Timeout:        c.RequestTimeout,
		BreakerTimeout: c.BreakerTimeout,
		Logger:         log,
	})

	return newApp(c, log, db, api, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, db *sql.DB, api client.Client, reader *bufio.Reader, out io.Writer) *App {
	store := session.NewStore(db)
	as := services.NewAuthService(api, store, log)

	return &App{
		config:      c,
		log:         log,
		db:          db,
		api:         api,
		authService: as,
		otpService:  services.NewOTPService(api, store, as, log),
		roster:      services.NewRoster(api, store, log),
		store:       store,
		reader:      reader,
		out:         out,
	}
}

// Run resumes pending OTP flows and serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.otpService.Resume(ctx); err != nil {
		a.log.Warn(ctx, "resume pending otp flows", "error", err)
	}

	a.println("Welcome to TrackMate CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	if a.schedule != nil {
		a.schedule.Close()
	}
	a.roster.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	_, ok, err := a.authService.Identity(context.Background())
	return err == nil && ok
}

// status is shown in the prompt: the user id, the open schedule and
// whether the API circuit is open.
func (a *App) status() string {
	s := ""
	if id, ok, err := a.authService.Identity(context.Background()); err == nil && ok {
		if id.UserID != "" {
			s = id.UserID
		} else {
			s = "logged in"
		}
	}
	if a.schedule != nil {
		s = joinStatus(s, "schedule:"+a.schedule.EmployeeID())
	}
	if !a.authService.Available() {
		s = joinStatus(s, "offline")
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func joinStatus(s, part string) string {
	if s == "" {
		return part
	}
	return s + " " + part
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail reports err to the user and returns it. The message is the server's
// when it sent one and fallback otherwise.
func (a *App) fail(err error, fallback string) error {
	a.println("Error:", common.UserMessage(err, fallback))
	return err
}
