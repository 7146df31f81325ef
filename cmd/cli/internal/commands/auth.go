package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edufinai/edufin/internal/models"
	"github.com/edufinai/edufin/internal/session"
)

// LoginCmd logs in with credentials or a pre-obtained token.
type LoginCmd struct {
	Username string `help:"Account username"`
	Password string `help:"Account password" env:"EDUFIN_PASSWORD"`
	Token    string `help:"Use a pre-obtained bearer token instead of credentials"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	result := app.Session.Login(ctx, session.Credentials{
		Username: l.Username,
		Password: l.Password,
		Token:    l.Token,
	})
	if !result.Success {
		return errors.New(result.Error)
	}

	snap := app.Session.Snapshot()
	if snap.User != nil {
		fmt.Printf("Logged in as %s.\n", snap.User.DisplayName())
	} else {
		fmt.Println("Logged in.")
	}
	return nil
}

// LogoutCmd clears the local session and best-effort invalidates the token
// server-side.
type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if !app.Config.AuthEnabled {
		fmt.Println("Authentication is disabled; nothing to log out of.")
		return nil
	}

	app.Session.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

// RegisterCmd creates an account and logs in.
type RegisterCmd struct {
	Username  string `help:"Account username" required:""`
	Password  string `help:"Account password" required:"" env:"EDUFIN_PASSWORD"`
	Email     string `help:"Email address" required:""`
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	DOB       string `help:"Date of birth (YYYY-MM-DD)"`
	Phone     string `help:"Phone number"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	result := app.Session.Register(ctx, models.Registration{
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		DOB:       r.DOB,
		Phone:     r.Phone,
	})
	if !result.Success {
		return errors.New(result.Error)
	}

	fmt.Printf("Welcome, %s! Your account is ready.\n", r.Username)
	return nil
}

// WhoamiCmd shows the resolved session.
type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	app.Session.Resolve(ctx)
	snap := app.Session.Snapshot()

	if !snap.IsAuthenticated {
		fmt.Println("Not signed in. Run 'edufin login'.")
		return nil
	}

	user := snap.User
	fmt.Printf("Name:      %s\n", user.DisplayName())
	fmt.Printf("Username:  %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("Email:     %s\n", user.Email)
	}
	if len(user.Roles) > 0 {
		fmt.Printf("Roles:     %s\n", strings.Join(models.RoleNames(user.Roles), ", "))
	}
	if snap.Bypassed {
		fmt.Println("Mode:      bypass (no real credentials)")
		return nil
	}

	if fp := app.Store.TokenFingerprint(); fp != "" {
		fmt.Printf("Token:     %s\n", fp)
	}
	if info, err := session.InspectToken(app.Session.Token()); err == nil && !info.ExpiresAt.IsZero() {
		fmt.Printf("Expires:   %s\n", info.ExpiresAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// BypassCmd enables developer bypass mode.
type BypassCmd struct{}

func (b *BypassCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	app.Session.EnableBypass()
	fmt.Println("Bypass mode enabled. Run 'edufin logout' to leave it.")
	return nil
}
