package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ProfileCmd shows and edits the current user's profile.
type ProfileCmd struct {
	Show   ProfileShowCmd   `cmd:"" help:"Show your profile"`
	Update ProfileUpdateCmd `cmd:"" help:"Update profile fields"`
}

type ProfileShowCmd struct{}

func (p *ProfileShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	user, err := app.requireUser(ctx, "/profile")
	if err != nil {
		return err
	}

	fmt.Printf("Name:     %s\n", user.DisplayName())
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	if user.Phone != "" {
		fmt.Printf("Phone:    %s\n", user.Phone)
	}
	if user.DOB != "" {
		fmt.Printf("DOB:      %s\n", user.DOB)
	}
	fmt.Printf("Level:    %d\n", user.Level)
	fmt.Printf("Points:   %d\n", user.Points)

	return nil
}

type ProfileUpdateCmd struct {
	FirstName string `help:"First name"`
	LastName  string `help:"Last name"`
	Email     string `help:"Email address"`
	Phone     string `help:"Phone number"`
	DOB       string `help:"Date of birth (YYYY-MM-DD)"`
}

func (p *ProfileUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	user, err := app.requireUser(ctx, "/profile")
	if err != nil {
		return err
	}

	edited := *user
	if p.FirstName != "" {
		edited.FirstName = p.FirstName
	}
	if p.LastName != "" {
		edited.LastName = p.LastName
	}
	if p.Email != "" {
		edited.Email = p.Email
	}
	if p.Phone != "" {
		edited.Phone = p.Phone
	}
	if p.DOB != "" {
		edited.DOB = p.DOB
	}

	updated, err := app.Client.UpdateProfile(ctx, &edited)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	// The session keeps serving the fresh identity; authentication state is
	// untouched.
	app.Session.SetUser(updated)

	fmt.Printf("Profile updated. Hello, %s!\n", updated.DisplayName())
	return nil
}

// PrefsCmd manages local UI preferences. These never leave the machine.
type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" help:"Show stored preferences"`
	Set  PrefsSetCmd  `cmd:"" help:"Set a preference"`
}

var allowedPrefs = []string{"theme", "accent", "reduced-motion"}

type PrefsShowCmd struct{}

func (p *PrefsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	prefs := app.Store.Preferences()
	if len(prefs) == 0 {
		fmt.Println("No preferences set.")
		return nil
	}

	for _, key := range allowedPrefs {
		if value, ok := prefs[key]; ok {
			fmt.Printf("%s = %s\n", key, value)
		}
	}

	return nil
}

type PrefsSetCmd struct {
	Key   string `arg:"" help:"Preference key (theme, accent, reduced-motion)"`
	Value string `arg:"" help:"Preference value"`
}

func (p *PrefsSetCmd) Run(ctx context.Context, globals *Globals) error {
	if !slices.Contains(allowedPrefs, p.Key) {
		return fmt.Errorf("unknown preference %q (valid: %s)", p.Key, strings.Join(allowedPrefs, ", "))
	}

	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if err := app.Store.SetPreference(p.Key, p.Value); err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}

	fmt.Printf("%s = %s\n", p.Key, p.Value)
	return nil
}
