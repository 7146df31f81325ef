package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/edufinai/edufin/internal/guard"
	"github.com/edufinai/edufin/internal/models"
)

// AdminCmd groups administrative operations. Every subcommand passes the
// admin or moderator role guard before touching the gateway; the gateway
// enforces the same roles server-side.
type AdminCmd struct {
	Users      AdminUsersCmd      `cmd:"" help:"List all users"`
	Roles      AdminRolesCmd      `cmd:"" help:"Replace a user's roles"`
	Moderation AdminModerationCmd `cmd:"" help:"Review the moderation queue"`
}

type AdminUsersCmd struct{}

func (a *AdminUsersCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireRole(ctx, guard.Admin(app.Config.AuthEnabled), "/admin/users"); err != nil {
		return err
	}

	users, err := app.Client.AdminUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLES")
	for _, user := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			user.ID, user.Username, user.DisplayName(), user.Email, strings.Join(models.RoleNames(user.Roles), ","))
	}
	w.Flush()

	return nil
}

type AdminRolesCmd struct {
	User  string   `arg:"" help:"User ID"`
	Roles []string `arg:"" help:"New role set, e.g. LEARNER CREATOR"`
}

func (a *AdminRolesCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireRole(ctx, guard.Admin(app.Config.AuthEnabled), "/admin/users"); err != nil {
		return err
	}

	if err := app.Client.SetUserRoles(ctx, a.User, a.Roles); err != nil {
		return fmt.Errorf("failed to set roles: %w", err)
	}

	fmt.Printf("Roles for %s set to %s.\n", a.User, strings.Join(a.Roles, ", "))
	return nil
}

// AdminModerationCmd reviews creator content.
type AdminModerationCmd struct {
	List    ModerationListCmd    `cmd:"" help:"List items awaiting review"`
	Approve ModerationResolveCmd `cmd:"" help:"Approve an item"`
	Reject  ModerationRejectCmd  `cmd:"" help:"Reject an item"`
}

type ModerationListCmd struct{}

func (m *ModerationListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireRole(ctx, guard.Moderator(app.Config.AuthEnabled), "/moderation"); err != nil {
		return err
	}

	items, err := app.Client.ModerationQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch moderation queue: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("The moderation queue is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tBY\tSUBMITTED")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.ContentType, item.Title, item.SubmittedBy, item.SubmittedAt.Format("2006-01-02"))
	}
	w.Flush()

	return nil
}

type ModerationResolveCmd struct {
	ID string `arg:"" help:"Item ID"`
}

func (m *ModerationResolveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireRole(ctx, guard.Moderator(app.Config.AuthEnabled), "/moderation"); err != nil {
		return err
	}

	if err := app.Client.ResolveModeration(ctx, m.ID, true, ""); err != nil {
		return fmt.Errorf("failed to approve item: %w", err)
	}

	fmt.Printf("Item %s approved.\n", m.ID)
	return nil
}

type ModerationRejectCmd struct {
	ID   string `arg:"" help:"Item ID"`
	Note string `help:"Reason shown to the creator"`
}

func (m *ModerationRejectCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireRole(ctx, guard.Moderator(app.Config.AuthEnabled), "/moderation"); err != nil {
		return err
	}

	if err := app.Client.ResolveModeration(ctx, m.ID, false, m.Note); err != nil {
		return fmt.Errorf("failed to reject item: %w", err)
	}

	fmt.Printf("Item %s rejected.\n", m.ID)
	return nil
}
