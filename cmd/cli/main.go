package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/edufinai/edufin/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login         commands.LoginCmd         `cmd:"" help:"Log in to the gateway"`
		Logout        commands.LogoutCmd        `cmd:"" help:"Log out and clear local session state"`
		Register      commands.RegisterCmd      `cmd:"" help:"Create an account and log in"`
		Whoami        commands.WhoamiCmd        `cmd:"" help:"Show the current session"`
		Bypass        commands.BypassCmd        `cmd:"" help:"Enable developer bypass mode"`
		Lessons       commands.LessonsCmd       `cmd:"" help:"Browse the lesson catalog"`
		Quiz          commands.QuizCmd          `cmd:"" help:"Take and submit quizzes"`
		Challenges    commands.ChallengesCmd    `cmd:"" help:"List and join challenges"`
		Leaderboard   commands.LeaderboardCmd   `cmd:"" help:"Show standings"`
		Chat          commands.ChatCmd          `cmd:"" help:"Chat with the AI tutor"`
		Notifications commands.NotificationsCmd `cmd:"" help:"Manage notifications"`
		Profile       commands.ProfileCmd       `cmd:"" help:"Show and edit your profile"`
		Prefs         commands.PrefsCmd         `cmd:"" help:"Show and set UI preferences"`
		Admin         commands.AdminCmd         `cmd:"" help:"Administrative operations"`

		Debug    bool   `help:"Enable debug mode."`
		Server   string `help:"Gateway URL override."`
		AuthOff  bool   `name:"auth-off" help:"Enable bypass mode; persists until logout."`
		StateDir string `name:"state-dir" help:"Custom session state directory."`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Server:   cli.Server,
		AuthOff:  cli.AuthOff,
		StateDir: cli.StateDir,
		Version:  version,
	})
	cmd.FatalIfErrorf(err)
}
