package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// ChallengesCmd lists and joins challenges.
type ChallengesCmd struct {
	List ChallengesListCmd `cmd:"" help:"List active challenges"`
	Join ChallengesJoinCmd `cmd:"" help:"Join a challenge"`
}

type ChallengesListCmd struct{}

func (c *ChallengesListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/challenges"); err != nil {
		return err
	}

	challenges, err := app.Client.Challenges(ctx)
	if err != nil {
		return fmt.Errorf("failed to list challenges: %w", err)
	}

	if len(challenges) == 0 {
		fmt.Println("No active challenges.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tENDS\tPARTICIPANTS\tJOINED")
	for _, challenge := range challenges {
		joined := ""
		if challenge.Joined {
			joined = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			challenge.ID, challenge.Name, challenge.EndsAt.Format("2006-01-02"), challenge.Participants, joined)
	}
	w.Flush()

	return nil
}

type ChallengesJoinCmd struct {
	ID string `arg:"" help:"Challenge ID"`
}

func (c *ChallengesJoinCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/challenges/"+c.ID); err != nil {
		return err
	}

	if err := app.Client.JoinChallenge(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to join challenge: %w", err)
	}

	fmt.Printf("Joined challenge %s. Good luck!\n", c.ID)
	return nil
}

// LeaderboardCmd shows standings.
type LeaderboardCmd struct {
	Challenge string `help:"Challenge ID for per-challenge standings; empty for the global board"`
	Limit     int    `help:"Number of rows" default:"20"`
}

func (l *LeaderboardCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/leaderboard"); err != nil {
		return err
	}

	entries, err := app.Client.Leaderboard(ctx, l.Challenge, l.Limit)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("The leaderboard is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tPOINTS\tLEVEL")
	for _, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", entry.Rank, entry.Username, entry.Points, entry.Level)
	}
	w.Flush()

	return nil
}
