package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// LessonsCmd browses the lesson catalog.
type LessonsCmd struct {
	List     LessonsListCmd     `cmd:"" help:"List the lesson catalog"`
	Show     LessonsShowCmd     `cmd:"" help:"Show one lesson"`
	Progress LessonsProgressCmd `cmd:"" help:"Record lesson progress"`
}

type LessonsListCmd struct{}

func (l *LessonsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/lessons"); err != nil {
		return err
	}

	lessons, err := app.Client.Lessons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list lessons: %w", err)
	}

	if len(lessons) == 0 {
		fmt.Println("No lessons available yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTOPIC\tDIFFICULTY\tPROGRESS")
	for _, lesson := range lessons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n",
			lesson.ID, lesson.Title, lesson.Topic, lesson.Difficulty, lesson.Progress)
	}
	w.Flush()

	return nil
}

type LessonsShowCmd struct {
	ID string `arg:"" help:"Lesson ID"`
}

func (l *LessonsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/lessons/"+l.ID); err != nil {
		return err
	}

	lesson, err := app.Client.Lesson(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch lesson: %w", err)
	}

	fmt.Printf("Title:      %s\n", lesson.Title)
	if lesson.Summary != "" {
		fmt.Printf("Summary:    %s\n", lesson.Summary)
	}
	if lesson.Topic != "" {
		fmt.Printf("Topic:      %s\n", lesson.Topic)
	}
	if lesson.DurationMin > 0 {
		fmt.Printf("Duration:   %d min\n", lesson.DurationMin)
	}
	fmt.Printf("Progress:   %d%%\n", lesson.Progress)
	if lesson.QuizID != "" {
		fmt.Printf("Quiz:       %s (edufin quiz show %s)\n", lesson.QuizID, lesson.QuizID)
	}

	return nil
}

type LessonsProgressCmd struct {
	ID      string `arg:"" help:"Lesson ID"`
	Percent int    `arg:"" help:"Completion percentage (0-100)"`
}

func (l *LessonsProgressCmd) Run(ctx context.Context, globals *Globals) error {
	if l.Percent < 0 || l.Percent > 100 {
		return fmt.Errorf("percent must be between 0 and 100, got %d", l.Percent)
	}

	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/lessons/"+l.ID); err != nil {
		return err
	}

	if err := app.Client.RecordProgress(ctx, l.ID, l.Percent); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}

	fmt.Printf("Progress for lesson %s set to %d%%.\n", l.ID, l.Percent)
	return nil
}

// QuizCmd takes and submits quizzes.
type QuizCmd struct {
	Show   QuizShowCmd   `cmd:"" help:"Show a quiz's questions"`
	Submit QuizSubmitCmd `cmd:"" help:"Submit answers for grading"`
}

type QuizShowCmd struct {
	ID string `arg:"" help:"Quiz ID"`
}

func (q *QuizShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/quizzes/"+q.ID); err != nil {
		return err
	}

	quiz, err := app.Client.Quiz(ctx, q.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch quiz: %w", err)
	}

	fmt.Printf("%s\n\n", quiz.Title)
	for i, question := range quiz.Questions {
		fmt.Printf("%d. [%s] %s\n", i+1, question.ID, question.Prompt)
		for j, choice := range question.Choices {
			fmt.Printf("   %c) %s\n", 'a'+j, choice)
		}
	}
	fmt.Printf("\nSubmit with: edufin quiz submit %s <question>=<answer> ...\n", quiz.ID)

	return nil
}

type QuizSubmitCmd struct {
	ID      string   `arg:"" help:"Quiz ID"`
	Answers []string `arg:"" help:"Answers as <question>=<choice> pairs"`
}

func (q *QuizSubmitCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/quizzes/"+q.ID); err != nil {
		return err
	}

	answers := make(map[string]string, len(q.Answers))
	for _, pair := range q.Answers {
		question, choice, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid answer %q, expected <question>=<choice>", pair)
		}
		answers[question] = choice
	}

	result, err := app.Client.SubmitQuiz(ctx, q.ID, answers)
	if err != nil {
		return fmt.Errorf("failed to submit quiz: %w", err)
	}

	verdict := "Not passed"
	if result.Passed {
		verdict = "Passed"
	}
	fmt.Printf("%s: %d/%d", verdict, result.Score, result.MaxScore)
	if result.PointsEarned > 0 {
		fmt.Printf(" (+%d points)", result.PointsEarned)
	}
	fmt.Println()

	return nil
}
