package api

import (
	"context"
	"net/http"

	"github.com/edufinai/edufin/internal/models"
)

// Lessons fetches the lesson catalog. The catalog is public and cacheable;
// the gateway controls freshness through cache headers.
func (c *Client) Lessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/api/learning/lessons",
		out:       &lessons,
		cacheable: true,
	})
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

// Lesson fetches a single lesson with the caller's progress.
func (c *Client) Lesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/learning/lessons/" + id,
		out:    &lesson,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

type progressRequest struct {
	Percent int `json:"percent"`
}

// RecordProgress reports lesson completion percentage for the current user.
func (c *Client) RecordProgress(ctx context.Context, lessonID string, percent int) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/learning/lessons/" + lessonID + "/progress",
		body:   progressRequest{Percent: percent},
		authed: true,
	})
}

// Quiz fetches a quiz by ID.
func (c *Client) Quiz(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/learning/quizzes/" + id,
		out:    &quiz,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

type quizSubmission struct {
	Answers map[string]string `json:"answers"`
}

// SubmitQuiz ships answers for grading and returns the gateway's result.
// Grading itself lives in the backend; the client never scores locally.
func (c *Client) SubmitQuiz(ctx context.Context, quizID string, answers map[string]string) (*models.QuizResult, error) {
	var result models.QuizResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/learning/quizzes/" + quizID + "/submit",
		body:   quizSubmission{Answers: answers},
		out:    &result,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
