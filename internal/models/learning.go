package models

import "time"

// Lesson is a catalog entry in the learning flow.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	DurationMin int    `json:"durationMinutes,omitempty"`
	QuizID      string `json:"quizId,omitempty"`
	Progress    int    `json:"progress,omitempty"` // percent completed, 0-100
}

// Quiz is a set of questions attached to a lesson. Grading happens on the
// gateway; the client only ships answers and renders the result.
type Quiz struct {
	ID        string     `json:"id"`
	LessonID  string     `json:"lessonId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
}

// QuizResult is the gateway's grade for a submission.
type QuizResult struct {
	QuizID       string `json:"quizId"`
	Score        int    `json:"score"`
	MaxScore     int    `json:"maxScore"`
	Passed       bool   `json:"passed"`
	PointsEarned int    `json:"pointsEarned,omitempty"`
}

// Challenge is a gamification event users can join.
type Challenge struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Participants int       `json:"participants,omitempty"`
	Joined       bool      `json:"joined,omitempty"`
}

// LeaderboardEntry is one row of a standings table.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Level    int    `json:"level,omitempty"`
}

// Conversation groups chat messages with the AI tutor.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Message is a single chat turn. Answers come back from the AI service
// behind the gateway.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Notification is an item in the notification center.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ModerationItem is a piece of creator content awaiting review.
type ModerationItem struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Title       string    `json:"title"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}
