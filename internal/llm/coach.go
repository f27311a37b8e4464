package llm

import (
	"context"
	"fmt"
	"strings"
)

const coachSystemPrompt = `You are a supportive but honest productivity coach.
You will receive a summary of the user's focus sessions and task progress
for one week. Write a short review: what went well, what to watch out for,
and one concrete suggestion for next week.

Keep it under 120 words. Plain text, no markdown headers, no bullet lists.`

// WeekReport is the coach's input: one week of focus history.
type WeekReport struct {
	WeekStart       string // YYYY-MM-DD
	FocusMinutes    int
	Sessions        int
	CompletedBlocks int
	TasksCompleted  int
	TasksPlanned    int
	DayLines        []string // per-day one-line summaries
}

// WeeklyInsight asks the client for a coaching review of the week.
func WeeklyInsight(ctx context.Context, client Client, report WeekReport) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s\n", report.WeekStart)
	fmt.Fprintf(&b, "Focus time: %d minutes across %d sessions (%d completed without interruption)\n",
		report.FocusMinutes, report.Sessions, report.CompletedBlocks)
	fmt.Fprintf(&b, "Tasks: %d completed of %d planned\n", report.TasksCompleted, report.TasksPlanned)
	for _, line := range report.DayLines {
		fmt.Fprintf(&b, "%s\n", line)
	}

	messages := []Message{
		{Role: "system", Content: coachSystemPrompt},
		{Role: "user", Content: b.String()},
	}

	insight, err := client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("requesting weekly insight: %w", err)
	}
	return strings.TrimSpace(insight), nil
}
