package llm

import (
	"context"
	"fmt"
	"strings"
)

const draftSystemPrompt = `You are a project planning assistant for a personal productivity app.
The user will describe a goal or project. Break it down into stages, each
containing concrete tasks with time estimates.

Rules:
- Produce between 2 and 6 stages.
- Every stage needs at least one task.
- Estimate each task in minutes, using 15-minute increments (minimum 15).
- Keep titles short and actionable.
- Do not nest tasks inside tasks; the hierarchy is stages containing tasks.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "name": "string",
  "description": "string",
  "stages": [
    {
      "title": "string",
      "tasks": [
        {"title": "string", "estimated_minutes": 60}
      ]
    }
  ],
  "notes": ["string"]
}`

const breakdownSystemPrompt = `You are a project planning assistant for a personal productivity app.
The user will give you a single task. Break it into smaller subtasks with
time estimates.

Rules:
- Produce between 2 and 6 subtasks.
- Estimate each subtask in minutes, using 15-minute increments (minimum 15).
- The subtask estimates should roughly add up to the original estimate when one is given.
- Keep titles short and actionable.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "tasks": [
    {"title": "string", "estimated_minutes": 30}
  ]
}`

// ProjectDraft is the LLM's proposed plan for a new project.
type ProjectDraft struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Stages      []DraftStage `json:"stages"`
	Notes       []string     `json:"notes"`
}

// DraftStage groups related draft tasks.
type DraftStage struct {
	Title string      `json:"title"`
	Tasks []DraftTask `json:"tasks"`
}

// DraftTask is one proposed task with an estimate.
type DraftTask struct {
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// Breakdown is the LLM's proposed split of a single task.
type Breakdown struct {
	Tasks []DraftTask `json:"tasks"`
}

// RequestDraft asks the client for a project plan. history carries earlier
// turns of the conversation so refinements build on prior drafts.
func RequestDraft(ctx context.Context, client Client, description string, history []Message) (*ProjectDraft, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: draftSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: description})

	var draft ProjectDraft
	if err := client.ChatJSON(ctx, messages, &draft); err != nil {
		return nil, fmt.Errorf("requesting project draft: %w", err)
	}
	return &draft, nil
}

// RequestBreakdown asks the client to split one task into subtasks.
func RequestBreakdown(ctx context.Context, client Client, title string, estimatedMinutes int) (*Breakdown, error) {
	prompt := fmt.Sprintf("Task: %s", title)
	if estimatedMinutes > 0 {
		prompt += fmt.Sprintf(" (estimated %d minutes)", estimatedMinutes)
	}

	messages := []Message{
		{Role: "system", Content: breakdownSystemPrompt},
		{Role: "user", Content: prompt},
	}

	var b Breakdown
	if err := client.ChatJSON(ctx, messages, &b); err != nil {
		return nil, fmt.Errorf("requesting task breakdown: %w", err)
	}
	return &b, nil
}

// TotalMinutes sums the estimates across all stages.
func (d *ProjectDraft) TotalMinutes() int {
	total := 0
	for _, stage := range d.Stages {
		for _, t := range stage.Tasks {
			total += t.EstimatedMinutes
		}
	}
	return total
}

// Summary renders a short human-readable outline of the draft.
func (d *ProjectDraft) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d min total)\n", d.Name, d.TotalMinutes())
	for _, stage := range d.Stages {
		fmt.Fprintf(&b, "  %s\n", stage.Title)
		for _, t := range stage.Tasks {
			fmt.Fprintf(&b, "    - %s (%d min)\n", t.Title, t.EstimatedMinutes)
		}
	}
	return b.String()
}
