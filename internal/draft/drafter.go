package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mgilabert/focal/internal/llm"
	"github.com/mgilabert/focal/internal/task"
)

// ErrMaxRetriesExceeded is returned when all retry attempts fail validation.
var ErrMaxRetriesExceeded = errors.New("draft failed validation after all retries")

const defaultMaxRetries = 2

// Drafter orchestrates AI project drafting: it requests drafts, validates
// them, feeds errors back for retries, and persists accepted drafts with
// their conversation transcript.
type Drafter struct {
	client     llm.Client
	repo       task.Repository
	maxRetries int

	// conversation accumulated across Draft calls, persisted on Save
	history []llm.Message
}

// New creates a Drafter.
func New(client llm.Client, repo task.Repository) *Drafter {
	return &Drafter{
		client:     client,
		repo:       repo,
		maxRetries: defaultMaxRetries,
	}
}

// Draft asks the LLM for a project plan, validating and retrying with error
// feedback. Calling Draft again refines the previous draft: the conversation
// so far is carried into the new request.
func (d *Drafter) Draft(ctx context.Context, description string) (*llm.ProjectDraft, error) {
	messages := d.history
	var lastValidation ValidationResult

	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		proposal, err := llm.RequestDraft(ctx, d.client, description, messages)
		if err != nil {
			return nil, fmt.Errorf("drafting (attempt %d): %w", attempt+1, err)
		}

		lastValidation = ValidateDraft(proposal)
		if lastValidation.Valid {
			d.recordTurn(description, proposal)
			return proposal, nil
		}

		// Feed the invalid draft and the errors back for the next attempt.
		respJSON, _ := json.Marshal(proposal)
		messages = append(messages,
			llm.Message{Role: "user", Content: description},
			llm.Message{Role: "assistant", Content: string(respJSON)},
		)
		description = lastValidation.FormatErrors()
	}

	return nil, fmt.Errorf("%w: %s", ErrMaxRetriesExceeded, lastValidation.FormatErrors())
}

// recordTurn appends the accepted exchange to the conversation history.
func (d *Drafter) recordTurn(userInput string, proposal *llm.ProjectDraft) {
	respJSON, _ := json.Marshal(proposal)
	d.history = append(d.history,
		llm.Message{Role: "user", Content: userInput},
		llm.Message{Role: "assistant", Content: string(respJSON)},
	)
}

// Reset discards the accumulated conversation, starting a fresh draft.
func (d *Drafter) Reset() {
	d.history = nil
}

// Save persists an accepted draft as a new project. Stages become container
// tasks with their tasks as children, and the drafting conversation is
// stored as the project's transcript.
func (d *Drafter) Save(ctx context.Context, proposal *llm.ProjectDraft) (*task.Project, error) {
	if result := ValidateDraft(proposal); !result.Valid {
		return nil, fmt.Errorf("saving draft: %s", result.Errors[0].String())
	}

	p, err := task.NewProject(proposal.Name, proposal.Description)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	for _, stage := range proposal.Stages {
		container, err := task.New(stage.Title, 0)
		if err != nil {
			return nil, fmt.Errorf("creating stage %q: %w", stage.Title, err)
		}
		for _, dt := range stage.Tasks {
			child, err := task.New(dt.Title, dt.EstimatedMinutes)
			if err != nil {
				return nil, fmt.Errorf("creating task %q: %w", dt.Title, err)
			}
			container.Children = append(container.Children, child)
		}
		p.Tasks = append(p.Tasks, container)
	}

	if err := d.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("persisting project: %w", err)
	}

	for _, msg := range d.history {
		err := d.repo.AppendChatMessage(ctx, &task.ChatMessage{
			ProjectID: p.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("recording transcript: %w", err)
		}
	}

	d.Reset()
	return p, nil
}

// BreakdownTask asks the LLM to split one task into subtasks and attaches
// the accepted children beneath it.
func (d *Drafter) BreakdownTask(ctx context.Context, projectID, taskID string) ([]*task.Task, error) {
	p, err := d.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	target := task.Find(p.Tasks, taskID)
	if target == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
	}

	var lastValidation ValidationResult
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		b, err := llm.RequestBreakdown(ctx, d.client, target.Title, target.EstimatedMinutes)
		if err != nil {
			return nil, fmt.Errorf("breaking down task (attempt %d): %w", attempt+1, err)
		}

		lastValidation = ValidateBreakdown(b)
		if !lastValidation.Valid {
			continue
		}

		forest := p.Tasks
		children := make([]*task.Task, 0, len(b.Tasks))
		for _, dt := range b.Tasks {
			child, err := task.New(dt.Title, dt.EstimatedMinutes)
			if err != nil {
				return nil, fmt.Errorf("creating subtask %q: %w", dt.Title, err)
			}
			forest = task.Attach(forest, taskID, child)
			children = append(children, child)
		}

		if err := d.repo.SaveTasks(ctx, projectID, forest); err != nil {
			return nil, fmt.Errorf("persisting breakdown: %w", err)
		}
		return children, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMaxRetriesExceeded, lastValidation.FormatErrors())
}
