// Package draft provides high-level orchestration for AI-assisted project
// planning: requesting drafts, validating them, and persisting accepted ones.
package draft

import (
	"fmt"

	"github.com/mgilabert/focal/internal/llm"
)

// ValidationError represents a single validation error for a draft.
type ValidationError struct {
	Stage   int    // Index of the stage, -1 for draft-level errors
	Task    int    // Index of the task within the stage, -1 for stage-level errors
	Message string // Human-readable error message
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	switch {
	case e.Stage < 0:
		return e.Message
	case e.Task < 0:
		return fmt.Sprintf("Stage %d: %s", e.Stage, e.Message)
	default:
		return fmt.Sprintf("Stage %d, task %d: %s", e.Stage, e.Task, e.Message)
	}
}

// ValidationResult contains the result of validating a draft.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns a formatted string of all validation errors for LLM feedback.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}

	result := "Your response had these errors:\n"
	for _, e := range r.Errors {
		result += fmt.Sprintf("- %s\n", e.String())
	}
	result += "\nPlease correct these issues and respond again with valid JSON."
	return result
}

func (r *ValidationResult) add(stage, task int, msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Stage: stage, Task: task, Message: msg})
}

// ValidateDraft checks an LLM project draft for structural validity.
func ValidateDraft(d *llm.ProjectDraft) ValidationResult {
	result := ValidationResult{Valid: true}

	if d.Name == "" {
		result.add(-1, -1, "project name must not be empty")
	}
	if len(d.Stages) == 0 {
		result.add(-1, -1, "draft must contain at least one stage")
	}

	for i, stage := range d.Stages {
		if stage.Title == "" {
			result.add(i, -1, "stage title must not be empty")
		}
		if len(stage.Tasks) == 0 {
			result.add(i, -1, "stage must contain at least one task")
		}
		for j, t := range stage.Tasks {
			validateDraftTask(&result, i, j, t)
		}
	}

	return result
}

// ValidateBreakdown checks an LLM task breakdown for structural validity.
func ValidateBreakdown(b *llm.Breakdown) ValidationResult {
	result := ValidationResult{Valid: true}

	if len(b.Tasks) == 0 {
		result.add(-1, -1, "breakdown must contain at least one task")
	}
	for j, t := range b.Tasks {
		validateDraftTask(&result, 0, j, t)
	}

	return result
}

func validateDraftTask(result *ValidationResult, stage, index int, t llm.DraftTask) {
	if t.Title == "" {
		result.add(stage, index, "task title must not be empty")
	}
	if t.EstimatedMinutes < 15 {
		result.add(stage, index, fmt.Sprintf("estimated_minutes must be at least 15, got %d", t.EstimatedMinutes))
	}
}
