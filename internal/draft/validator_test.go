package draft

import (
	"strings"
	"testing"

	"github.com/mgilabert/focal/internal/llm"
)

func TestValidateDraft(t *testing.T) {
	valid := func() *llm.ProjectDraft {
		return &llm.ProjectDraft{
			Name: "Thesis",
			Stages: []llm.DraftStage{
				{Title: "Research", Tasks: []llm.DraftTask{
					{Title: "Read papers", EstimatedMinutes: 90},
				}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*llm.ProjectDraft)
		wantErr string
	}{
		{
			name:   "valid draft",
			mutate: func(*llm.ProjectDraft) {},
		},
		{
			name:    "empty name",
			mutate:  func(d *llm.ProjectDraft) { d.Name = "" },
			wantErr: "project name",
		},
		{
			name:    "no stages",
			mutate:  func(d *llm.ProjectDraft) { d.Stages = nil },
			wantErr: "at least one stage",
		},
		{
			name:    "empty stage title",
			mutate:  func(d *llm.ProjectDraft) { d.Stages[0].Title = "" },
			wantErr: "stage title",
		},
		{
			name:    "stage without tasks",
			mutate:  func(d *llm.ProjectDraft) { d.Stages[0].Tasks = nil },
			wantErr: "at least one task",
		},
		{
			name:    "empty task title",
			mutate:  func(d *llm.ProjectDraft) { d.Stages[0].Tasks[0].Title = "" },
			wantErr: "task title",
		},
		{
			name:    "estimate below floor",
			mutate:  func(d *llm.ProjectDraft) { d.Stages[0].Tasks[0].EstimatedMinutes = 10 },
			wantErr: "at least 15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)

			result := ValidateDraft(d)
			if tt.wantErr == "" {
				if !result.Valid {
					t.Errorf("expected valid, got errors: %v", result.Errors)
				}
				return
			}
			if result.Valid {
				t.Fatal("expected invalid")
			}
			if !strings.Contains(result.FormatErrors(), tt.wantErr) {
				t.Errorf("errors %q missing %q", result.FormatErrors(), tt.wantErr)
			}
		})
	}
}

func TestValidateBreakdown(t *testing.T) {
	empty := ValidateBreakdown(&llm.Breakdown{})
	if empty.Valid {
		t.Error("empty breakdown should be invalid")
	}

	good := ValidateBreakdown(&llm.Breakdown{Tasks: []llm.DraftTask{
		{Title: "Outline", EstimatedMinutes: 30},
	}})
	if !good.Valid {
		t.Errorf("expected valid, got errors: %v", good.Errors)
	}

	bad := ValidateBreakdown(&llm.Breakdown{Tasks: []llm.DraftTask{
		{Title: "", EstimatedMinutes: 5},
	}})
	if bad.Valid || len(bad.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", bad.Errors)
	}
}

func TestFormatErrors(t *testing.T) {
	r := ValidationResult{}
	r.add(-1, -1, "project name must not be empty")
	r.add(1, 2, "task title must not be empty")

	out := r.FormatErrors()
	if !strings.Contains(out, "project name must not be empty") {
		t.Errorf("missing draft-level error:\n%s", out)
	}
	if !strings.Contains(out, "Stage 1, task 2") {
		t.Errorf("missing positional prefix:\n%s", out)
	}
	if !strings.Contains(out, "valid JSON") {
		t.Errorf("missing retry instruction:\n%s", out)
	}
}
