package task

// Stats holds progress statistics for a task forest. Only leaf tasks are
// counted: a task with children is a container whose own duration and status
// do not contribute to totals.
type Stats struct {
	TotalLeaves      int
	CompletedLeaves  int
	TotalMinutes     int
	CompletedMinutes int
}

// CompletionPercent returns the percentage of leaf tasks completed.
func (s Stats) CompletionPercent() int {
	if s.TotalLeaves == 0 {
		return 0
	}
	return (s.CompletedLeaves * 100) / s.TotalLeaves
}

// ForestStats calculates leaf-only statistics for a task forest.
func ForestStats(forest []*Task) Stats {
	var s Stats
	Walk(forest, func(t *Task) bool {
		if !t.IsLeaf() {
			return true
		}
		s.TotalLeaves++
		s.TotalMinutes += t.EstimatedMinutes
		if t.IsCompleted() {
			s.CompletedLeaves++
			s.CompletedMinutes += t.EstimatedMinutes
		}
		return true
	})
	return s
}

// Stats calculates leaf-only statistics for the project.
func (p *Project) Stats() Stats {
	return ForestStats(p.Tasks)
}
