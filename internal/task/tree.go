package task

import "time"

// Tree operations are pure: they take a snapshot of a task forest and return
// a new forest, rebuilding the path from root to the mutated node. Callers
// replace the previous snapshot with the returned one; nothing is mutated in
// place, so readers holding the old snapshot never observe partial updates.

// Update describes a partial change to a task. Nil fields are left untouched.
type Update struct {
	Title            *string
	Status           *Status
	EstimatedMinutes *int
	ScheduledAt      **time.Time // outer nil: untouched; inner nil: unschedule
}

// Find returns the task with the given id anywhere in the forest, or nil.
func Find(forest []*Task, id string) *Task {
	for _, t := range forest {
		if t.ID == id {
			return t
		}
		if found := Find(t.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// Apply returns a new forest with the update applied to the task with the
// given id. If the id is not present the forest is returned unchanged.
func Apply(forest []*Task, id string, u Update) []*Task {
	out := make([]*Task, len(forest))
	for i, t := range forest {
		if t.ID == id {
			out[i] = applyUpdate(t, u)
			continue
		}
		children := Apply(t.Children, id, u)
		if sameForest(children, t.Children) {
			out[i] = t
			continue
		}
		clone := *t
		clone.Children = children
		out[i] = &clone
	}
	return out
}

// Remove returns a new forest with the task and its entire subtree removed.
func Remove(forest []*Task, id string) []*Task {
	out := make([]*Task, 0, len(forest))
	for _, t := range forest {
		if t.ID == id {
			continue
		}
		children := Remove(t.Children, id)
		if sameForest(children, t.Children) {
			out = append(out, t)
			continue
		}
		clone := *t
		clone.Children = children
		out = append(out, &clone)
	}
	return out
}

// Attach returns a new forest with child appended under the task with
// parentID. An empty parentID appends child at the top level.
func Attach(forest []*Task, parentID string, child *Task) []*Task {
	if parentID == "" {
		out := make([]*Task, len(forest), len(forest)+1)
		copy(out, forest)
		return append(out, child)
	}

	out := make([]*Task, len(forest))
	for i, t := range forest {
		if t.ID == parentID {
			clone := *t
			clone.Children = append(append([]*Task{}, t.Children...), child)
			out[i] = &clone
			continue
		}
		children := Attach(t.Children, parentID, child)
		if sameForest(children, t.Children) {
			out[i] = t
			continue
		}
		clone := *t
		clone.Children = children
		out[i] = &clone
	}
	return out
}

// Walk visits every task in the forest in pre-order. Returning false from
// visit stops the walk.
func Walk(forest []*Task, visit func(*Task) bool) bool {
	for _, t := range forest {
		if !visit(t) {
			return false
		}
		if !Walk(t.Children, visit) {
			return false
		}
	}
	return true
}

// Flatten returns all tasks in the forest in pre-order.
func Flatten(forest []*Task) []*Task {
	var out []*Task
	Walk(forest, func(t *Task) bool {
		out = append(out, t)
		return true
	})
	return out
}

func applyUpdate(t *Task, u Update) *Task {
	clone := *t
	if u.Title != nil {
		clone.Title = *u.Title
	}
	if u.Status != nil {
		clone.Status = *u.Status
	}
	if u.EstimatedMinutes != nil {
		clone.EstimatedMinutes = *u.EstimatedMinutes
	}
	if u.ScheduledAt != nil {
		clone.ScheduledAt = *u.ScheduledAt
	}
	return &clone
}

// sameForest reports whether two forests are the same slice element-wise,
// used to avoid cloning untouched branches.
func sameForest(a, b []*Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
