package Planner

import "MagicPlanner/Models"

// RawTask is a task exactly as the backend sends it.
type RawTask struct {
	ID          int64   `json:"id"`
	Name        string  `json:"taskName"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	DueTime     string  `json:"dueTime"`
	Priority    bool    `json:"priority"`
	Done        bool    `json:"done"`
	Difficulty  string  `json:"difficulty"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
}

// Enrich turns a raw task into a display task with overDo and formatted timestamps.
func (c *Classifier) Enrich(raw RawTask) Models.Task {
	return Models.Task{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		DueDate:     raw.DueDate,
		DueTime:     raw.DueTime,
		Priority:    raw.Priority,
		Done:        raw.Done,
		Difficulty:  raw.Difficulty,
		Start:       c.FormatTimestamp(raw.Start),
		End:         c.FormatTimestamp(raw.End),
		OverDo:      c.OverDo(raw.DueDate, raw.DueTime),
	}
}

// DeadlineLabel is the text shown under a task: when it ended, its due time,
// or that the deadline has passed.
func DeadlineLabel(t Models.Task) string {
	switch {
	case t.Done:
		if t.End == nil {
			return ""
		}
		return *t.End
	case t.OverDo:
		return t.DueTime
	default:
		return PassedLabel
	}
}
