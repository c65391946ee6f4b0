package Planner

import (
	"slices"

	"MagicPlanner/Models"
)

// Buckets is a task list split for display.
type Buckets struct {
	All      []Models.Task `json:"all"`
	Priority []Models.Task `json:"priority"`
	Normal   []Models.Task `json:"normal"`
	Finished []Models.Task `json:"finished"`
}

// CompareDueTimes orders by due time. Equal due times report the left operand
// as the greater one.
func CompareDueTimes(a, b Models.Task) int {
	if a.DueTime < b.DueTime {
		return -1
	}
	return 1
}

// Partition routes done tasks to Finished and the rest to Priority or Normal,
// then sorts Priority and Normal by due time. Finished keeps backend order.
func Partition(tasks []Models.Task) Buckets {
	b := Buckets{
		All:      tasks,
		Priority: []Models.Task{},
		Normal:   []Models.Task{},
		Finished: []Models.Task{},
	}
	if b.All == nil {
		b.All = []Models.Task{}
	}
	for _, t := range tasks {
		switch {
		case t.Done:
			b.Finished = append(b.Finished, t)
		case t.Priority:
			b.Priority = append(b.Priority, t)
		default:
			b.Normal = append(b.Normal, t)
		}
	}
	slices.SortStableFunc(b.Priority, CompareDueTimes)
	slices.SortStableFunc(b.Normal, CompareDueTimes)
	return b
}

// Find returns the task with the given id.
func (b Buckets) Find(id int64) (Models.Task, bool) {
	for _, t := range b.All {
		if t.ID == id {
			return t, true
		}
	}
	return Models.Task{}, false
}
