package Planner

import "MagicPlanner/Models"

// Progress is how far along the checklist of one task is.
type Progress struct {
	Finished int     `json:"finished"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

// Complete is true when there is at least one sub-task and every one is done.
// Pending sub-tasks do not count.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Finished == p.Total
}

func ProgressOf(subTasks []Models.SubTask) Progress {
	p := Progress{Total: len(subTasks)}
	for _, s := range subTasks {
		if s.State == Models.SubTaskDone {
			p.Finished++
		}
	}
	if p.Total > 0 {
		p.Fraction = float64(p.Finished) / float64(p.Total)
	}
	return p
}

// TaskProgress is one row of the progress overview.
type TaskProgress struct {
	Task     Models.Task      `json:"task"`
	Progress Progress         `json:"progress"`
	Load     Models.LoadState `json:"subTasks"`
}

// Overview lists every task with its progress, priority first, then normal, then finished.
func Overview(b Buckets, index *Models.SubTaskIndex) []TaskProgress {
	rows := make([]TaskProgress, 0, len(b.All))
	for _, group := range [][]Models.Task{b.Priority, b.Normal, b.Finished} {
		for _, t := range group {
			subs, load := index.Get(t.ID)
			rows = append(rows, TaskProgress{Task: t, Progress: ProgressOf(subs), Load: load})
		}
	}
	return rows
}
