package Models

// Task as served to the UI. Start and End are already formatted for display
// and nil while the backend has no value; OverDo is derived on every fetch.
type Task struct {
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
	OverDo      bool    `json:"overDo"`
}

// Started reports whether the task has been begun.
func (t Task) Started() bool {
	return t.Start != nil
}
