package Models

import "encoding/json"

// SubTaskState is the completion state of a sub-task. On the wire it is a
// nullable boolean: false, null (photo submitted, awaiting validation), true.
type SubTaskState int

const (
	SubTaskOpen SubTaskState = iota
	SubTaskPending
	SubTaskDone
)

func (s SubTaskState) String() string {
	switch s {
	case SubTaskDone:
		return "done"
	case SubTaskPending:
		return "pending"
	default:
		return "open"
	}
}

// Wire returns the nullable boolean the backend expects.
func (s SubTaskState) Wire() *bool {
	switch s {
	case SubTaskDone:
		v := true
		return &v
	case SubTaskPending:
		return nil
	default:
		v := false
		return &v
	}
}

// StateFromWire is the inverse of Wire.
func StateFromWire(done *bool) SubTaskState {
	switch {
	case done == nil:
		return SubTaskPending
	case *done:
		return SubTaskDone
	default:
		return SubTaskOpen
	}
}

func (s SubTaskState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Wire())
}

// SubTask is a checklist item of a task.
type SubTask struct {
	ID          int64        `json:"id"`
	TaskID      int64        `json:"taskId"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	State       SubTaskState `json:"done"`
	NeedPhoto   bool         `json:"needPhoto"`
}
