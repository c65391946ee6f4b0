package Models

import "sync"

// LoadState tells apart a task whose sub-tasks were never fetched from one
// that was fetched and has none.
type LoadState int

const (
	NotFetched LoadState = iota
	Empty
	Populated
)

func (s LoadState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "not_fetched"
	}
}

func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SubTaskIndex holds the sub-tasks of every task, keyed by task id.
// It is safe for concurrent use.
type SubTaskIndex struct {
	mu    sync.RWMutex
	lists map[int64][]SubTask
}

func NewSubTaskIndex() *SubTaskIndex {
	return &SubTaskIndex{lists: make(map[int64][]SubTask)}
}

// Set records the fetched sub-tasks of a task. An empty list marks the task Empty.
func (x *SubTaskIndex) Set(taskID int64, subTasks []SubTask) {
	x.mu.Lock()
	defer x.mu.Unlock()
	cp := make([]SubTask, len(subTasks))
	copy(cp, subTasks)
	x.lists[taskID] = cp
}

// Get returns a copy of the sub-tasks of a task and their load state.
func (x *SubTaskIndex) Get(taskID int64) ([]SubTask, LoadState) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	list, ok := x.lists[taskID]
	if !ok {
		return nil, NotFetched
	}
	cp := make([]SubTask, len(list))
	copy(cp, list)
	if len(cp) == 0 {
		return cp, Empty
	}
	return cp, Populated
}

// State returns only the load state of a task.
func (x *SubTaskIndex) State(taskID int64) LoadState {
	_, state := x.Get(taskID)
	return state
}

// Find looks a sub-task up by its own id.
func (x *SubTaskIndex) Find(subTaskID int64) (SubTask, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, list := range x.lists {
		for _, s := range list {
			if s.ID == subTaskID {
				return s, true
			}
		}
	}
	return SubTask{}, false
}

// SetState changes the state of one sub-task in place.
func (x *SubTaskIndex) SetState(subTaskID int64, state SubTaskState) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	for taskID, list := range x.lists {
		for i := range list {
			if list[i].ID == subTaskID {
				x.lists[taskID][i].State = state
				return true
			}
		}
	}
	return false
}

// TaskIDs lists every task that has been fetched, in no particular order.
func (x *SubTaskIndex) TaskIDs() []int64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	ids := make([]int64, 0, len(x.lists))
	for id := range x.lists {
		ids = append(ids, id)
	}
	return ids
}
