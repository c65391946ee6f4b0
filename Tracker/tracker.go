package Tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"MagicPlanner/Models"
	"MagicPlanner/Planner"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUnknownSubTask    = errors.New("unknown sub-task")
	ErrUnknownTask       = errors.New("unknown task")
	ErrTaskNotStarted    = errors.New("task has not been started")
	ErrTaskFinished      = errors.New("task is already finished")
	ErrTaskStarted       = errors.New("task has already been started")
	ErrPhotoRequired     = errors.New("sub-task requires a photo")
	ErrNoPhotoRequired   = errors.New("sub-task does not take a photo")
	ErrInvalidTransition = errors.New("invalid sub-task transition")
	ErrUploadInProgress  = errors.New("photo upload already in progress")
)

// Remote is the part of the backend the tracker writes to.
type Remote interface {
	UpdateSubTaskCompletion(ctx context.Context, subTaskID int64, state Models.SubTaskState) error
	UpdateTaskCompletion(ctx context.Context, taskID int64) error
	UpdateTaskStart(ctx context.Context, taskID int64) error
}

// Source is the part of the backend the tracker reads from.
type Source interface {
	FetchTasks(ctx context.Context, accountID int64) (*Planner.Buckets, error)
	FetchSubTasks(ctx context.Context, tasks []Models.Task) (*Models.SubTaskIndex, error)
}

// Tracker owns the local copy of the account's tasks and sub-tasks and keeps
// each task's completion in step with its checklist. Local state changes
// first; remote writes that fail are logged and not rolled back.
type Tracker struct {
	mu         sync.Mutex
	remote     Remote
	classifier *Planner.Classifier
	buckets    Planner.Buckets
	index      *Models.SubTaskIndex
	uploading  map[int64]bool

	// OnComplete runs after a task was completed from its checklist.
	OnComplete func(task Models.Task)
}

func New(remote Remote, classifier *Planner.Classifier) *Tracker {
	return &Tracker{
		remote:     remote,
		classifier: classifier,
		buckets:    Planner.Partition(nil),
		index:      Models.NewSubTaskIndex(),
		uploading:  make(map[int64]bool),
	}
}

// Load replaces the local copy, e.g. after a refresh.
func (t *Tracker) Load(buckets Planner.Buckets, index *Models.SubTaskIndex) {
	if index == nil {
		index = Models.NewSubTaskIndex()
	}
	t.mu.Lock()
	t.buckets = buckets
	t.index = index
	t.mu.Unlock()
}

// Reset forgets everything, used at logout.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.buckets = Planner.Partition(nil)
	t.index = Models.NewSubTaskIndex()
	t.uploading = make(map[int64]bool)
	t.mu.Unlock()
}

// Refresh re-runs the full fetch sequence. On failure the previous copy is kept.
// A partial sub-task failure still loads what was fetched. Fetched tasks whose
// checklist is complete but which are not done yet are completed.
func (t *Tracker) Refresh(ctx context.Context, source Source, accountID int64) error {
	buckets, err := source.FetchTasks(ctx, accountID)
	if err != nil {
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	index, subErr := source.FetchSubTasks(ctx, buckets.All)
	t.Load(*buckets, index)
	for _, taskID := range t.Index().TaskIDs() {
		t.Evaluate(ctx, taskID)
	}
	if subErr != nil {
		return fmt.Errorf("refreshing sub-tasks: %w", subErr)
	}
	return nil
}

// Buckets returns the current partitioned tasks.
func (t *Tracker) Buckets() Planner.Buckets {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets
}

// SubTasks returns the sub-tasks of a task and whether they were loaded.
func (t *Tracker) SubTasks(taskID int64) ([]Models.SubTask, Models.LoadState) {
	t.mu.Lock()
	index := t.index
	t.mu.Unlock()
	return index.Get(taskID)
}

// Index returns the sub-task index currently in use.
func (t *Tracker) Index() *Models.SubTaskIndex {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index
}

// Progress returns the checklist progress of a task.
func (t *Tracker) Progress(taskID int64) Planner.Progress {
	subs, _ := t.SubTasks(taskID)
	return Planner.ProgressOf(subs)
}

// StartTask begins a task that is neither finished nor started.
func (t *Tracker) StartTask(ctx context.Context, taskID int64) (Models.Task, error) {
	t.mu.Lock()
	task, ok := t.buckets.Find(taskID)
	switch {
	case !ok:
		t.mu.Unlock()
		return Models.Task{}, ErrUnknownTask
	case task.Done:
		t.mu.Unlock()
		return task, ErrTaskFinished
	case task.Started():
		t.mu.Unlock()
		return task, ErrTaskStarted
	}
	task.Start = t.classifier.StampNow()
	t.replaceTask(task)
	t.mu.Unlock()

	if err := t.remote.UpdateTaskStart(ctx, taskID); err != nil {
		log.WithError(err).WithField("task_id", taskID).Warn("Task start not stored")
	}
	return task, nil
}

// Check completes a sub-task that needs no photo.
func (t *Tracker) Check(ctx context.Context, subTaskID int64) error {
	sub, err := t.editable(subTaskID)
	if err != nil {
		return err
	}
	if sub.NeedPhoto {
		return ErrPhotoRequired
	}
	if sub.State != Models.SubTaskOpen {
		return fmt.Errorf("%w: %s to done", ErrInvalidTransition, sub.State)
	}
	t.Index().SetState(subTaskID, Models.SubTaskDone)

	if err := t.remote.UpdateSubTaskCompletion(ctx, subTaskID, Models.SubTaskDone); err != nil {
		log.WithError(err).WithField("subtask_id", subTaskID).Warn("Sub-task completion not stored")
	}
	t.Evaluate(ctx, sub.TaskID)
	return nil
}

// Uncheck reopens a sub-task that needs no photo.
func (t *Tracker) Uncheck(ctx context.Context, subTaskID int64) error {
	sub, err := t.editable(subTaskID)
	if err != nil {
		return err
	}
	if sub.NeedPhoto {
		return ErrPhotoRequired
	}
	if sub.State != Models.SubTaskDone {
		return fmt.Errorf("%w: %s to open", ErrInvalidTransition, sub.State)
	}
	t.Index().SetState(subTaskID, Models.SubTaskOpen)

	if err := t.remote.UpdateSubTaskCompletion(ctx, subTaskID, Models.SubTaskOpen); err != nil {
		log.WithError(err).WithField("subtask_id", subTaskID).Warn("Sub-task reopening not stored")
	}
	return nil
}

// editable looks a sub-task up and checks that its task accepts changes.
func (t *Tracker) editable(subTaskID int64) (Models.SubTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lookup(subTaskID)
}

// lookup is editable for callers that already hold t.mu.
func (t *Tracker) lookup(subTaskID int64) (Models.SubTask, error) {
	sub, ok := t.index.Find(subTaskID)
	if !ok {
		return sub, ErrUnknownSubTask
	}
	task, ok := t.buckets.Find(sub.TaskID)
	if !ok {
		return sub, ErrUnknownTask
	}
	if task.Done {
		return sub, ErrTaskFinished
	}
	if !task.Started() {
		return sub, ErrTaskNotStarted
	}
	return sub, nil
}

// Evaluate completes the task when every sub-task is done and the task is not
// yet finished. It reports whether it did so. A task is completed at most once.
func (t *Tracker) Evaluate(ctx context.Context, taskID int64) bool {
	t.mu.Lock()
	task, ok := t.buckets.Find(taskID)
	if !ok || task.Done {
		t.mu.Unlock()
		return false
	}
	subs, _ := t.index.Get(taskID)
	if !Planner.ProgressOf(subs).Complete() {
		t.mu.Unlock()
		return false
	}
	task.Done = true
	task.End = t.classifier.StampNow()
	t.replaceTask(task)
	hook := t.OnComplete
	t.mu.Unlock()

	if err := t.remote.UpdateTaskCompletion(ctx, taskID); err != nil {
		log.WithError(err).WithField("task_id", taskID).Warn("Task completion not stored")
	}
	log.WithField("task_id", taskID).Info("Task completed from its checklist")
	if hook != nil {
		hook(task)
	}
	return true
}

// replaceTask swaps a task in and re-partitions. Caller holds t.mu.
func (t *Tracker) replaceTask(task Models.Task) {
	all := make([]Models.Task, len(t.buckets.All))
	copy(all, t.buckets.All)
	for i := range all {
		if all[i].ID == task.ID {
			all[i] = task
		}
	}
	t.buckets = Planner.Partition(all)
}
