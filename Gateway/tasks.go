package Gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"MagicPlanner/Models"
	"MagicPlanner/Planner"

	log "github.com/sirupsen/logrus"
)

// FetchAccount returns the child account, or nil when it cannot be fetched.
func (c *Client) FetchAccount(ctx context.Context, accountID int64) (*Models.Account, error) {
	var account Models.Account
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/child/%d", accountID), nil, &account); err != nil {
		logFailure("fetch_account", err, log.Fields{"account_id": accountID})
		return nil, err
	}
	return &account, nil
}

// FetchTasks returns the tasks of the account enriched and partitioned.
func (c *Client) FetchTasks(ctx context.Context, accountID int64) (*Planner.Buckets, error) {
	var raw []Planner.RawTask
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/task/%d", accountID), nil, &raw); err != nil {
		logFailure("fetch_tasks", err, log.Fields{"account_id": accountID})
		return nil, err
	}

	tasks := make([]Models.Task, 0, len(raw))
	for _, r := range raw {
		tasks = append(tasks, c.classifier.Enrich(r))
	}
	buckets := Planner.Partition(tasks)
	return &buckets, nil
}

type subTaskPayload struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Done        json.RawMessage `json:"done"`
	NeedPhoto   bool            `json:"needPhoto"`
	Task        *struct {
		ID int64 `json:"id"`
	} `json:"task"`
}

func (p subTaskPayload) model(taskID int64) Models.SubTask {
	parent := taskID
	if p.Task != nil && p.Task.ID != 0 {
		parent = p.Task.ID
	}
	return Models.SubTask{
		ID:          p.ID,
		TaskID:      parent,
		Name:        p.Name,
		Description: p.Description,
		State:       p.state(),
		NeedPhoto:   p.NeedPhoto,
	}
}

// state reads the nullable done flag. An explicit null is pending; a missing
// or unreadable flag is open.
func (p subTaskPayload) state() Models.SubTaskState {
	if len(p.Done) == 0 {
		return Models.SubTaskOpen
	}
	var done *bool
	if err := json.Unmarshal(p.Done, &done); err != nil {
		log.WithError(err).WithField("subtask_id", p.ID).Warn("Unreadable done flag")
		return Models.SubTaskOpen
	}
	return Models.StateFromWire(done)
}

// FetchSubTaskList returns the sub-tasks of one task.
func (c *Client) FetchSubTaskList(ctx context.Context, taskID int64) ([]Models.SubTask, error) {
	var payload []subTaskPayload
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/task/sub/%d", taskID), nil, &payload); err != nil {
		return nil, err
	}
	subs := make([]Models.SubTask, 0, len(payload))
	for _, p := range payload {
		subs = append(subs, p.model(taskID))
	}
	return subs, nil
}

// FetchSubTasks fetches the sub-tasks of every task. A task whose request
// fails stays NotFetched in the index while the others are still loaded; the
// joined error reports every failure.
func (c *Client) FetchSubTasks(ctx context.Context, tasks []Models.Task) (*Models.SubTaskIndex, error) {
	index := Models.NewSubTaskIndex()
	var errs []error
	for _, t := range tasks {
		subs, err := c.FetchSubTaskList(ctx, t.ID)
		if err != nil {
			logFailure("fetch_subtasks", err, log.Fields{"task_id": t.ID})
			errs = append(errs, err)
			continue
		}
		index.Set(t.ID, subs)
	}
	return index, errors.Join(errs...)
}

// FetchSettings returns the presentation settings, or nil when they cannot be fetched.
func (c *Client) FetchSettings(ctx context.Context, accountID int64) (*Models.Settings, error) {
	var settings Models.Settings
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/account/settings/%d", accountID), nil, &settings); err != nil {
		logFailure("fetch_settings", err, log.Fields{"account_id": accountID})
		return nil, err
	}
	return &settings, nil
}

// FetchLoginCodes returns every QR login string with the account it logs into.
func (c *Client) FetchLoginCodes(ctx context.Context) ([]Models.LoginCode, error) {
	var codes []Models.LoginCode
	if err := c.do(ctx, http.MethodGet, "/api/v1/account/settings", nil, &codes); err != nil {
		logFailure("fetch_login_codes", err, nil)
		return nil, err
	}
	return codes, nil
}

// UpdateSubTaskCompletion stores the new state of a sub-task.
func (c *Client) UpdateSubTaskCompletion(ctx context.Context, subTaskID int64, state Models.SubTaskState) error {
	body := map[string]*bool{"done": state.Wire()}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/task/sub/done/%d", subTaskID), body, nil); err != nil {
		logFailure("update_subtask", err, log.Fields{"subtask_id": subTaskID, "state": state.String()})
		return err
	}
	return nil
}

// UpdateTaskCompletion marks a task done.
func (c *Client) UpdateTaskCompletion(ctx context.Context, taskID int64) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/task/done/%d", taskID), nil, nil); err != nil {
		logFailure("complete_task", err, log.Fields{"task_id": taskID})
		return err
	}
	return nil
}

// UpdateTaskStart marks a task started; the backend stamps the time.
func (c *Client) UpdateTaskStart(ctx context.Context, taskID int64) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/task/start/%d", taskID), nil, nil); err != nil {
		logFailure("start_task", err, log.Fields{"task_id": taskID})
		return err
	}
	return nil
}
