package Tracker

import (
	"context"
	"fmt"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

// Photo-gated sub-tasks move open -> pending when the capture starts, back to
// open if it is cancelled, and to done only after the upload succeeded.

// BeginPhoto marks a photo-gated sub-task pending while its photo is taken.
func (t *Tracker) BeginPhoto(subTaskID int64) error {
	sub, err := t.editable(subTaskID)
	if err != nil {
		return err
	}
	if !sub.NeedPhoto {
		return ErrNoPhotoRequired
	}
	if sub.State != Models.SubTaskOpen {
		return fmt.Errorf("%w: %s to pending", ErrInvalidTransition, sub.State)
	}
	t.Index().SetState(subTaskID, Models.SubTaskPending)
	return nil
}

// CancelPhoto reverts a pending sub-task whose capture was abandoned.
func (t *Tracker) CancelPhoto(subTaskID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	sub, ok := t.index.Find(subTaskID)
	if !ok {
		return ErrUnknownSubTask
	}
	if t.uploading[subTaskID] {
		return ErrUploadInProgress
	}
	if sub.State != Models.SubTaskPending {
		return fmt.Errorf("%w: %s to open", ErrInvalidTransition, sub.State)
	}
	t.index.SetState(subTaskID, Models.SubTaskOpen)
	return nil
}

// CompletePhoto runs upload for a pending sub-task. The sub-task becomes done
// only when upload returns nil; on failure it stays pending and the error is
// returned for the user. There is no retry.
func (t *Tracker) CompletePhoto(ctx context.Context, subTaskID int64, upload func(context.Context, Models.SubTask) error) error {
	t.mu.Lock()
	sub, err := t.lookup(subTaskID)
	switch {
	case err != nil:
		t.mu.Unlock()
		return err
	case !sub.NeedPhoto:
		t.mu.Unlock()
		return ErrNoPhotoRequired
	case t.uploading[subTaskID]:
		t.mu.Unlock()
		return ErrUploadInProgress
	case sub.State != Models.SubTaskPending:
		t.mu.Unlock()
		return fmt.Errorf("%w: %s to done", ErrInvalidTransition, sub.State)
	}
	t.uploading[subTaskID] = true
	t.mu.Unlock()

	err = upload(ctx, sub)

	// A refresh may have swapped the index while the upload ran.
	t.mu.Lock()
	delete(t.uploading, subTaskID)
	if err == nil {
		t.index.SetState(subTaskID, Models.SubTaskDone)
	}
	t.mu.Unlock()

	if err != nil {
		log.WithError(err).WithField("subtask_id", subTaskID).Error("Photo proof upload failed")
		return err
	}
	t.Evaluate(ctx, sub.TaskID)
	return nil
}
