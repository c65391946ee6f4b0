package Photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

// ContentType of every uploaded proof.
const ContentType = "image/jpeg"

// Stage names one step of the photo proof pipeline.
type Stage string

const (
	StageDecode   Stage = "decode"
	StageCompress Stage = "compress"
	StageUpload   Stage = "upload"
	StageRecord   Stage = "record"
	StageNotify   Stage = "notify"
)

// StageError says which step failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("photo %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage extracts the stage from an error returned by Run.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// Upload is what gets written to object storage.
type Upload struct {
	Object      string
	ContentType string
	Data        []byte
	Metadata    map[string]string
}

// Uploader stores a photo and returns its download URL.
type Uploader interface {
	Upload(ctx context.Context, u Upload) (string, error)
}

// Recorder keeps the metadata document of an uploaded photo.
type Recorder interface {
	Record(ctx context.Context, rec Models.PhotoRecord) error
}

// Notifier tells the backend the sub-task is done.
type Notifier interface {
	UpdateSubTaskCompletion(ctx context.Context, subTaskID int64, state Models.SubTaskState) error
}

// Submission is one captured photo for one sub-task.
type Submission struct {
	TaskID    int64
	SubTaskID int64
	Photo     io.Reader
}

// Result describes a successfully stored proof.
type Result struct {
	Object      string `json:"object"`
	DownloadURL string `json:"downloadURL"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Created     string `json:"created"`
}

// Pipeline runs decode -> compress -> upload -> record -> notify, strictly in
// order. The first failing step ends the run with a *StageError.
type Pipeline struct {
	uploader Uploader
	recorder Recorder
	notifier Notifier

	MaxDimension int
	Quality      int
	Now          func() time.Time
}

func NewPipeline(uploader Uploader, recorder Recorder, notifier Notifier) *Pipeline {
	return &Pipeline{
		uploader:     uploader,
		recorder:     recorder,
		notifier:     notifier,
		MaxDimension: 1600,
		Quality:      85,
		Now:          time.Now,
	}
}

// ObjectName is the storage path of a proof: Tasks/{task}_{subtask}_{created}.
func ObjectName(taskID, subTaskID int64, created string) string {
	return fmt.Sprintf("Tasks/%d_%d_%s", taskID, subTaskID, created)
}

func (p *Pipeline) Run(ctx context.Context, s Submission) (*Result, error) {
	created := p.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	entry := log.WithFields(log.Fields{"task_id": s.TaskID, "subtask_id": s.SubTaskID})

	img, err := decode(s.Photo)
	if err != nil {
		return nil, &StageError{StageDecode, err}
	}

	data, width, height, err := compress(img, p.MaxDimension, p.Quality)
	if err != nil {
		return nil, &StageError{StageCompress, err}
	}
	entry.WithFields(log.Fields{"bytes": len(data), "width": width, "height": height}).Debug("Photo compressed")

	object := ObjectName(s.TaskID, s.SubTaskID, created)
	url, err := p.uploader.Upload(ctx, Upload{
		Object:      object,
		ContentType: ContentType,
		Data:        data,
		Metadata: map[string]string{
			"width":       strconv.Itoa(width),
			"height":      strconv.Itoa(height),
			"currentDate": created,
		},
	})
	if err != nil {
		return nil, &StageError{StageUpload, err}
	}

	rec := Models.PhotoRecord{
		Name:        object[len("Tasks/"):],
		ContentType: ContentType,
		DownloadURL: url,
		Created:     created,
	}
	if err := p.recorder.Record(ctx, rec); err != nil {
		return nil, &StageError{StageRecord, err}
	}

	if err := p.notifier.UpdateSubTaskCompletion(ctx, s.SubTaskID, Models.SubTaskDone); err != nil {
		return nil, &StageError{StageNotify, err}
	}

	entry.WithField("url", url).Info("Photo proof stored")
	return &Result{Object: object, DownloadURL: url, Width: width, Height: height, Created: created}, nil
}
