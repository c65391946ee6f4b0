package Controllers

import (
	"context"
	"strconv"

	"MagicPlanner/Models"
	"MagicPlanner/Photos"
	"MagicPlanner/Planner"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// taskView is a task with everything the task list shows next to it.
type taskView struct {
	Models.Task
	Deadline string           `json:"deadline"`
	Progress Planner.Progress `json:"progress"`
	SubTasks Models.LoadState `json:"subTasks"`
}

type bucketsView struct {
	Priority []taskView `json:"priority"`
	Normal   []taskView `json:"normal"`
	Finished []taskView `json:"finished"`
}

func idParam(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
}

func (h *Handler) views(tasks []Models.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		subs, load := h.tracker.SubTasks(t.ID)
		out = append(out, taskView{
			Task:     t,
			Deadline: Planner.DeadlineLabel(t),
			Progress: Planner.ProgressOf(subs),
			SubTasks: load,
		})
	}
	return out
}

// Tasks lists the account's tasks split into priority, normal and finished.
// ?refresh=true refetches them from the backend first.
func (h *Handler) Tasks(c *fiber.Ctx) error {
	if c.Query("refresh") == "true" {
		var err error
		if h.refresher != nil {
			err = h.refresher.RunNow()
		} else {
			err = h.tracker.Refresh(c.UserContext(), h.backend, current(c).AccountID)
		}
		if err != nil {
			log.WithError(err).Warn("Refresh on request incomplete")
		}
	}
	b := h.tracker.Buckets()
	return c.JSON(bucketsView{
		Priority: h.views(b.Priority),
		Normal:   h.views(b.Normal),
		Finished: h.views(b.Finished),
	})
}

// StartTask begins a task.
func (h *Handler) StartTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	task, err := h.tracker.StartTask(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.views([]Models.Task{task})[0])
}

// SubTasks lists the checklist of one task.
func (h *Handler) SubTasks(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	if _, ok := h.tracker.Buckets().Find(id); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown task"})
	}
	subs, load := h.tracker.SubTasks(id)
	if subs == nil {
		subs = []Models.SubTask{}
	}
	return c.JSON(fiber.Map{
		"state":    load,
		"subTasks": subs,
		"progress": Planner.ProgressOf(subs),
	})
}

type checkRequest struct {
	Done *bool `json:"done" validate:"required"`
}

// afterChange reports the sub-task, its task's progress and whether the task is finished.
func (h *Handler) afterChange(c *fiber.Ctx, subTaskID int64, extra fiber.Map) error {
	sub, _ := h.tracker.Index().Find(subTaskID)
	task, _ := h.tracker.Buckets().Find(sub.TaskID)
	body := fiber.Map{
		"subTask":  sub,
		"progress": h.tracker.Progress(sub.TaskID),
		"taskDone": task.Done,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}

// UpdateSubTask checks or unchecks a sub-task that needs no photo.
func (h *Handler) UpdateSubTask(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	var req checkRequest
	if problem := h.bind(c, &req); problem != nil {
		return c.Status(fiber.StatusBadRequest).JSON(problem)
	}

	if *req.Done {
		err = h.tracker.Check(c.UserContext(), id)
	} else {
		err = h.tracker.Uncheck(c.UserContext(), id)
	}
	if err != nil {
		return fail(c, err)
	}
	return h.afterChange(c, id, nil)
}

// BeginPhoto marks a photo sub-task pending while the photo is taken.
func (h *Handler) BeginPhoto(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	if err := h.tracker.BeginPhoto(id); err != nil {
		return fail(c, err)
	}
	return h.afterChange(c, id, nil)
}

// CancelPhoto reverts a pending photo sub-task.
func (h *Handler) CancelPhoto(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	if err := h.tracker.CancelPhoto(id); err != nil {
		return fail(c, err)
	}
	return h.afterChange(c, id, nil)
}

// UploadPhoto stores the multipart "photo" as proof and completes the sub-task.
// An open sub-task is moved to pending first.
func (h *Handler) UploadPhoto(c *fiber.Ctx) error {
	if h.pipeline == nil {
		return unavailable(c, "Photo storage")
	}
	id, err := idParam(c)
	if err != nil {
		return badID(c)
	}
	header, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo is required"})
	}
	file, err := header.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo cannot be read"})
	}
	defer file.Close()

	sub, ok := h.tracker.Index().Find(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown sub-task"})
	}
	if sub.State == Models.SubTaskOpen {
		if err := h.tracker.BeginPhoto(id); err != nil {
			return fail(c, err)
		}
	}

	var result *Photos.Result
	err = h.tracker.CompletePhoto(c.UserContext(), id, func(ctx context.Context, sub Models.SubTask) error {
		r, err := h.pipeline.Run(ctx, Photos.Submission{TaskID: sub.TaskID, SubTaskID: sub.ID, Photo: file})
		result = r
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return h.afterChange(c, id, fiber.Map{"photo": result})
}
