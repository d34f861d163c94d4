package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/taskhub/internal/actorctx"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/gin-gonic/gin"
)

type TaskService interface {
	Create(ctx context.Context, in service.CreateTaskInput, u *user.User) (task.Task, error)
	FindAll(ctx context.Context, u *user.User) ([]task.Task, error)
	FindOne(ctx context.Context, id int64, u *user.User) (task.Task, error)
	Update(ctx context.Context, id int64, patch task.Patch, u *user.User) (task.Task, error)
	Remove(ctx context.Context, id int64, u *user.User) error
}

type TasksHandler struct {
	svc TaskService
}

func NewTasksHandler(svc TaskService) *TasksHandler {
	return &TasksHandler{svc: svc}
}

const taskOpTimeout = 3 * time.Second

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskRequest accepts any subset of the create fields. Absent fields
// are left unchanged; "description": null clears the description.
type UpdateTaskRequest struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=200"`
	Description OptionalString `json:"description"`
	Completed   *bool          `json:"completed"`
}

// OptionalString records whether a field was present in the body, so an
// explicit null can be told apart from an absent key.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	o.Value = &s

	return nil
}

func (r UpdateTaskRequest) patch() task.Patch {
	return task.Patch{
		Title:            r.Title,
		Description:      r.Description.Value,
		ClearDescription: r.Description.Set && r.Description.Value == nil,
		Completed:        r.Completed,
	}
}

func (h *TasksHandler) Create(ctx *gin.Context) {
	var req CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, _ := actorctx.UserFrom(ctx.Request.Context())

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), taskOpTimeout)
	defer cancel()

	t, err := h.svc.Create(cctx, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}, u)

	if err != nil {
		respondServiceError(ctx, err, "Could not create task")
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) List(ctx *gin.Context) {
	u, _ := actorctx.UserFrom(ctx.Request.Context())

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), taskOpTimeout)
	defer cancel()

	tasks, err := h.svc.FindAll(cctx, u)

	if err != nil {
		respondServiceError(ctx, err, "Could not list tasks")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, tasks)
}

func (h *TasksHandler) Get(ctx *gin.Context) {
	id, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	u, _ := actorctx.UserFrom(ctx.Request.Context())

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), taskOpTimeout)
	defer cancel()

	t, err := h.svc.FindOne(cctx, id, u)

	if err != nil {
		respondServiceError(ctx, err, "Could not fetch task")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

func (h *TasksHandler) Update(ctx *gin.Context) {
	id, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	var req UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, _ := actorctx.UserFrom(ctx.Request.Context())

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), taskOpTimeout)
	defer cancel()

	t, err := h.svc.Update(cctx, id, req.patch(), u)

	if err != nil {
		respondServiceError(ctx, err, "Could not update task")
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) Delete(ctx *gin.Context) {
	id, ok := parseTaskID(ctx)
	if !ok {
		return
	}

	u, _ := actorctx.UserFrom(ctx.Request.Context())

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), taskOpTimeout)
	defer cancel()

	if err := h.svc.Remove(cctx, id, u); err != nil {
		respondServiceError(ctx, err, "Could not delete task")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseTaskID(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid task id", gin.H{
			"fields": []FieldError{{
				Field:   "id",
				Rule:    "positive_int",
				Message: "must be a positive integer",
			}},
		})
		return 0, false
	}

	return id, true
}
