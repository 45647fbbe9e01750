package handlers

import (
	"net/http"
	"strconv"

	"github.com/LukasNolting/JOIN-Backend/internal/models"
	"github.com/LukasNolting/JOIN-Backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

// taskResponse is the wire shape of a task. The assignedTo and colors lists
// are derived from the loaded collaborator rows, not stored.
type taskResponse struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	CategoryBoard string           `json:"categoryboard"`
	Prio          string           `json:"prio"`
	DueDate       string           `json:"dueDate"`
	AssignedToID  []uint           `json:"assignedToID"`
	AssignedTo    []string         `json:"assignedTo"`
	Colors        []string         `json:"colors"`
	Subtasks      []models.Subtask `json:"subtasks"`
}

func newTaskResponse(task models.Task) taskResponse {
	resp := taskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Category:      task.Category,
		CategoryBoard: task.CategoryBoard,
		Prio:          task.Prio,
		DueDate:       task.DueDate,
		AssignedToID:  make([]uint, 0, len(task.Assignees)),
		AssignedTo:    make([]string, 0, len(task.Assignees)),
		Colors:        make([]string, 0, len(task.Assignees)),
		Subtasks:      task.Subtasks,
	}
	if resp.Subtasks == nil {
		resp.Subtasks = []models.Subtask{}
	}
	for i := range task.Assignees {
		u := &task.Assignees[i]
		resp.AssignedToID = append(resp.AssignedToID, u.ID)
		resp.AssignedTo = append(resp.AssignedTo, u.FullName())
		resp.Colors = append(resp.Colors, u.Color)
	}
	return resp
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(h.db, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.GetTasks(h.db)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTaskByID(h.db, id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, id, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(h.db, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// parseID reads the numeric :id path parameter. A non-numeric id cannot
// reference any record, so it is reported as not found.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}
