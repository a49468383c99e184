package task

import (
	"context"
	"net/http"
	"time"

	"workconnect/dto"
	"workconnect/middleware"
	"workconnect/model"
	"workconnect/scheduler"
	"workconnect/services"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TaskController(router *gin.Engine, firestoreClient *firestore.Client) {
	routes := router.Group("/api/task", middleware.AccessTokenMiddleware())
	{
		routes.POST("/create-task", func(c *gin.Context) {
			CreateTask(c, firestoreClient)
		})
		routes.PATCH("/:id/read", func(c *gin.Context) {
			MarkAsRead(c, firestoreClient)
		})
		routes.GET("/upcoming", func(c *gin.Context) {
			GetUpcoming(c, firestoreClient)
		})
		routes.GET("/get-all-task", func(c *gin.Context) {
			GetTasks(c, firestoreClient)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			UpdateTask(c, firestoreClient)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTask(c, firestoreClient)
		})
	}
}

func CreateTask(c *gin.Context, firestoreClient *firestore.Client) {
	userId := c.MustGet("userId").(string)

	var taskReq dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	reminderDate, err := time.Parse(time.RFC3339, taskReq.ReminderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reminderDate format"})
		return
	}

	ctx := context.Background()
	clientService := services.NewClientService(firestoreClient)

	// Every email must resolve to exactly one client or the task is rejected.
	clientIDs, err := clientService.ResolveAssignees(ctx, taskReq.AssignedClients)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more client emails are invalid"})
		return
	}

	taskid := uuid.New().String()
	newTask := model.Task{
		TaskID:          taskid,
		Title:           taskReq.Title,
		Description:     taskReq.Description,
		AssignedClients: clientIDs,
		ReminderDate:    reminderDate,
		IsCompleted:     false,
		IsNotified:      false,
		IsRead:          false,
		CreatedBy:       userId,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	_, err = firestoreClient.Collection("Tasks").Doc(taskid).Set(ctx, newTask)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to create task"})
		return
	}

	assigned, err := clientService.ClientsByID(ctx, clientIDs)
	if err != nil {
		assigned = nil
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    scheduler.Snapshot(newTask, assigned),
	})
}

func MarkAsRead(c *gin.Context, firestoreClient *firestore.Client) {
	taskID := c.Param("id")
	ctx := context.Background()

	docRef := firestoreClient.Collection("Tasks").Doc(taskID)
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "isread", Value: true},
		{Path: "updatedat", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	doc, err := docRef.Get(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}
	var task model.Task
	if err := doc.DataTo(&task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse task data"})
		return
	}

	clientService := services.NewClientService(firestoreClient)
	assigned, err := clientService.ClientsByID(ctx, task.AssignedClients)
	if err != nil {
		assigned = nil
	}

	c.JSON(http.StatusOK, scheduler.Snapshot(task, assigned))
}

func GetUpcoming(c *gin.Context, firestoreClient *firestore.Client) {
	ctx := context.Background()
	taskService := services.NewTaskService(firestoreClient)

	now := time.Now()
	startToday, startTomorrow := services.DayBounds(now)
	endTomorrow := startTomorrow.Add(24 * time.Hour)

	todayTasks, err := taskService.TasksBetween(ctx, startToday, startTomorrow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load upcoming tasks"})
		return
	}
	tomorrowTasks, err := taskService.TasksBetween(ctx, startTomorrow, endTomorrow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load upcoming tasks"})
		return
	}

	clientService := services.NewClientService(firestoreClient)
	today, err := snapshots(ctx, clientService, todayTasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve assigned clients"})
		return
	}
	tomorrow, err := snapshots(ctx, clientService, tomorrowTasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve assigned clients"})
		return
	}

	c.JSON(http.StatusOK, dto.UpcomingResponse{Today: today, Tomorrow: tomorrow})
}

func GetTasks(c *gin.Context, firestoreClient *firestore.Client) {
	ctx := context.Background()
	taskService := services.NewTaskService(firestoreClient)

	tasks, err := taskService.AllTasks(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	clientService := services.NewClientService(firestoreClient)
	responses, err := snapshots(ctx, clientService, tasks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve assigned clients"})
		return
	}

	c.JSON(http.StatusOK, responses)
}

func UpdateTask(c *gin.Context, firestoreClient *firestore.Client) {
	taskID := c.Param("id")

	var request dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := []firestore.Update{{Path: "updatedat", Value: time.Now()}}
	if request.Title != "" {
		updates = append(updates, firestore.Update{Path: "title", Value: request.Title})
	}
	if request.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *request.Description})
	}
	if request.ReminderDate != "" {
		reminderDate, err := time.Parse(time.RFC3339, request.ReminderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reminderDate format"})
			return
		}
		updates = append(updates, firestore.Update{Path: "reminderdate", Value: reminderDate})
	}
	if request.IsCompleted != nil {
		updates = append(updates, firestore.Update{Path: "iscompleted", Value: *request.IsCompleted})
	}

	ctx := context.Background()
	_, err := firestoreClient.Collection("Tasks").Doc(taskID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

func DeleteTask(c *gin.Context, firestoreClient *firestore.Client) {
	taskID := c.Param("id")
	ctx := context.Background()

	_, err := firestoreClient.Collection("Tasks").Doc(taskID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func snapshots(ctx context.Context, clientService *services.ClientService, tasks []model.Task) ([]dto.TaskResponse, error) {
	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		assigned, err := clientService.ClientsByID(ctx, task.AssignedClients)
		if err != nil {
			return nil, err
		}
		responses = append(responses, scheduler.Snapshot(task, assigned))
	}
	return responses, nil
}
