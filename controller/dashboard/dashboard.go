package dashboard

import (
	"context"
	"net/http"
	"sort"
	"time"

	"workconnect/dto"
	"workconnect/middleware"
	"workconnect/model"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
)

func DashboardController(router *gin.Engine, firestoreClient *firestore.Client) {
	router.GET("/api/dashboard/stats", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		GetStats(c, firestoreClient)
	})
}

type Stats struct {
	TotalClients   int                  `json:"totalClients"`
	TotalTasks     int                  `json:"totalTasks"`
	CompletedTasks int                  `json:"completedTasks"`
	PendingTasks   int                  `json:"pendingTasks"`
	RecentClients  []dto.ClientResponse `json:"recentClients"`
	UpcomingTasks  []upcomingTask       `json:"upcomingTasks"`
}

type upcomingTask struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ReminderDate string `json:"reminderDate"`
}

func GetStats(c *gin.Context, fb *firestore.Client) {
	ctx := context.Background()

	clients, err := loadClients(ctx, fb)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard statistics"})
		return
	}
	tasks, err := loadTasks(ctx, fb)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard statistics"})
		return
	}

	stats := Stats{
		TotalClients: len(clients),
		TotalTasks:   len(tasks),
	}

	var upcoming []model.Task
	for _, task := range tasks {
		if task.IsCompleted {
			stats.CompletedTasks++
		} else {
			stats.PendingTasks++
			if !task.ReminderDate.IsZero() {
				upcoming = append(upcoming, task)
			}
		}
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.After(clients[j].CreatedAt)
	})
	for i, client := range clients {
		if i == 5 {
			break
		}
		stats.RecentClients = append(stats.RecentClients, dto.ClientResponse{
			ID:        client.ClientID,
			Name:      client.Name,
			Email:     client.Email,
			Phone:     client.Phone,
			Status:    client.Status,
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ReminderDate.Before(upcoming[j].ReminderDate)
	})
	for i, task := range upcoming {
		if i == 5 {
			break
		}
		stats.UpcomingTasks = append(stats.UpcomingTasks, upcomingTask{
			ID:           task.TaskID,
			Title:        task.Title,
			ReminderDate: task.ReminderDate.Format(time.RFC3339),
		})
	}

	if stats.RecentClients == nil {
		stats.RecentClients = []dto.ClientResponse{}
	}
	if stats.UpcomingTasks == nil {
		stats.UpcomingTasks = []upcomingTask{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func loadClients(ctx context.Context, fb *firestore.Client) ([]model.Client, error) {
	iter := fb.Collection("Clients").Documents(ctx)
	var clients []model.Client
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var client model.Client
		if err := doc.DataTo(&client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func loadTasks(ctx context.Context, fb *firestore.Client) ([]model.Task, error) {
	iter := fb.Collection("Tasks").Documents(ctx)
	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
