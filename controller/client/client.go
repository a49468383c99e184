package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"workconnect/dto"
	"workconnect/middleware"
	"workconnect/model"
	"workconnect/scheduler"
	"workconnect/services"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func ClientController(router *gin.Engine, firestoreClient *firestore.Client) {
	routes := router.Group("/api/clients", middleware.AccessTokenMiddleware())
	{
		routes.POST("", func(c *gin.Context) {
			CreateClient(c, firestoreClient)
		})
		routes.GET("", func(c *gin.Context) {
			GetClients(c, firestoreClient)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetClientByID(c, firestoreClient)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateClient(c, firestoreClient)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteClient(c, firestoreClient)
		})
	}
}

// SearchRange returns the inclusive name bounds covering every string with
// the given prefix. "\uf8ff" sorts after any character a name can contain.
func SearchRange(prefix string) (string, string) {
	return prefix, prefix + "\uf8ff"
}

// NormalizeStatus maps free-form status input onto the closed enumeration.
// Empty input defaults to Lead; anything unrecognized is rejected by the
// caller via ValidStatus.
func NormalizeStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.StatusLead
	}
	if strings.EqualFold(raw, model.StatusInProgress) {
		return model.StatusInProgress
	}
	return strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
}

func CreateClient(c *gin.Context, firestoreClient *firestore.Client) {
	var request dto.CreateClientRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientStatus := NormalizeStatus(request.Status)
	if !model.ValidStatus(clientStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client status"})
		return
	}

	ctx := context.Background()
	docid := uuid.New().String()
	newClient := model.Client{
		ClientID:  docid,
		Name:      request.Name,
		Email:     request.Email,
		Phone:     request.Phone,
		Status:    clientStatus,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := firestoreClient.Collection("Clients").Doc(docid).Set(ctx, newClient)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"client":  toResponse(newClient),
	})
}

func GetClients(c *gin.Context, firestoreClient *firestore.Client) {
	search := c.Query("search")
	statusFilter := c.Query("status")

	ctx := context.Background()
	query := firestoreClient.Collection("Clients").Query
	if search != "" {
		// Prefix match; Firestore has no substring search. The name
		// inequality forces name ordering, so newest-first applies only to
		// unfiltered listings.
		lo, hi := SearchRange(search)
		query = query.Where("name", ">=", lo).Where("name", "<=", hi).
			OrderBy("name", firestore.Asc)
	} else {
		query = query.OrderBy("createdat", firestore.Desc)
	}
	if statusFilter != "" {
		query = query.Where("status", "==", statusFilter)
	}

	iter := query.Documents(ctx)
	var clients []dto.ClientResponse
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var client model.Client
		if err := doc.DataTo(&client); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse client data"})
			return
		}
		clients = append(clients, toResponse(client))
	}

	if clients == nil {
		clients = []dto.ClientResponse{}
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func GetClientByID(c *gin.Context, firestoreClient *firestore.Client) {
	clientID := c.Param("id")
	ctx := context.Background()

	doc, err := firestoreClient.Collection("Clients").Doc(clientID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var client model.Client
	if err := doc.DataTo(&client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse client data"})
		return
	}

	taskService := services.NewTaskService(firestoreClient)
	tasks, err := taskService.TasksForClient(ctx, clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client tasks"})
		return
	}

	clientService := services.NewClientService(firestoreClient)
	taskResponses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		assigned, err := clientService.ClientsByID(ctx, task.AssignedClients)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client tasks"})
			return
		}
		taskResponses = append(taskResponses, scheduler.Snapshot(task, assigned))
	}

	c.JSON(http.StatusOK, gin.H{
		"client": toResponse(client),
		"tasks":  taskResponses,
	})
}

func UpdateClient(c *gin.Context, firestoreClient *firestore.Client) {
	clientID := c.Param("id")

	var request dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := []firestore.Update{{Path: "updatedat", Value: time.Now()}}
	if request.Name != "" {
		updates = append(updates, firestore.Update{Path: "name", Value: request.Name})
	}
	if request.Email != "" {
		updates = append(updates, firestore.Update{Path: "email", Value: request.Email})
	}
	if request.Phone != "" {
		updates = append(updates, firestore.Update{Path: "phone", Value: request.Phone})
	}
	if request.Status != "" {
		clientStatus := NormalizeStatus(request.Status)
		if !model.ValidStatus(clientStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client status"})
			return
		}
		updates = append(updates, firestore.Update{Path: "status", Value: clientStatus})
	}

	ctx := context.Background()
	_, err := firestoreClient.Collection("Clients").Doc(clientID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

func DeleteClient(c *gin.Context, firestoreClient *firestore.Client) {
	clientID := c.Param("id")
	ctx := context.Background()

	_, err := firestoreClient.Collection("Clients").Doc(clientID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	// Tasks keep only live references; strip the deleted client from every
	// assigned set.
	clientService := services.NewClientService(firestoreClient)
	if err := clientService.DetachClientFromTasks(ctx, clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Client deleted but task references were not cleaned up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

func toResponse(client model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ClientID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Status:    client.Status,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
	}
}
