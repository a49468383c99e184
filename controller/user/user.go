package user

import (
	"context"
	"net/http"
	"time"

	"workconnect/dto"
	"workconnect/middleware"
	"workconnect/model"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func UserController(router *gin.Engine, firestoreClient *firestore.Client) {
	routes := router.Group("/api/users", middleware.AccessTokenMiddleware(), middleware.AdminMiddleware())
	{
		routes.GET("", func(c *gin.Context) {
			ListUsers(c, firestoreClient)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteUser(c, firestoreClient)
		})
	}
}

func ListUsers(c *gin.Context, fb *firestore.Client) {
	ctx := context.Background()
	iter := fb.Collection("Users").Documents(ctx)

	var users []dto.UserResponse
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var user model.User
		if err := doc.DataTo(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user data"})
			return
		}

		// Password hashes never leave the server.
		users = append(users, dto.UserResponse{
			UserID:    user.UserID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		})
	}

	if users == nil {
		users = []dto.UserResponse{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func DeleteUser(c *gin.Context, fb *firestore.Client) {
	userId := c.Param("id")
	ctx := context.Background()

	_, err := fb.Collection("Users").Doc(userId).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
