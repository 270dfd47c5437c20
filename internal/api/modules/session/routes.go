package session_module

import (
	"github.com/gin-gonic/gin"
)

// Register routes for the session module
func RegisterRoutes(g *gin.RouterGroup) {
	// Create base group for session routes
	group := g.Group("/sessions")

	// Session management routes
	group.POST("", CreateSession)    // Create a new session
	group.GET("/:slug", GetSession)  // Check if a session exists by slug

	// Item management routes
	group.GET("/:slug/items", GetItems)          // Get every item in a session
	group.POST("/:slug/items", CreateItem)       // Add a new item to a session
	group.PUT("/:slug/items", UpdateItems)       // Write a batch of items atomically
	group.PUT("/:slug/items/:id", UpdateItem)    // Write a single item
	group.DELETE("/:slug/items/:id", DeleteItem) // Remove a single item
}
