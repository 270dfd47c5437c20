package session_module

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isitmyturn/isitmyturn/pkg/sdk"
	"github.com/isitmyturn/isitmyturn/pkg/session"
)

// CreateSession handles POST requests to create a new session
func CreateSession(c *gin.Context) {
	// Parse request body
	var req sdk.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// Get service and create session
	created, err := sessionService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		c.JSON(errorResponse(err, "Failed to create session").AsGinResponse())
		return
	}

	// Return success response
	resp := &sdk.SessionResponse{Slug: created.Slug, Name: created.Name}
	c.JSON(sdk.NewSuccessResponse("Session created successfully", resp).AsGinResponse())
}

// GetSession handles GET requests to check whether a session exists
func GetSession(c *gin.Context) {
	// Get service and look up session
	resp, err := sessionService.LookupSession(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(errorResponse(err, "Failed to look up session").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Session lookup completed", resp).AsGinResponse())
}

// GetItems handles GET requests to list every item in a session
func GetItems(c *gin.Context) {
	// Get service and list items
	items, err := sessionService.GetItems(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(errorResponse(err, "Failed to get items").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Items retrieved successfully", &sdk.ItemsResponse{Items: items}).AsGinResponse())
}

// CreateItem handles POST requests to add an item to a session
func CreateItem(c *gin.Context) {
	// Parse request body
	var req sdk.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// Get service and create item
	item, err := sessionService.CreateItem(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		c.JSON(errorResponse(err, "Failed to create item").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Item created successfully", &sdk.ItemResponse{Item: item}).AsGinResponse())
}

// UpdateItem handles PUT requests to write a single item
func UpdateItem(c *gin.Context) {
	// Parse request body
	var req sdk.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// Get service and update item
	if err := sessionService.UpdateItem(c.Request.Context(), c.Param("slug"), c.Param("id"), &req); err != nil {
		c.JSON(errorResponse(err, "Failed to update item").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Item updated successfully").AsGinResponse())
}

// UpdateItems handles PUT requests to write a batch of items all-or-nothing
func UpdateItems(c *gin.Context) {
	// Parse request body
	var req sdk.UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	// Get service and update items
	if err := sessionService.UpdateItems(c.Request.Context(), c.Param("slug"), &req); err != nil {
		c.JSON(errorResponse(err, "Failed to update items").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Items updated successfully").AsGinResponse())
}

// DeleteItem handles DELETE requests to remove an item from a session
func DeleteItem(c *gin.Context) {
	// Get service and delete item
	if err := sessionService.DeleteItem(c.Request.Context(), c.Param("slug"), c.Param("id")); err != nil {
		c.JSON(errorResponse(err, "Failed to delete item").AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccess("Item deleted successfully").AsGinResponse())
}

// errorResponse maps store errors onto the response envelope. Validation
// failures are the caller's fault; a missing session is 404; a batch that
// referenced a vanished item is a conflict the client resolves by refetching
func errorResponse(err error, message string) sdk.ApiResponse[any] {
	switch {
	case errors.Is(err, session.ErrSessionNameTooLong),
		errors.Is(err, session.ErrInvalidSlug),
		errors.Is(err, session.ErrSlugTaken),
		errors.Is(err, session.ErrItemNameTooLong):
		return sdk.NewErrorResponse(http.StatusBadRequest, message, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return sdk.NewErrorResponse(http.StatusNotFound, message, err.Error())
	case errors.Is(err, session.ErrItemNotFound):
		return sdk.NewErrorResponse(http.StatusConflict, message, err.Error())
	default:
		return sdk.NewErrorResponse(http.StatusInternalServerError, message, err.Error())
	}
}
