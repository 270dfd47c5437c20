package sdk

import (
	"encoding/json"

	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// StatusType tags an API response as success or error
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  StatusType `json:"status"`          // Status message
	Code    int        `json:"code"`            // Status code
	Message string     `json:"message"`         // Human-readable message
	Data    T          `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any        `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

// AsJSON converts the ApiResponse to a format suitable for JSON responses
func (r ApiResponse[T]) AsJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func NewSuccess(message string) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
	}
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Requests */

// CreateSessionRequest represents the request body for creating a new session
type CreateSessionRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug" binding:"required"`
}

// CreateItemRequest represents the request body for adding an item to a
// session. The id is optional; the server assigns one when it is empty
type CreateItemRequest struct {
	ID    string        `json:"id,omitempty"`
	Name  string        `json:"name" binding:"required"`
	Order int           `json:"order"`
	List  turnlist.List `json:"list" binding:"required"`
}

// UpdateItemRequest represents the request body for a single item write
type UpdateItemRequest struct {
	NewName  string        `json:"new_name"`
	NewOrder int           `json:"new_order"`
	NewList  turnlist.List `json:"new_list" binding:"required"`
}

// UpdateItemsRequest represents the request body for an all-or-nothing batch write
type UpdateItemsRequest struct {
	Updates []session.ItemUpdate `json:"updates" binding:"required"`
}

/** Responses */

// SessionLookupResponse reports whether a slug is taken and by which session
type SessionLookupResponse struct {
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

// SessionResponse represents a created session
type SessionResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ItemsResponse carries every item of a session
type ItemsResponse struct {
	Items []turnlist.Item `json:"items"`
}

// ItemResponse carries a single created item
type ItemResponse struct {
	Item turnlist.Item `json:"item"`
}
