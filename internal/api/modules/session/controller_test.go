package session_module

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isitmyturn/isitmyturn/pkg/sdk"
	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// newTestRouter wires the session module against a fresh in-memory store
func newTestRouter(t *testing.T) (*gin.Engine, *session.InMemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewInMemoryStore()
	Init(store)

	engine := gin.New()
	RegisterRoutes(engine.Group("/api"))
	return engine, store
}

// perform sends one request through the router and returns the recorder
func perform(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

// decode unmarshals the response envelope
func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) sdk.ApiResponse[T] {
	t.Helper()

	var envelope sdk.ApiResponse[T]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateSession(t *testing.T) {
	t.Run("creates a session", func(t *testing.T) {
		engine, _ := newTestRouter(t)

		recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{
			Name: "Board Game Night",
			Slug: "board-game-night",
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.SessionResponse](t, recorder)
		assert.Equal(t, sdk.StatusSuccess, envelope.Status)
		assert.Equal(t, "board-game-night", envelope.Data.Slug)
		assert.Equal(t, "Board Game Night", envelope.Data.Name)
	})

	t.Run("rejects a name that is too long", func(t *testing.T) {
		engine, _ := newTestRouter(t)

		recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{
			Name: strings.Repeat("x", session.MaxSessionNameLength+1),
			Slug: "long-name",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects a malformed slug", func(t *testing.T) {
		engine, _ := newTestRouter(t)

		recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{
			Name: "Bad Slug",
			Slug: "Bad Slug!",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects a taken slug", func(t *testing.T) {
		engine, _ := newTestRouter(t)

		recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{Name: "First", Slug: "taken"})
		require.Equal(t, http.StatusOK, recorder.Code)

		recorder = perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{Name: "Second", Slug: "taken"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("rejects a body without a slug", func(t *testing.T) {
		engine, _ := newTestRouter(t)

		recorder := perform(t, engine, http.MethodPost, "/api/sessions", map[string]string{"name": "No Slug"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetSession(t *testing.T) {
	engine, _ := newTestRouter(t)

	recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{Name: "Game Night", Slug: "game-night"})
	require.Equal(t, http.StatusOK, recorder.Code)

	t.Run("finds an existing session", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodGet, "/api/sessions/game-night", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.SessionLookupResponse](t, recorder)
		assert.True(t, envelope.Data.Exists)
		assert.Equal(t, "Game Night", envelope.Data.Name)
	})

	t.Run("answers 200 with exists false for a missing session", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodGet, "/api/sessions/never-created", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.SessionLookupResponse](t, recorder)
		assert.False(t, envelope.Data.Exists)
		assert.Empty(t, envelope.Data.Name)
	})
}

func TestItemEndpoints(t *testing.T) {
	engine, store := newTestRouter(t)

	recorder := perform(t, engine, http.MethodPost, "/api/sessions", sdk.CreateSessionRequest{Name: "Game Night", Slug: "game-night"})
	require.Equal(t, http.StatusOK, recorder.Code)

	t.Run("creates an item and assigns an id", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodPost, "/api/sessions/game-night/items", sdk.CreateItemRequest{
			Name:  "Alice",
			Order: 0,
			List:  turnlist.ListQueue,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.ItemResponse](t, recorder)
		assert.NotEmpty(t, envelope.Data.Item.ID)
		assert.Equal(t, "Alice", envelope.Data.Item.Name)
	})

	t.Run("honors a client-supplied id", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodPost, "/api/sessions/game-night/items", sdk.CreateItemRequest{
			ID:    "11111111-1111-1111-1111-111111111111",
			Name:  "Bob",
			Order: 1,
			List:  turnlist.ListQueue,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.ItemResponse](t, recorder)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", envelope.Data.Item.ID)
	})

	t.Run("rejects an item for a missing session", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodPost, "/api/sessions/never-created/items", sdk.CreateItemRequest{
			Name: "Nobody",
			List: turnlist.ListQueue,
		})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("lists items in order", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodGet, "/api/sessions/game-night/items", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		envelope := decode[sdk.ItemsResponse](t, recorder)
		require.Len(t, envelope.Data.Items, 2)
		assert.Equal(t, "Alice", envelope.Data.Items[0].Name)
		assert.Equal(t, "Bob", envelope.Data.Items[1].Name)
	})

	t.Run("updates a single item", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodPut, "/api/sessions/game-night/items/11111111-1111-1111-1111-111111111111", sdk.UpdateItemRequest{
			NewName:  "Bobby",
			NewOrder: 1,
			NewList:  turnlist.ListNext,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		items, err := store.ListItems(t.Context(), "game-night")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Bobby", items[1].Name)
		assert.Equal(t, turnlist.ListNext, items[1].List)
	})

	t.Run("applies an atomic batch", func(t *testing.T) {
		items, err := store.ListItems(t.Context(), "game-night")
		require.NoError(t, err)
		require.Len(t, items, 2)

		updates := make([]session.ItemUpdate, 0, len(items))
		for i, item := range items {
			updates = append(updates, session.ItemUpdate{
				ItemID:   item.ID,
				NewName:  item.Name,
				NewOrder: len(items) - 1 - i,
				NewList:  turnlist.ListQueue,
			})
		}

		recorder := perform(t, engine, http.MethodPut, "/api/sessions/game-night/items", sdk.UpdateItemsRequest{Updates: updates})
		require.Equal(t, http.StatusOK, recorder.Code)

		reordered, err := store.ListItems(t.Context(), "game-night")
		require.NoError(t, err)
		assert.Equal(t, "Bobby", reordered[0].Name)
		assert.Equal(t, "Alice", reordered[1].Name)
	})

	t.Run("answers conflict when a batch targets a missing item", func(t *testing.T) {
		updates := []session.ItemUpdate{{
			ItemID:  "99999999-9999-9999-9999-999999999999",
			NewName: "Ghost",
			NewList: turnlist.ListQueue,
		}}

		recorder := perform(t, engine, http.MethodPut, "/api/sessions/game-night/items", sdk.UpdateItemsRequest{Updates: updates})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("deletes an item", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodDelete, "/api/sessions/game-night/items/11111111-1111-1111-1111-111111111111", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		items, err := store.ListItems(t.Context(), "game-night")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("deleting a missing item still answers 200", func(t *testing.T) {
		recorder := perform(t, engine, http.MethodDelete, "/api/sessions/game-night/items/11111111-1111-1111-1111-111111111111", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
