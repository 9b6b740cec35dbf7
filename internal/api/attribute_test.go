package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagsRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, "GET", "/api/v1/recipe/tags", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListTags(t *testing.T) {
	env := setupTestEnv(t)
	token := env.signup(t, "tags@example.com", "password123")

	for _, name := range []string{"Vegan", "Dessert"} {
		w := env.request(t, "POST", "/api/v1/recipe/tags", token, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.request(t, "GET", "/api/v1/recipe/tags", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeList(t, w)
	require.Len(t, items, 2)
	// Descending by name.
	assert.Equal(t, "Vegan", items[0]["name"])
	assert.Equal(t, "Dessert", items[1]["name"])
}

func TestCreateTagValidation(t *testing.T) {
	env := setupTestEnv(t)
	token := env.signup(t, "tagval@example.com", "password123")

	w := env.request(t, "POST", "/api/v1/recipe/tags", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagsAssignedOnlyFilter(t *testing.T) {
	env := setupTestEnv(t)
	token := env.signup(t, "assigned@example.com", "password123")

	w := env.request(t, "POST", "/api/v1/recipe/tags", token, gin.H{"name": "Unused"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Attach "Popular" to two recipes; assigned_only must return it once.
	for _, title := range []string{"One", "Two"} {
		createRecipe(t, env, token, gin.H{
			"title": title,
			"tags":  []gin.H{{"name": "Popular"}},
		})
	}

	w = env.request(t, "GET", "/api/v1/recipe/tags?assigned_only=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeList(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Popular", items[0]["name"])

	w = env.request(t, "GET", "/api/v1/recipe/tags?assigned_only=0", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = env.request(t, "GET", "/api/v1/recipe/tags?assigned_only=banana", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagUpdateDeleteScoped(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.signup(t, "tag-owner@example.com", "password123")
	intruder := env.signup(t, "tag-intruder@example.com", "password123")

	w := env.request(t, "POST", "/api/v1/recipe/tags", owner, gin.H{"name": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(float64)
	path := fmt.Sprintf("/api/v1/recipe/tags/%.0f", id)

	w = env.request(t, "PATCH", path, intruder, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, "DELETE", path, intruder, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, "PATCH", path, owner, gin.H{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", decodeBody(t, w)["name"])

	w = env.request(t, "DELETE", path, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIngredientsEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	token := env.signup(t, "ing@example.com", "password123")

	w := env.request(t, "POST", "/api/v1/recipe/ingredients", token, gin.H{"name": "Salt"})
	require.Equal(t, http.StatusCreated, w.Code)

	createRecipe(t, env, token, gin.H{
		"title":       "Soup",
		"ingredients": []gin.H{{"name": "Water"}},
	})

	w = env.request(t, "GET", "/api/v1/recipe/ingredients?assigned_only=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeList(t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "Water", items[0]["name"])

	// Tag and ingredient namespaces stay separate.
	w = env.request(t, "GET", "/api/v1/recipe/tags", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}
