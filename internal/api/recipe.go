package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkwell/recipe-api/internal/service"
	"github.com/forkwell/recipe-api/internal/types"
)

// 8 MiB cap on uploaded images.
const maxImageSize = 8 << 20

// RecipeHandler exposes recipe CRUD, list filtering and image upload.
type RecipeHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
}

func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

// List handles GET /recipe/recipes with optional `tags` and `ingredients`
// comma-separated id filters.
func (h *RecipeHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), uid, service.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	items := make([]types.RecipeListItem, 0, len(recipes))
	for i := range recipes {
		items = append(items, types.NewRecipeListItem(&recipes[i]))
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /recipe/recipes/:id.
func (h *RecipeHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), uid, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeDetail(recipe))
}

// Create handles POST /recipe/recipes.
func (h *RecipeHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), uid, &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeDetail(recipe))
}

// Update handles PATCH /recipe/recipes/:id. Attribute fields absent from
// the payload leave memberships untouched.
func (h *RecipeHandler) Update(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), uid, id, &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeDetail(recipe))
}

// Replace handles PUT /recipe/recipes/:id.
func (h *RecipeHandler) Replace(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	recipe, err := h.recipes.ReplaceRecipe(c.Request.Context(), uid, id, &req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeDetail(recipe))
}

// Delete handles DELETE /recipe/recipes/:id.
func (h *RecipeHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), uid, id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /recipe/recipes/:id/upload-image with a
// multipart "image" file.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Ownership check before touching storage.
	if _, err := h.recipes.GetRecipe(c.Request.Context(), uid, id); err != nil {
		serviceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}

	url, err := h.images.UploadRecipeImage(c.Request.Context(), data)
	if err != nil {
		serviceError(c, err)
		return
	}

	recipe, err := h.recipes.SetImageURL(c.Request.Context(), uid, id, url)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeDetail(recipe))
}
