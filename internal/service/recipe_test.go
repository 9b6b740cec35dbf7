package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkwell/recipe-api/internal/models"
	"github.com/forkwell/recipe-api/internal/testdb"
	"github.com/forkwell/recipe-api/internal/types"
)

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func intp(v int) *int { return &v }

func sampleRecipe(title string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Title:       title,
		Description: "Sample description",
		TimeMinutes: intp(10),
		Price:       decimal.NewFromFloat(5.25),
	}
}

func TestCreateRecipe(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "create@example.com")

	req := sampleRecipe("Avocado toast")
	req.Link = "https://example.com/avocado"
	recipe, err := svc.CreateRecipe(context.Background(), user.ID, req)
	require.NoError(t, err)

	assert.NotZero(t, recipe.ID)
	assert.Equal(t, "Avocado toast", recipe.Title)
	assert.Equal(t, 10, recipe.TimeMinutes)
	assert.True(t, recipe.Price.Equal(decimal.NewFromFloat(5.25)))
	assert.Empty(t, recipe.Tags)
	assert.Empty(t, recipe.Ingredients)
}

func TestCreateRecipeWithNestedAttributes(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "nested@example.com")
	ctx := context.Background()

	// "Indian" exists before the recipe write.
	existing := models.Tag{UserID: user.ID, Name: "Indian"}
	require.NoError(t, db.Create(&existing).Error)

	req := sampleRecipe("Tikka masala")
	req.Tags = []types.AttributeInput{{Name: "Indian"}, {Name: "Breakfast"}}
	req.Ingredients = []types.AttributeInput{{Name: "Chicken"}, {Name: "Rice"}}

	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	// Exactly 2 tags, one of which is the pre-existing row.
	require.Len(t, recipe.Tags, 2)
	names := map[string]uint{}
	for _, tag := range recipe.Tags {
		names[tag.Name] = tag.ID
	}
	assert.Equal(t, existing.ID, names["Indian"])
	assert.Contains(t, names, "Breakfast")

	// No duplicate "Indian" row was created.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount)

	require.Len(t, recipe.Ingredients, 2)
}

func TestCreateRecipeAttributesScopedPerUser(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	ctx := context.Background()

	// Bob already has a "Vegan" tag; Alice naming the same string must get
	// her own row, never Bob's.
	bobTag := models.Tag{UserID: bob.ID, Name: "Vegan"}
	require.NoError(t, db.Create(&bobTag).Error)

	req := sampleRecipe("Salad")
	req.Tags = []types.AttributeInput{{Name: "Vegan"}}
	recipe, err := svc.CreateRecipe(ctx, alice.ID, req)
	require.NoError(t, err)

	require.Len(t, recipe.Tags, 1)
	assert.NotEqual(t, bobTag.ID, recipe.Tags[0].ID)
	assert.Equal(t, alice.ID, recipe.Tags[0].UserID)
}

func TestUpdateRecipeReplacesTags(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "replace@example.com")
	ctx := context.Background()

	req := sampleRecipe("Curry")
	req.Tags = []types.AttributeInput{{Name: "Dinner"}, {Name: "Spicy"}}
	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	// Replace semantics: membership not named in the payload is removed.
	newTags := []types.AttributeInput{{Name: "Lunch"}}
	updated, err := svc.UpdateRecipe(ctx, user.ID, recipe.ID, &types.UpdateRecipeRequest{
		Tags: &newTags,
	})
	require.NoError(t, err)

	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "Lunch", updated.Tags[0].Name)

	// The detached rows persist independently of the recipe.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 3, tagCount)
}

func TestUpdateRecipeClearTags(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "clear@example.com")
	ctx := context.Background()

	req := sampleRecipe("Pasta")
	req.Tags = []types.AttributeInput{{Name: "Italian"}}
	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	empty := []types.AttributeInput{}
	updated, err := svc.UpdateRecipe(ctx, user.ID, recipe.ID, &types.UpdateRecipeRequest{
		Tags: &empty,
	})
	require.NoError(t, err)

	// tags: [] clears memberships but scalars stay unchanged.
	assert.Empty(t, updated.Tags)
	assert.Equal(t, "Pasta", updated.Title)
	assert.Equal(t, 10, updated.TimeMinutes)
}

func TestUpdateRecipeAbsentTagsUntouched(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "absent@example.com")
	ctx := context.Background()

	req := sampleRecipe("Stew")
	req.Tags = []types.AttributeInput{{Name: "Winter"}}
	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	newTitle := "Hearty stew"
	updated, err := svc.UpdateRecipe(ctx, user.ID, recipe.ID, &types.UpdateRecipeRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hearty stew", updated.Title)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "Winter", updated.Tags[0].Name)
}

func TestRecipeOwnershipScoping(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, owner.ID, sampleRecipe("Secret sauce"))
	require.NoError(t, err)

	// Every detail operation behaves as if the row does not exist.
	_, err = svc.GetRecipe(ctx, intruder.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	title := "Stolen"
	_, err = svc.UpdateRecipe(ctx, intruder.ID, recipe.ID, &types.UpdateRecipeRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteRecipe(ctx, intruder.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The target row is unaffected.
	got, err := svc.GetRecipe(ctx, owner.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret sauce", got.Title)
}

func TestListRecipesScopedAndOrdered(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	alice := createTestUser(t, db, "alice2@example.com")
	bob := createTestUser(t, db, "bob2@example.com")
	ctx := context.Background()

	first, err := svc.CreateRecipe(ctx, alice.ID, sampleRecipe("First"))
	require.NoError(t, err)
	second, err := svc.CreateRecipe(ctx, alice.ID, sampleRecipe("Second"))
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, bob.ID, sampleRecipe("Not yours"))
	require.NoError(t, err)

	recipes, err := svc.ListRecipes(ctx, alice.ID, RecipeFilter{})
	require.NoError(t, err)

	// Newest first, other users' rows absent.
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)
}

func TestListRecipesFiltered(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "filter@example.com")
	ctx := context.Background()

	curry := sampleRecipe("Curry")
	curry.Tags = []types.AttributeInput{{Name: "Dinner"}, {Name: "Spicy"}}
	curry.Ingredients = []types.AttributeInput{{Name: "Rice"}}
	curryRecipe, err := svc.CreateRecipe(ctx, user.ID, curry)
	require.NoError(t, err)

	toast := sampleRecipe("Toast")
	toast.Tags = []types.AttributeInput{{Name: "Breakfast"}}
	toastRecipe, err := svc.CreateRecipe(ctx, user.ID, toast)
	require.NoError(t, err)

	plain, err := svc.CreateRecipe(ctx, user.ID, sampleRecipe("Plain"))
	require.NoError(t, err)

	tagID := func(r *models.Recipe, name string) uint {
		for _, tag := range r.Tags {
			if tag.Name == name {
				return tag.ID
			}
		}
		t.Fatalf("tag %s not on recipe %s", name, r.Title)
		return 0
	}

	// OR within a kind: either tag matches.
	got, err := svc.ListRecipes(ctx, user.ID, RecipeFilter{
		TagIDs: []uint{tagID(curryRecipe, "Dinner"), tagID(toastRecipe, "Breakfast")},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// A recipe matching multiple filter values appears once.
	got, err = svc.ListRecipes(ctx, user.ID, RecipeFilter{
		TagIDs: []uint{tagID(curryRecipe, "Dinner"), tagID(curryRecipe, "Spicy")},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, curryRecipe.ID, got[0].ID)

	// AND across kinds when both filters are given.
	got, err = svc.ListRecipes(ctx, user.ID, RecipeFilter{
		TagIDs:        []uint{tagID(toastRecipe, "Breakfast")},
		IngredientIDs: []uint{curryRecipe.Ingredients[0].ID},
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	// No filter returns everything.
	got, err = svc.ListRecipes(ctx, user.ID, RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	_ = plain
}

func TestReplaceRecipe(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "put@example.com")
	ctx := context.Background()

	req := sampleRecipe("Original")
	req.Tags = []types.AttributeInput{{Name: "Keep?"}}
	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	// PUT without tags clears the membership set.
	replacement := sampleRecipe("Replaced")
	replacement.TimeMinutes = intp(99)
	got, err := svc.ReplaceRecipe(ctx, user.ID, recipe.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, "Replaced", got.Title)
	assert.Equal(t, 99, got.TimeMinutes)
	assert.Empty(t, got.Tags)
}

func TestDeleteRecipe(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "delete@example.com")
	ctx := context.Background()

	req := sampleRecipe("Doomed")
	req.Tags = []types.AttributeInput{{Name: "Gone"}}
	recipe, err := svc.CreateRecipe(ctx, user.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, user.ID, recipe.ID))

	_, err = svc.GetRecipe(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The tag row outlives the recipe.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)
}

// raceTagInsert commits a competing (user, name) tag row from a separate
// connection right before the next gorm Tag insert runs, so getOrCreate's
// own insert hits the unique index instead of the lookup finding the row.
func raceTagInsert(t *testing.T, db *gorm.DB, user *models.User, name string) {
	t.Helper()

	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("race_winner", func(d *gorm.DB) {
		if raced {
			return
		}
		if _, ok := d.Statement.Dest.(*models.Tag); !ok {
			return
		}
		raced = true

		// The raced flag is already set, so this nested create passes
		// straight through the callback and commits on its own connection.
		winner := models.Tag{UserID: user.ID, Name: name}
		require.NoError(t, db.Create(&winner).Error)
	})
	require.NoError(t, err)
}

func TestGetOrCreateLostInsertRace(t *testing.T) {
	db := testdb.Open(t)
	user := createTestUser(t, db, "race@example.com")
	raceTagInsert(t, db, user, "Contended")

	var tag models.Tag
	err := getOrCreate(db, &tag,
		map[string]interface{}{"user_id": user.ID, "name": "Contended"},
		&models.Tag{UserID: user.ID, Name: "Contended"})
	require.NoError(t, err)
	assert.Equal(t, "Contended", tag.Name)
	assert.NotZero(t, tag.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// Losing the race on postgres must not abort the enclosing transaction:
// the insert is skipped, the surviving row is attached, and later
// statements in the same transaction still run.
func TestGetOrCreateLostInsertRaceInTransactionPostgres(t *testing.T) {
	if testing.Short() || os.Getenv("CI") == "true" && os.Getenv("DOCKER_HOST") == "" {
		t.Skip("skipping container-backed test")
	}

	db := testdb.OpenPostgres(t)
	user := createTestUser(t, db, "race-pg@example.com")
	raceTagInsert(t, db, user, "Contended")

	var tagID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := getOrCreate(tx, &tag,
			map[string]interface{}{"user_id": user.ID, "name": "Contended"},
			&models.Tag{UserID: user.ID, Name: "Contended"}); err != nil {
			return err
		}
		tagID = tag.ID
		return tx.Create(&models.Tag{UserID: user.ID, Name: "Uncontended"}).Error
	})
	require.NoError(t, err)
	require.NotZero(t, tagID)

	var winner models.Tag
	require.NoError(t, db.First(&winner, "user_id = ? AND name = ?", user.ID, "Contended").Error)
	assert.Equal(t, winner.ID, tagID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestSetImageURL(t *testing.T) {
	db := testdb.Open(t)
	svc := NewRecipeService(db)
	user := createTestUser(t, db, "image@example.com")
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, user.ID, sampleRecipe("Photogenic"))
	require.NoError(t, err)

	got, err := svc.SetImageURL(ctx, user.ID, recipe.ID, "https://bucket.s3.amazonaws.com/recipe-images/x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipe-images/x.png", got.ImageURL)

	_, err = svc.SetImageURL(ctx, uuid.New(), recipe.ID, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
