package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"fizcal/internal/services"
)

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("returns usage", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getUserCategoriesFn: func(string) ([]services.CategoryUsage, error) {
				return []services.CategoryUsage{{Name: "Food", TransactionCount: 3, BudgetCount: 1}}, nil
			},
		}
		r := gin.New()
		r.GET("/categories", injectUserID(testUserID), NewCategoryHandler(catSvc).GetUserCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cats := parseJSON(t, rec)["categories"].([]interface{})
		if len(cats) != 1 || cats[0].(map[string]interface{})["name"] != "Food" {
			t.Errorf("unexpected categories: %v", cats)
		}
	})

	t.Run("hides unexpected errors", func(t *testing.T) {
		catSvc := &mockCategoryService{
			getUserCategoriesFn: func(string) ([]services.CategoryUsage, error) {
				return nil, errors.New("disk on fire")
			},
		}
		r := gin.New()
		r.GET("/categories", injectUserID(testUserID), NewCategoryHandler(catSvc).GetUserCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})

	t.Run("requires a user", func(t *testing.T) {
		r := gin.New()
		r.GET("/categories", NewCategoryHandler(&mockCategoryService{}).GetUserCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
