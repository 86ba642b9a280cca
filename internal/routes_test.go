package internal

import (
	"context"
	"scd/internal/controllers"
	"scd/internal/models"
	"scd/internal/services"
	"scd/internal/structures"
	"scd/internal/testutil"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRoutes(t *testing.T) {
	store := testutil.NewMockCounterStore()
	logger := &testutil.MockLogger{}
	query := services.NewQueryService(store, logger)
	send := models.SendFunc(func(_ context.Context, _ string, _ *models.SendParams) (json.RawMessage, error) {
		return json.RawMessage(`{}`), nil
	})
	apiController := controllers.NewApiController(logger, query, testutil.NewMockCache(), send)

	routers := InitRoutes(apiController, &structures.Config{})
	routes := routers.GetRoutes()
	require.Len(t, routes, 4)

	urls := make([]string, 0, len(routes))
	for _, route := range routes {
		urls = append(urls, route.Url)
	}
	assert.Equal(t, []string{"/send", "/stats/today", "/stats/yesterday", "/stats/groups"}, urls)
}
