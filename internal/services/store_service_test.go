package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/models"
)

func newStoreService(t *testing.T, handler http.Handler) *StoreService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := authedSession(t)
	client, err := api.New(server.Client(), server.URL, session.Token)
	require.NoError(t, err)
	return NewStoreService(client, session)
}

func storeRouter(settings models.StoreSettings) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/store/settings/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(settings)
	})
	r.Get("/api/store/products/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]models.StoreProduct{
			{ID: 1, Name: "Notebook", Price: dec("120.00"), Stock: 40, IsVisible: true},
		})
	})
	r.Get("/api/store/policies/terms/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.StorePolicy{Kind: "terms", Content: "Be nice."})
	})
	return r
}

func TestStoreService_PublicURL(t *testing.T) {
	t.Run("custom domain wins", func(t *testing.T) {
		settings := models.StoreSettings{Subdomain: "anwar", CustomDomain: "shop.anwar.com"}
		assert.Equal(t, "https://shop.anwar.com", settings.PublicURL())
	})

	t.Run("falls back to platform subdomain", func(t *testing.T) {
		settings := models.StoreSettings{Subdomain: "anwar"}
		assert.Equal(t, "https://anwar.oxmanage.shop", settings.PublicURL())
	})
}

func TestStoreService_ShareQR(t *testing.T) {
	service := newStoreService(t, storeRouter(models.StoreSettings{Subdomain: "anwar"}))

	t.Run("requires loaded settings", func(t *testing.T) {
		_, err := service.ShareQR(256)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("renders a png", func(t *testing.T) {
		require.NoError(t, service.LoadSettings(context.Background()))

		image, err := service.ShareQR(256)
		require.NoError(t, err)
		require.NotEmpty(t, image)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, image[:4])
	})
}

func TestStoreService_Products(t *testing.T) {
	service := newStoreService(t, storeRouter(models.StoreSettings{}))

	products, err := service.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Notebook", products[0].Name)
	assert.True(t, products[0].Price.Equal(dec("120.00")))
}

func TestStoreService_Policy(t *testing.T) {
	service := newStoreService(t, storeRouter(models.StoreSettings{}))

	policy, err := service.Policy(context.Background(), "terms")
	require.NoError(t, err)
	assert.Equal(t, "Be nice.", policy.Content)
}
