package handlers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/agromanage/agromanage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productBody struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

func wheatSeeds() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Wheat Seeds",
		"category":    "Seeds",
		"price":       12.5,
		"stock":       100,
		"description": "High-yield winter wheat",
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "farmer1", "secret1", types.RoleFarmer)

	rec := s.do(t, http.MethodPost, "/api/products", token, wheatSeeds())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := idOf(t, rec)

	rec = s.do(t, http.MethodGet, "/api/products/"+strconv.Itoa(int(id)), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got productBody
	decode(t, rec, &got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Wheat Seeds", got.Name)
	assert.Equal(t, "Seeds", got.Category)
	assert.Equal(t, "12.50", got.Price)
	assert.Equal(t, 100, got.Stock)
	require.NotNil(t, got.Description)
	assert.Equal(t, "High-yield winter wheat", *got.Description)
	assert.Nil(t, got.ImageURL)

	rec = s.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []productBody
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "12.50", list[0].Price)
}

func TestCreateProductRequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/products", "", wheatSeeds())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, s.products.products)
}

func TestCreateProductValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "admin", "admin123", types.RoleAdmin)

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		fields []string
	}{
		{"unknown category", func(b map[string]interface{}) { b["category"] = "Tools" }, []string{"category"}},
		{"negative price", func(b map[string]interface{}) { b["price"] = "-1" }, []string{"price"}},
		{"non numeric price", func(b map[string]interface{}) { b["price"] = "cheap" }, []string{"price"}},
		{"negative stock", func(b map[string]interface{}) { b["stock"] = -3 }, []string{"stock"}},
		{"missing stock", func(b map[string]interface{}) { delete(b, "stock") }, []string{"stock"}},
		{"missing name", func(b map[string]interface{}) { delete(b, "name") }, []string{"name"}},
		{"stock wrong type", func(b map[string]interface{}) { b["stock"] = "many" }, []string{"stock"}},
		{"stock as numeric string", func(b map[string]interface{}) { b["stock"] = "100" }, []string{"stock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := wheatSeeds()
			tt.mutate(body)

			rec := s.do(t, http.MethodPost, "/api/products", token, body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorsBody
			decode(t, rec, &resp)
			assert.ElementsMatch(t, tt.fields, resp.fields())
		})
	}
}

func TestCreateProductAcceptsZeroStock(t *testing.T) {
	s := newTestServer(t)
	_, token := s.addUser(t, "farmer1", "secret1", types.RoleFarmer)

	body := wheatSeeds()
	body["stock"] = 0
	body["price"] = "0"

	rec := s.do(t, http.MethodPost, "/api/products", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestGetProductErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.addUser(t, "admin", "admin123", types.RoleAdmin)
	_, farmer := s.addUser(t, "farmer1", "secret1", types.RoleFarmer)

	id := idOf(t, s.do(t, http.MethodPost, "/api/products", admin, wheatSeeds()))
	path := "/api/products/" + strconv.Itoa(int(id))

	body := wheatSeeds()
	body["price"] = "13.999"
	body["stock"] = 40

	rec := s.do(t, http.MethodPut, path, farmer, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, path, admin, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got productBody
	decode(t, rec, &got)
	assert.Equal(t, "14.00", got.Price)
	assert.Equal(t, 40, got.Stock)

	rec = s.do(t, http.MethodPut, "/api/products/999", admin, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.addUser(t, "admin", "admin123", types.RoleAdmin)
	_, farmer := s.addUser(t, "farmer1", "secret1", types.RoleFarmer)

	first := idOf(t, s.do(t, http.MethodPost, "/api/products", admin, wheatSeeds()))
	second := idOf(t, s.do(t, http.MethodPost, "/api/products", admin, wheatSeeds()))
	s.products.referenced[second] = true

	rec := s.do(t, http.MethodDelete, "/api/products/"+strconv.Itoa(int(first)), farmer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/products/"+strconv.Itoa(int(first)), admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/products/"+strconv.Itoa(int(first)), admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/products/"+strconv.Itoa(int(second)), admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
