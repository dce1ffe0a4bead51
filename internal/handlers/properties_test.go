package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"realty-cms/internal/models"
	"realty-cms/internal/repository"
	"realty-cms/internal/storage"
	"realty-cms/internal/uploads"
)

// buildTestRouter creates a minimal router with the property routes over a
// temp-dir store and uploads tree.
func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "properties.json"))
	um := uploads.NewManager(t.TempDir(), "/uploads")
	repo := repository.New(store, um, nil)
	h := NewPropertyHandler(repo, nil)

	r := gin.New()
	r.GET("/api/properties", h.List)
	r.GET("/api/properties/featured", h.GetFeatured)
	r.GET("/api/properties/:id", h.Get)
	r.POST("/api/properties", h.Create)
	r.PUT("/api/properties/:id", h.Update)
	r.DELETE("/api/properties/:id", h.Delete)
	r.GET("/api/search", h.Search)
	return r
}

// multipartRequest builds a multipart body with a JSON data part plus
// keyed file parts.
func multipartRequest(t *testing.T, method, url string, data interface{}, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data part: %v", err)
	}
	if err := w.WriteField("data", string(payload)); err != nil {
		t.Fatalf("write data part: %v", err)
	}

	for key, content := range files {
		part, err := w.CreateFormFile(key, key+".bin")
		if err != nil {
			t.Fatalf("create file part %s: %v", key, err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file part %s: %v", key, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func createProperty(t *testing.T, r *gin.Engine, p models.Property, files map[string][]byte) string {
	t.Helper()

	req := multipartRequest(t, http.MethodPost, "/api/properties", p, files)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if body.ID == "" {
		t.Fatal("create response missing id")
	}
	return body.ID
}

func TestCreateAndGetProperty(t *testing.T) {
	r := buildTestRouter(t)

	id := createProperty(t, r, models.Property{
		Title:    "Lake view villa",
		Price:    "₹ 95,00,000",
		Location: "Bhimtal, Uttarakhand",
		Category: models.CategoryBuy,
	}, map[string][]byte{
		"image-0": []byte("img-bytes"),
		"video-0": []byte("vid-bytes"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/properties/"+id, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("get returned %d", resp.Code)
	}

	var p models.Property
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode property: %v", err)
	}
	if p.Title != "Lake view villa" {
		t.Fatalf("unexpected title %q", p.Title)
	}
	if len(p.Images) != 1 || len(p.VideoURLs) != 1 {
		t.Fatalf("media not attached: images=%v videos=%v", p.Images, p.VideoURLs)
	}
	if p.VideoURL != p.VideoURLs[0] {
		t.Fatalf("video mirror diverged: %q vs %q", p.VideoURL, p.VideoURLs[0])
	}
}

func TestGetUnknownPropertyIs404(t *testing.T) {
	r := buildTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/properties/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListWithFilters(t *testing.T) {
	r := buildTestRouter(t)

	createProperty(t, r, models.Property{
		Title: "Villa", Price: "95 L", Location: "Bhimtal, Uttarakhand",
		Category: models.CategoryBuy, PropertyType: "Villa",
	}, nil)
	createProperty(t, r, models.Property{
		Title: "Flat", Price: "1.2 Cr", Location: "Haldwani",
		Category: models.CategoryLease, PropertyType: "Flat",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/properties?category=buy&priceMax=10000000", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("list returned %d", resp.Code)
	}

	var body struct {
		Properties []models.Property `json:"properties"`
		Count      int               `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if body.Count != 1 || body.Properties[0].Title != "Villa" {
		t.Fatalf("unexpected filter result: %+v", body)
	}

	// Region alias surfaces the Haldwani record too
	req = httptest.NewRequest(http.MethodGet, "/api/properties?location=Uttarakhand", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected 2 via region alias, got %d", body.Count)
	}
}

func TestUpdateProperty(t *testing.T) {
	r := buildTestRouter(t)

	id := createProperty(t, r, models.Property{Title: "Before", Price: "45 L"}, nil)

	req := multipartRequest(t, http.MethodPut, "/api/properties/"+id,
		map[string]interface{}{"price": "50 L"}, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/properties/"+id, nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var p models.Property
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode property: %v", err)
	}
	if p.Price != "50 L" || p.Title != "Before" {
		t.Fatalf("partial update misapplied: %+v", p)
	}
}

func TestUpdateUnknownPropertyIs404(t *testing.T) {
	r := buildTestRouter(t)

	req := multipartRequest(t, http.MethodPut, "/api/properties/nope",
		map[string]interface{}{"price": "50 L"}, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteProperty(t *testing.T) {
	r := buildTestRouter(t)

	id := createProperty(t, r, models.Property{Title: "Doomed"}, map[string][]byte{
		"image-0": []byte("img"),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/properties/"+id, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete returned %d", resp.Code)
	}

	// Second delete of the same id is a 404, not an error
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/properties/"+id, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", resp.Code)
	}
}

func TestFeaturedOrdering(t *testing.T) {
	r := buildTestRouter(t)

	createProperty(t, r, models.Property{Title: "second", Featured: true, FeaturedOrder: 2}, nil)
	createProperty(t, r, models.Property{Title: "first", Featured: true, FeaturedOrder: 1}, nil)
	createProperty(t, r, models.Property{Title: "hidden"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/properties/featured", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		Properties []models.Property `json:"properties"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode featured response: %v", err)
	}
	if len(body.Properties) != 2 {
		t.Fatalf("expected 2 featured, got %d", len(body.Properties))
	}
	if body.Properties[0].Title != "first" || body.Properties[1].Title != "second" {
		t.Fatalf("featured order wrong: %+v", body.Properties)
	}
}

func TestSearchWithoutBackendIsUnavailable(t *testing.T) {
	r := buildTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=villa", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
