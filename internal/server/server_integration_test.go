package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/brochure/internal/content"
	"github.com/ayusman/brochure/internal/store"
)

func TestAPI_TopicWorkflow(t *testing.T) {
	// Setup
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	engine := content.NewEngine(s.Topics(), rand.New(rand.NewPCG(1, 2)))
	cache := content.NewCache(engine, content.NewRenderer())

	srv := New(Config{
		Pages:         10,
		Textures:      cache,
		Topics:        s.Topics(),
		OnTopicChange: cache.Invalidate,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. The built-in page is served before anything is stored
	resp, err := client.Get(ts.URL + "/api/pages/0/texture")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	page, ok := cache.Page(0)
	require.True(t, ok)
	require.Equal(t, "INCREDIBLE INDIA", page.Title)

	// 2. Store a replacement cover
	createBody := `{"page_index": 0, "title": "WELCOME", "kind": "cover", "theme": "#A7C7E7"}`
	resp, err = client.Post(ts.URL+"/api/topics", "application/json", bytes.NewBufferString(createBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "WELCOME", created.Title)

	// 3. The texture is redrawn from the stored topic
	resp, err = client.Get(ts.URL + "/api/pages/0/texture")
	require.NoError(t, err)
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	require.NoError(t, err, "texture is not a PNG")
	assert.Equal(t, content.TextureWidth, img.Bounds().Dx())
	page, ok = cache.Page(0)
	assert.True(t, ok)
	assert.Equal(t, "WELCOME", page.Title)

	// 4. Delete the topic and fall back to the built-in page
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/topics/"+created.ID, nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/pages/0/texture")
	require.NoError(t, err)
	resp.Body.Close()
	page, _ = cache.Page(0)
	assert.Equal(t, "INCREDIBLE INDIA", page.Title)
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{Session: "abc"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Session string `json:"session"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "abc", health.Session)
}
