package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/nav"
)

// fakeNavigator records submitted requests.
type fakeNavigator struct {
	mu       sync.Mutex
	requests []nav.Request
	full     bool
}

func (f *fakeNavigator) Submit(req nav.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.requests = append(f.requests, req)
	return true
}

func (f *fakeNavigator) Requests() []nav.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nav.Request(nil), f.requests...)
}

type fakeTextures struct {
	err error
}

func (f fakeTextures) Texture(index int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89, 'P', 'N', 'G', byte(index)}, nil
}

type fakeToggle struct {
	enabled *bool
	err     error
}

func (f *fakeToggle) SetGesturesEnabled(enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.enabled = &enabled
	return nil
}

func TestServer_Health(t *testing.T) {
	s := New(Config{Session: "session-1", Hub: NewHub(nil)})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.Equal(t, "ok", response["status"])
		assert.Contains(t, response, "uptime")
		assert.Equal(t, "session-1", response["session"])
		assert.Equal(t, float64(0), response["clients"])
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/api/state", "/api/navigate", "/api/pages/0/texture"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestServer_State(t *testing.T) {
	s := New(Config{State: func() State {
		return State{
			Brochure: flip.Snapshot{Current: 3, PageCount: 10, Active: -1},
			Gestures: GestureState{Enabled: true, Status: "active"},
			Feedback: "Next Page",
			Turns:    2,
		}
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got State
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 3, got.Brochure.Current)
	assert.Equal(t, 10, got.Brochure.PageCount)
	assert.Equal(t, GestureState{Enabled: true, Status: "active"}, got.Gestures)
	assert.Equal(t, "Next Page", got.Feedback)
	assert.Equal(t, 2, got.Turns)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Navigate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       *nav.Request
	}{
		{"intent advance", `{"intent": "advance"}`, http.StatusAccepted, &nav.Request{Intent: nav.Advance, Source: nav.SourceHTTP}},
		{"intent alias", `{"intent": "prev"}`, http.StatusAccepted, &nav.Request{Intent: nav.Retreat, Source: nav.SourceHTTP}},
		{"key right", `{"key": "ArrowRight"}`, http.StatusAccepted, &nav.Request{Intent: nav.Advance, Source: nav.SourceKey}},
		{"key left", `{"key": "Left"}`, http.StatusAccepted, &nav.Request{Intent: nav.Retreat, Source: nav.SourceKey}},
		{"unknown intent", `{"intent": "sideways"}`, http.StatusBadRequest, nil},
		{"unknown key", `{"key": "Space"}`, http.StatusBadRequest, nil},
		{"empty", `{}`, http.StatusBadRequest, nil},
		{"invalid json", `{`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			navigator := &fakeNavigator{}
			s := New(Config{Navigator: navigator})

			req := httptest.NewRequest(http.MethodPost, "/api/navigate", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			got := navigator.Requests()
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, []nav.Request{*tt.want}, got)

			var resp map[string]bool
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.True(t, resp["accepted"])
		})
	}
}

func TestServer_NavigateInboxFull(t *testing.T) {
	s := New(Config{Navigator: &fakeNavigator{full: true}})

	req := httptest.NewRequest(http.MethodPost, "/api/navigate", bytes.NewBufferString(`{"intent":"next"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp["accepted"], "a full inbox should not accept the request")
}

func TestServer_NavigateMethod(t *testing.T) {
	s := New(Config{Navigator: &fakeNavigator{}})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/navigate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_Texture(t *testing.T) {
	s := New(Config{Textures: fakeTextures{}, Pages: 10})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/pages/0/texture", http.StatusOK},
		{"/api/pages/9/texture", http.StatusOK},
		{"/api/pages/10/texture", http.StatusNotFound},
		{"/api/pages/-1/texture", http.StatusNotFound},
		{"/api/pages/abc/texture", http.StatusNotFound},
		{"/api/pages/3", http.StatusNotFound},
		{"/api/pages/3/thumbnail", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			}
		})
	}

	t.Run("returns the page's texture", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages/7/texture", nil))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 7}, rec.Body.Bytes())
	})

	t.Run("only allows GET method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/pages/1/texture", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_TextureError(t *testing.T) {
	s := New(Config{Textures: fakeTextures{err: errors.New("paint failed")}, Pages: 10})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages/1/texture", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Gestures(t *testing.T) {
	toggle := &fakeToggle{}
	s := New(Config{Gestures: toggle})

	req := httptest.NewRequest(http.MethodPost, "/api/gestures", bytes.NewBufferString(`{"enabled": false}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, toggle.enabled)
	assert.False(t, *toggle.enabled, "gestures should be disabled")

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gestures", bytes.NewBufferString(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing field")

	failing := New(Config{Gestures: &fakeToggle{err: errors.New("disk full")}})
	rec = httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/gestures", bytes.NewBufferString(`{"enabled": true}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a test HTML file
	testContent := "<html><body>Brochure</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644))

	// Create a CSS file for testing direct file access
	cssContent := "body { color: red; }"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "style.css"), []byte(cssContent), 0644))

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testContent, rec.Body.String())
	})

	t.Run("serves static files from configured directory", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/style.css", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, cssContent, rec.Body.String())
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_NoStaticDir(t *testing.T) {
	s := New(Config{})

	t.Run("root path returns 404 when no static dir configured", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		require.NotNil(t, s)
		assert.Equal(t, cfg.StaticDir, s.config.StaticDir)
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}
