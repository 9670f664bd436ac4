// Package api provides HTTP handlers for editing brochure content.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/brochure/internal/content"
	"github.com/ayusman/brochure/internal/store"
)

// TopicStore is the persistence the topic handler needs.
type TopicStore interface {
	Create(t *store.Topic) error
	GetByID(id string) (*store.Topic, error)
	List() ([]*store.Topic, error)
	Update(t *store.Topic) error
	Delete(id string) error
}

// ChangeFunc is called with the page index of every topic that was created,
// changed or removed.
type ChangeFunc func(pageIndex int)

// TopicHandler handles HTTP requests for topic resources.
type TopicHandler struct {
	topics   TopicStore
	onChange ChangeFunc
}

// NewTopicHandler creates a new TopicHandler. onChange may be nil.
func NewTopicHandler(topics TopicStore, onChange ChangeFunc) *TopicHandler {
	return &TopicHandler{topics: topics, onChange: onChange}
}

// ServeHTTP routes /api/topics and /api/topics/{id}.
func (h *TopicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/topics")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type topicRequest struct {
	PageIndex *int                  `json:"page_index"`
	Title     *string               `json:"title"`
	Subtitle  *string               `json:"subtitle"`
	Kind      *string               `json:"kind"`
	Theme     *string               `json:"theme"`
	Art       *string               `json:"art"`
	Body      []string              `json:"body"`
	Pools     map[string]store.Pool `json:"pools"`
}

type topicResponse struct {
	ID        string                `json:"id"`
	PageIndex int                   `json:"page_index"`
	Title     string                `json:"title"`
	Subtitle  string                `json:"subtitle"`
	Kind      string                `json:"kind"`
	Theme     string                `json:"theme"`
	Art       string                `json:"art"`
	Body      []string              `json:"body"`
	Pools     map[string]store.Pool `json:"pools"`
	CreatedAt string                `json:"created_at"`
	UpdatedAt string                `json:"updated_at"`
}

type listTopicsResponse struct {
	Topics []topicResponse `json:"topics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(t *store.Topic) topicResponse {
	body := t.Body
	if body == nil {
		body = []string{}
	}
	pools := t.Pools
	if pools == nil {
		pools = map[string]store.Pool{}
	}
	return topicResponse{
		ID:        t.ID,
		PageIndex: t.PageIndex,
		Title:     t.Title,
		Subtitle:  t.Subtitle,
		Kind:      t.Kind,
		Theme:     t.Theme,
		Art:       t.Art,
		Body:      body,
		Pools:     pools,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: t.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

func (h *TopicHandler) changed(indexes ...int) {
	if h.onChange == nil {
		return
	}
	for _, i := range indexes {
		h.onChange(i)
	}
}

// apply copies the fields present in req onto t and validates the result.
func apply(t *store.Topic, req *topicRequest) error {
	if req.PageIndex != nil {
		t.PageIndex = *req.PageIndex
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Subtitle != nil {
		t.Subtitle = *req.Subtitle
	}
	if req.Kind != nil {
		t.Kind = *req.Kind
	}
	if req.Theme != nil {
		t.Theme = *req.Theme
	}
	if req.Art != nil {
		t.Art = *req.Art
	}
	if req.Body != nil {
		t.Body = req.Body
	}
	if req.Pools != nil {
		t.Pools = req.Pools
	}

	if t.PageIndex < 0 {
		return errors.New("page_index must not be negative")
	}
	switch t.Kind {
	case store.KindCover, store.KindStandard, store.KindList:
	default:
		return errors.New("invalid kind")
	}
	if _, err := content.ParseColor(t.Theme); err != nil {
		return errors.New("invalid theme color")
	}
	return nil
}

// list handles GET /api/topics.
func (h *TopicHandler) list(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.List()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list topics")
		return
	}

	response := listTopicsResponse{
		Topics: make([]topicResponse, 0, len(topics)),
	}
	for _, t := range topics {
		response.Topics = append(response.Topics, toResponse(t))
	}

	WriteJSON(w, http.StatusOK, response)
}

// get handles GET /api/topics/{id}.
func (h *TopicHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	topic, err := h.topics.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Topic not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get topic")
		return
	}

	WriteJSON(w, http.StatusOK, toResponse(topic))
}

// create handles POST /api/topics.
func (h *TopicHandler) create(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PageIndex == nil {
		WriteError(w, http.StatusBadRequest, "page_index is required")
		return
	}

	topic := &store.Topic{Kind: store.KindStandard, Theme: content.Gold, Art: content.ArtNone}
	if err := apply(topic, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.topics.Create(topic); err != nil {
		// page_index is unique
		WriteError(w, http.StatusConflict, "Failed to create topic")
		return
	}

	h.changed(topic.PageIndex)
	WriteJSON(w, http.StatusCreated, toResponse(topic))
}

// update handles PUT /api/topics/{id}.
func (h *TopicHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	topic, err := h.topics.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Topic not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get topic")
		return
	}

	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	oldIndex := topic.PageIndex
	if err := apply(topic, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.topics.Update(topic); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Topic not found")
			return
		}
		WriteError(w, http.StatusConflict, "Failed to update topic")
		return
	}

	if oldIndex != topic.PageIndex {
		h.changed(oldIndex, topic.PageIndex)
	} else {
		h.changed(topic.PageIndex)
	}
	WriteJSON(w, http.StatusOK, toResponse(topic))
}

// delete handles DELETE /api/topics/{id}.
func (h *TopicHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	topic, err := h.topics.GetByID(id)
	if err == nil {
		err = h.topics.Delete(id)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Topic not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete topic")
		return
	}

	h.changed(topic.PageIndex)
	w.WriteHeader(http.StatusNoContent)
}
