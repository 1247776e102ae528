package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect-go/internal/middleware"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// HandleCreate handles POST /posts.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	var req model.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.Create(r.Context(), callerID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// HandleList handles GET /posts.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleGet handles GET /posts/{id}.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate handles PUT /posts/{id}.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	var req model.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), callerID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleDelete handles DELETE /posts/{id}.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
