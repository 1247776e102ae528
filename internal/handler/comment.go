package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect-go/internal/middleware"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	service *service.CommentService
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{service: svc}
}

// HandleCreate handles POST /comments/{postID}.
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	var req model.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.Create(r.Context(), chi.URLParam(r, "postID"), callerID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// HandleList handles GET /comments?postId=.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.FindByPost(r.Context(), r.URL.Query().Get("postId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleGet handles GET /comments/{id}.
func (h *CommentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleUpdate handles PATCH /comments/{id}.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	var req model.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), callerID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete handles DELETE /comments/{id}.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
