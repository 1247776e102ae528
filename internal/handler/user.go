package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devconnect/devconnect-go/internal/middleware"
	"github.com/devconnect/devconnect-go/internal/model"
	"github.com/devconnect/devconnect-go/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleCreate handles POST /users (registration, public).
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleList handles GET /users.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleProfile handles GET /users/profile, returning the caller's own
// record.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "unauthorized"})
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGet handles GET /users/{id}.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdate handles PUT /users/{id}.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete handles DELETE /users/{id}.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// HandleChangePassword handles PUT /users/{id}/change-password.
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// HandleAddSkill handles POST /users/{id}/skills.
func (h *UserHandler) HandleAddSkill(w http.ResponseWriter, r *http.Request) {
	var req model.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.AddSkill(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleUpdateSkill handles PUT /users/{id}/skills/{name}.
func (h *UserHandler) HandleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	var req model.SkillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateSkill(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleAddExperience handles POST /users/{id}/experiences.
func (h *UserHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	var req model.ExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.AddExperience(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleUpdateExperience handles PUT /users/{id}/experiences.
func (h *UserHandler) HandleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateExperience(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
