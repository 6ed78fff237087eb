package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

type changePasswordRequest struct {
	Password        string `json:"password"`
	ActingSessionID string `json:"acting_session_id"`
}

type changePasswordResponse struct {
	SessionsDeleted int `json:"sessions_deleted"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid uid")
		return
	}

	var req changePasswordRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	deleted, err := h.credentials.ChangePassword(r.Context(), uid, req.Password, req.ActingSessionID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			h.respondError(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("password change failed", "uid", uid, "error", err)
		h.respondError(w, http.StatusInternalServerError, "password change failed")
		return
	}

	h.respondJSON(w, http.StatusOK, changePasswordResponse{SessionsDeleted: deleted})
}
