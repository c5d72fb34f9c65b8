package handlers

import (
	"net/http"
	"strconv"

	"bgpanel/core/auth"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

// PanelHandler serves the realm landing pages and the admin-only listings.
type PanelHandler struct {
	users  store.UsersStore
	boxes  store.BoxesStore
	audits store.AuditStore
	logger *utils.Logger
}

func NewPanelHandler(users store.UsersStore, boxes store.BoxesStore, audits store.AuditStore, logger *utils.Logger) *PanelHandler {
	return &PanelHandler{users: users, boxes: boxes, audits: audits, logger: logger}
}

func (h *PanelHandler) Home(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusUnauthorized, Response{Success: false, MsgType: MsgWarning, Msg: "Unauthorized."})
		return
	}
	data := map[string]any{
		"user": auth.UserDTO{
			ID:        session.UserID,
			Username:  session.Username,
			Firstname: session.Firstname,
			Lastname:  session.Lastname,
			Lang:      session.Lang,
			Template:  session.Template,
			Role:      session.Role,
		},
	}
	if auth.IsAdmin(session) {
		if boxes, err := h.boxes.List(r.Context()); err == nil {
			data["boxCount"] = len(boxes)
		}
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func (h *PanelHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Errorf("user list: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

func (h *PanelHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.audits.List(r.Context(), limit)
	if err != nil {
		h.logger.Errorf("audit list: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}
