package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"bgpanel/core/auth"
	"bgpanel/core/sshkeys"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

type BoxHandler struct {
	boxes  store.BoxesStore
	oses   store.OSStore
	keys   *sshkeys.Inventory
	audits store.AuditStore
	logger *utils.Logger
}

func NewBoxHandler(boxes store.BoxesStore, oses store.OSStore, keys *sshkeys.Inventory, audits store.AuditStore, logger *utils.Logger) *BoxHandler {
	return &BoxHandler{boxes: boxes, oses: oses, keys: keys, audits: audits, logger: logger}
}

type boxForm struct {
	Name    string `json:"name"`
	OSID    int64  `json:"os_id"`
	Addr    string `json:"addr"`
	SSHPort int    `json:"ssh_port"`
	Login   string `json:"login"`
	KeyName string `json:"key_name"`
	Notes   string `json:"notes"`
	Status  string `json:"status"`
}

func (h *BoxHandler) List(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.boxes.List(r.Context())
	if err != nil {
		h.logger.Errorf("box list: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: boxes})
}

// Add serves the registration form metadata on GET (OS catalog plus the
// selectable SSH keys) and creates the box on POST.
func (h *BoxHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.formMeta(w, r)
		return
	}
	form, err := h.decodeBoxForm(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	errors := h.validateBoxForm(r, form)
	if len(errors) > 0 {
		writeFieldErrors(w, errors)
		return
	}
	box := &store.Box{
		Name:    form.Name,
		OSID:    form.OSID,
		Addr:    form.Addr,
		SSHPort: form.SSHPort,
		Login:   form.Login,
		KeyName: form.KeyName,
		Notes:   form.Notes,
		Status:  form.Status,
	}
	if _, err := h.boxes.Create(r.Context(), box); err != nil {
		h.logger.Errorf("box create: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	h.audit(r, "box_add", "name="+box.Name)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: box})
}

func (h *BoxHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	box, err := h.boxes.Get(r.Context(), id)
	if err != nil {
		h.logger.Errorf("box get: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	if box == nil {
		writeMessage(w, http.StatusNotFound, MsgWarning, "Box not found.")
		return
	}
	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, Response{Success: true, Data: box})
		return
	}
	form, err := h.decodeBoxForm(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	errors := h.validateBoxForm(r, form)
	if len(errors) > 0 {
		writeFieldErrors(w, errors)
		return
	}
	box.Name = form.Name
	box.OSID = form.OSID
	box.Addr = form.Addr
	box.SSHPort = form.SSHPort
	box.Login = form.Login
	box.KeyName = form.KeyName
	box.Notes = form.Notes
	box.Status = form.Status
	if err := h.boxes.Update(r.Context(), box); err != nil {
		h.logger.Errorf("box update: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	h.audit(r, "box_edit", "name="+box.Name)
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: box})
}

func (h *BoxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	box, err := h.boxes.Get(r.Context(), id)
	if err != nil {
		h.logger.Errorf("box get: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	if box == nil {
		writeMessage(w, http.StatusNotFound, MsgWarning, "Box not found.")
		return
	}
	if err := h.boxes.Delete(r.Context(), id); err != nil {
		h.logger.Errorf("box delete: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	h.audit(r, "box_delete", "name="+box.Name)
	WriteJSON(w, http.StatusOK, Response{Success: true})
}

// Keys lists the SSH keys selectable for box registrations.
func (h *BoxHandler) Keys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.List()
	if err != nil {
		h.logger.Errorf("key list: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: keys})
}

func (h *BoxHandler) formMeta(w http.ResponseWriter, r *http.Request) {
	oses, err := h.oses.List(r.Context())
	if err != nil {
		h.logger.Errorf("os list: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	keys, err := h.keys.List()
	if err != nil {
		h.logger.Errorf("key list: %v", err)
		keys = nil
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: map[string]any{
		"os":   oses,
		"keys": keys,
	}})
}

func (h *BoxHandler) decodeBoxForm(r *http.Request) (*boxForm, error) {
	form := &boxForm{}
	err := decodeForm(r, form, func(values map[string]string) {
		form.Name = values["name"]
		form.Addr = values["addr"]
		form.Login = values["login"]
		form.KeyName = values["key_name"]
		form.Notes = values["notes"]
		form.Status = values["status"]
		form.OSID, _ = strconv.ParseInt(values["os_id"], 10, 64)
		form.SSHPort, _ = strconv.Atoi(values["ssh_port"])
	})
	if err != nil {
		return nil, err
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Addr = strings.TrimSpace(form.Addr)
	form.Login = strings.TrimSpace(form.Login)
	if form.SSHPort == 0 {
		form.SSHPort = 22
	}
	if form.Status == "" {
		form.Status = store.StatusActive
	}
	return form, nil
}

func (h *BoxHandler) validateBoxForm(r *http.Request, form *boxForm) map[string]string {
	errors := map[string]string{}
	if form.Name == "" {
		errors["name"] = "Name is required."
	}
	if form.Addr == "" {
		errors["addr"] = "Address is required."
	} else if net.ParseIP(form.Addr) == nil && utils.ValidateHostname(form.Addr) != nil {
		errors["addr"] = "Address must be an IP or hostname."
	}
	if form.SSHPort < 1 || form.SSHPort > 65535 {
		errors["ssh_port"] = "SSH port must be between 1 and 65535."
	}
	if form.OSID <= 0 {
		errors["os_id"] = "Operating system is required."
	} else if os, err := h.oses.Get(r.Context(), form.OSID); err != nil || os == nil {
		errors["os_id"] = "Unknown operating system."
	}
	if form.KeyName != "" && !h.keys.Exists(form.KeyName) {
		errors["key_name"] = "Unknown SSH key."
	}
	if form.Status != store.StatusActive && form.Status != store.StatusInactive {
		errors["status"] = "Unknown status."
	}
	return errors
}

func (h *BoxHandler) audit(r *http.Request, action, details string) {
	username := ""
	if session := auth.SessionFromContext(r.Context()); session != nil {
		username = session.Username
	}
	if err := h.audits.Log(r.Context(), username, action, details); err != nil {
		h.logger.Errorf("audit %s: %v", action, err)
	}
}
