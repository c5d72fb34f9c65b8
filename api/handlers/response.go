package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every panel endpoint answers with. Errors maps
// field names to validation messages; MsgType mirrors the panel's alert
// levels (success, warning, danger).
type Response struct {
	Success  bool              `json:"success"`
	Errors   map[string]string `json:"errors,omitempty"`
	MsgType  string            `json:"msgType,omitempty"`
	Msg      string            `json:"msg,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Data     any               `json:"data,omitempty"`
}

const (
	MsgSuccess = "success"
	MsgWarning = "warning"
	MsgDanger  = "danger"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldErrors(w http.ResponseWriter, errors map[string]string) {
	WriteJSON(w, http.StatusOK, Response{Success: false, Errors: errors})
}

func writeMessage(w http.ResponseWriter, status int, msgType, msg string) {
	WriteJSON(w, status, Response{Success: false, MsgType: msgType, Msg: msg})
}
