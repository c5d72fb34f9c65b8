package api

import (
	"net/http"
	"strconv"

	"bgpanel/api/handlers"
)

// statusPage renders /{3-digit} as the matching HTTP status, mirroring the
// panel's error pages. Unknown codes fall through to 404.
func (s *Server) statusPage(w http.ResponseWriter, r *http.Request, codeStr string) {
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.pageNotFound(w)
		return
	}
	text := http.StatusText(code)
	if text == "" {
		s.pageNotFound(w)
		return
	}
	msg := text
	if code == http.StatusServiceUnavailable && s.cfg.Maintenance {
		msg = "The panel is under maintenance. Please come back later."
	}
	handlers.WriteJSON(w, code, handlers.Response{
		Success: false,
		MsgType: handlers.MsgWarning,
		Msg:     msg,
		Data:    map[string]any{"code": code, "text": text},
	})
}
