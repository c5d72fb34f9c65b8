package api

import (
	"net/http"

	"bgpanel/api/handlers"
	"bgpanel/core/auth"
	"bgpanel/core/rbac"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

const (
	defaultModule = "dashboard"
	defaultPage   = "index"
)

type pageKey struct {
	realm  string
	module string
	page   string
}

type pageRegistry map[pageKey]http.HandlerFunc

func (reg pageRegistry) register(realm, module, page string, h http.HandlerFunc) {
	reg[pageKey{realm: realm, module: module, page: page}] = h
}

func (reg pageRegistry) lookup(realm, module, page string) (http.HandlerFunc, bool) {
	h, ok := reg[pageKey{realm: realm, module: module, page: page}]
	return h, ok
}

// rootRedirect sends the visitor to the login page, to maintenance, or to
// their realm's landing page. A session carrying a role the panel no longer
// knows is destroyed on the spot.
func (s *Server) rootRedirect(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if session.Role != auth.RoleAdmin && session.Role != auth.RoleUser {
		s.destroySession(w, r, session)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if s.cfg.Maintenance && !auth.IsAdmin(session) {
		s.destroySession(w, r, session)
		http.Redirect(w, r, "/503", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/"+rbac.HomeRealm(session.Role)+"/dashboard", http.StatusFound)
}

// dispatch resolves /{seg1}/{seg2}/{seg3} into (realm, module, page) and
// runs the registered page. When the first segment is not a realm the
// segments shift into the common realm: the first becomes the module, the
// second the page, and the third is dropped.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, seg1, seg2, seg3 string) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	if s.cfg.Maintenance && !auth.IsAdmin(session) {
		s.destroySession(w, r, session)
		http.Redirect(w, r, "/503", http.StatusFound)
		return
	}

	var realm, module, page string
	if rbac.IsRealm(seg1) {
		realm, module, page = seg1, seg2, seg3
	} else {
		realm = rbac.RealmCommon
		module, page = seg1, seg2
	}
	if module == "" {
		module = defaultModule
	}
	if page == "" {
		page = defaultPage
	}
	if utils.ValidateModuleName(module) != nil || utils.ValidateModuleName(page) != nil {
		s.pageNotFound(w)
		return
	}

	if !s.policy.Allowed(session.Role, realm) {
		if s.logger != nil {
			s.logger.Printf("realm denied user=%s role=%s realm=%s", session.Username, session.Role, realm)
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	handler, ok := s.pages.lookup(realm, module, page)
	if !ok {
		observeDispatchMiss(realm, module)
		s.pageNotFound(w)
		return
	}
	observeDispatch(realm, module)
	handler(w, r)
}

func (s *Server) pageNotFound(w http.ResponseWriter) {
	handlers.WriteJSON(w, http.StatusNotFound, handlers.Response{
		Success: false, MsgType: handlers.MsgWarning, Msg: "Page not found.",
	})
}

func (s *Server) destroySession(w http.ResponseWriter, r *http.Request, session *store.SessionRecord) {
	if err := s.sessionManager.Logout(r.Context(), session.ID); err != nil && s.logger != nil {
		s.logger.Errorf("destroy session: %v", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   handlers.SessionCookie,
		Value:  "",
		Path:   s.cfg.BasePath,
		MaxAge: -1,
	})
}
