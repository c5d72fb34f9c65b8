package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"

	"bgpanel/api/handlers"
	"bgpanel/config"
	"bgpanel/core/auth"
	"bgpanel/core/ban"
	"bgpanel/core/janitor"
	"bgpanel/core/mailer"
	"bgpanel/core/rbac"
	"bgpanel/core/sshkeys"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

type Server struct {
	cfg            *config.AppConfig
	router         chi.Router
	httpServer     *http.Server
	db             *sql.DB
	logger         *utils.Logger
	sessionManager *auth.SessionManager
	users          store.UsersStore
	sessions       store.SessionsStore
	boxes          store.BoxesStore
	oses           store.OSStore
	audits         store.AuditStore
	policy         *rbac.Policy
	banCounter     *ban.Counter
	keys           *sshkeys.Inventory
	mail           mailer.Sender
	cookies        *securecookie.SecureCookie
	janitor        *janitor.Janitor
	pages          pageRegistry
}

func NewServer(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) (*Server, error) {
	policy, err := rbac.NewPolicy()
	if err != nil {
		return nil, err
	}
	sessions := store.NewSessionsStore(db)
	audits := store.NewAuditStore(db)
	s := &Server{
		cfg:            cfg,
		router:         chi.NewRouter(),
		db:             db,
		logger:         logger,
		sessionManager: auth.NewSessionManager(sessions, cfg.SessionTTL),
		users:          store.NewUsersStore(db),
		sessions:       sessions,
		boxes:          store.NewBoxesStore(db),
		oses:           store.NewOSStore(db),
		audits:         audits,
		policy:         policy,
		banCounter:     ban.NewCounter(cfg.Security.BanThreshold, cfg.Security.BanDuration),
		keys:           sshkeys.NewInventory(cfg.KeysDir),
		mail:           mailer.NewSMTPSender(cfg.Mail),
		cookies:        securecookie.New([]byte(cfg.CookieKey), nil),
		pages:          pageRegistry{},
	}
	s.janitor = janitor.New(cfg.Janitor, sessions, audits, logger)
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.securityHeadersMiddleware)
	s.router.Use(s.sessionMiddleware)
	s.router.Use(s.loggingMiddleware)

	authHandler := handlers.NewAuthHandler(s.cfg, s.users, s.sessionManager, s.banCounter, s.audits, s.mail, s.cookies, s.logger, s.clientIP)
	boxHandler := handlers.NewBoxHandler(s.boxes, s.oses, s.keys, s.audits, s.logger)
	panelHandler := handlers.NewPanelHandler(s.users, s.boxes, s.audits, s.logger)

	s.registerObservability()

	s.router.Get("/", s.rootRedirect)
	s.router.Get("/{code:[0-9]{3}}", func(w http.ResponseWriter, r *http.Request) {
		s.statusPage(w, r, chi.URLParam(r, "code"))
	})
	s.router.Get("/login", authHandler.LoginPage)
	s.router.Post("/login/process", authHandler.Login)
	s.router.Post("/login/password", authHandler.ResetPassword)
	s.router.Get("/logout", authHandler.Logout)

	dispatch := func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, r, chi.URLParam(r, "seg1"), chi.URLParam(r, "seg2"), chi.URLParam(r, "seg3"))
	}
	s.router.HandleFunc("/{seg1}", dispatch)
	s.router.HandleFunc("/{seg1}/{seg2}", dispatch)
	s.router.HandleFunc("/{seg1}/{seg2}/{seg3}", dispatch)

	// Realm pages. Every role reaches the common realm; the admin realm is
	// gated by the policy before lookup.
	s.pages.register(rbac.RealmAdmin, "dashboard", "index", panelHandler.Home)
	s.pages.register(rbac.RealmUser, "dashboard", "index", panelHandler.Home)
	s.pages.register(rbac.RealmCommon, "dashboard", "index", panelHandler.Home)
	s.pages.register(rbac.RealmCommon, "profile", "index", panelHandler.Home)

	s.pages.register(rbac.RealmAdmin, "box", "index", boxHandler.List)
	s.pages.register(rbac.RealmAdmin, "box", "add", boxHandler.Add)
	s.pages.register(rbac.RealmAdmin, "box", "edit", boxHandler.Edit)
	s.pages.register(rbac.RealmAdmin, "box", "delete", boxHandler.Delete)
	s.pages.register(rbac.RealmAdmin, "keys", "index", boxHandler.Keys)

	s.pages.register(rbac.RealmAdmin, "users", "index", panelHandler.Users)
	s.pages.register(rbac.RealmAdmin, "logs", "index", panelHandler.AuditLog)
}

func (s *Server) Start() error {
	if err := s.janitor.Start(); err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if s.logger != nil {
		s.logger.Printf("listening on %s", s.cfg.ListenAddr)
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.janitor.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
