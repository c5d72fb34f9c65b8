package handlers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"bgpanel/config"
	"bgpanel/core/auth"
	"bgpanel/core/ban"
	"bgpanel/core/mailer"
	"bgpanel/core/store"
	"bgpanel/core/utils"
)

const (
	// SessionCookie carries the panel session ID.
	SessionCookie = "bgpanel_session"
	// UsernameCookie remembers the login name across sessions, signed so a
	// tampered value is discarded. LangCookie mirrors the user's language.
	UsernameCookie = "USERNAME"
	LangCookie     = "LANG"

	// defaultRememberTTL is the original panel's two-week cookie lifetime,
	// used when the config carries no remember_me_ttl.
	defaultRememberTTL = 86400 * 7 * 2 * time.Second
)

type AuthHandler struct {
	cfg        *config.AppConfig
	users      store.UsersStore
	sessionMgr *auth.SessionManager
	banCounter *ban.Counter
	audits     store.AuditStore
	mail       mailer.Sender
	cookies    *securecookie.SecureCookie
	logger     *utils.Logger
	clientIP   func(*http.Request) string
}

func NewAuthHandler(cfg *config.AppConfig, users store.UsersStore, sessionMgr *auth.SessionManager, banCounter *ban.Counter, audits store.AuditStore, mail mailer.Sender, cookies *securecookie.SecureCookie, logger *utils.Logger, clientIP func(*http.Request) string) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		users:      users,
		sessionMgr: sessionMgr,
		banCounter: banCounter,
		audits:     audits,
		mail:       mail,
		cookies:    cookies,
		logger:     logger,
		clientIP:   clientIP,
	}
}

// LoginPage describes the login form state: maintenance notice and the
// remembered username, when its cookie signature checks out.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	page := map[string]any{
		"maintenance": h.cfg.Maintenance,
	}
	if c, err := r.Cookie(UsernameCookie); err == nil && c.Value != "" {
		var username string
		if err := h.cookies.Decode(UsernameCookie, c.Value, &username); err == nil {
			page["username"] = username
		}
	}
	if c, err := r.Cookie(LangCookie); err == nil && c.Value != "" {
		page["lang"] = c.Value
	}
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: page})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credentials
	if err := decodeForm(r, &cred, func(form map[string]string) {
		cred.Username = form["username"]
		cred.Password = form["password"]
		cred.RememberMe = form["rememberMe"] == "true" || form["rememberMe"] == "on"
	}); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	cred.Username = strings.TrimSpace(cred.Username)

	errors := map[string]string{}
	if cred.Username == "" {
		errors["username"] = "Username is required."
	} else if utils.ValidateUsername(cred.Username) != nil {
		errors["username"] = "Username must be alphanumeric."
	}
	if cred.Password == "" {
		errors["password"] = "Password is required."
	}
	if len(errors) > 0 {
		h.loginFailure(w, r, errors, false)
		return
	}

	ip := h.clientIP(r)

	// A banned client is turned away before any credential work, so the
	// lockout holds even for the right password.
	if h.banCounter.IsBanned(ip) {
		h.loginFailure(w, r, map[string]string{
			"username": "Invalid Credentials.",
			"password": "Invalid Credentials.",
		}, true)
		return
	}

	user, err := h.users.FindByUsername(r.Context(), cred.Username)
	if err != nil {
		h.logger.Errorf("login: find user: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}

	authenticated := false
	if user.IsActive() {
		if ph, err := auth.ParsePasswordHash(user.PasswordHash, user.Salt); err == nil {
			ok, err := auth.VerifyPassword(cred.Password, h.cfg.Pepper, ph)
			authenticated = err == nil && ok
		}
	}

	if !authenticated {
		clearCookie(w, UsernameCookie, h.cfg.BasePath)
		banned := h.banCounter.Increment(ip)
		h.logger.Printf("login failure user=%s ip=%s", cred.Username, ip)
		observeLogin("failure")
		action := "login_failure"
		if banned {
			action = "login_ban"
		}
		if err := h.audits.Log(r.Context(), cred.Username, action, "ip="+ip); err != nil {
			h.logger.Errorf("login: audit: %v", err)
		}
		h.loginFailure(w, r, map[string]string{
			"username": "Invalid Credentials.",
			"password": "Invalid Credentials.",
		}, banned)
		return
	}

	h.banCounter.Reset(ip)

	host := lookupHost(ip)
	session, err := h.sessionMgr.Create(r.Context(), user, ip, host)
	if err != nil {
		h.logger.Errorf("login: create session: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	if err := h.users.RecordLogin(r.Context(), user.ID, time.Now().UTC(), ip, host, session.ID); err != nil {
		h.logger.Errorf("login: record login: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     h.cfg.BasePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if cred.RememberMe {
		if encoded, err := h.cookies.Encode(UsernameCookie, user.Username); err == nil {
			http.SetCookie(w, &http.Cookie{
				Name:    UsernameCookie,
				Value:   encoded,
				Path:    h.cfg.BasePath,
				Expires: time.Now().Add(h.rememberTTL()),
			})
		}
	} else {
		clearCookie(w, UsernameCookie, h.cfg.BasePath)
	}
	http.SetCookie(w, &http.Cookie{
		Name:    LangCookie,
		Value:   user.Lang,
		Path:    h.cfg.BasePath,
		Expires: time.Now().Add(h.rememberTTL()),
	})

	if err := h.audits.Log(r.Context(), user.Username, "login", "ip="+ip); err != nil {
		h.logger.Errorf("login: audit: %v", err)
	}
	h.logger.Printf("login success user=%s ip=%s", user.Username, ip)
	observeLogin("success")

	WriteJSON(w, http.StatusOK, Response{
		Success:  true,
		MsgType:  MsgSuccess,
		Redirect: "/" + homeRealmOf(user.Role),
		Data:     auth.UserDTO{ID: user.ID, Username: user.Username, Firstname: user.Firstname, Lastname: user.Lastname, Lang: user.Lang, Template: user.Template, Role: user.Role},
	})
}

func (h *AuthHandler) rememberTTL() time.Duration {
	if h.cfg != nil && h.cfg.Security.RememberMeTTL > 0 {
		return h.cfg.Security.RememberMeTTL
	}
	return defaultRememberTTL
}

func (h *AuthHandler) loginFailure(w http.ResponseWriter, r *http.Request, errors map[string]string, banned bool) {
	resp := Response{Success: false, Errors: errors, MsgType: MsgWarning, Msg: "Login Failure!"}
	if banned {
		observeLogin("banned")
		resp.Msg = fmt.Sprintf("You have been banned %d seconds!", h.cfg.BanSeconds())
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Logout destroys a valid session and bounces to the login page. Without
// one the request terminates with no effect, as the original route does.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return
	}
	session, _ := h.sessionMgr.Validate(r.Context(), c.Value)
	if session == nil {
		return
	}
	if err := h.sessionMgr.Logout(r.Context(), c.Value); err != nil {
		h.logger.Errorf("logout: %v", err)
	}
	if err := h.audits.Log(r.Context(), session.Username, "logout", ""); err != nil {
		h.logger.Errorf("logout: audit: %v", err)
	}
	clearCookie(w, SessionCookie, h.cfg.BasePath)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// ResetPassword regenerates a user's password and mails it in plain text.
// Bad information counts toward the requester's ban, same as a failed login.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetRequest
	if err := decodeForm(r, &req, func(form map[string]string) {
		req.Username = form["username"]
		req.Email = form["email"]
		req.CaptchaValidation = form["captcha_validation"] == "true"
	}); err != nil {
		writeMessage(w, http.StatusBadRequest, MsgWarning, "Bad request.")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errors := map[string]string{}
	if req.Username == "" {
		errors["username"] = "Username is required."
	} else if utils.ValidateUsername(req.Username) != nil {
		errors["username"] = "Username must be alphanumeric."
	}
	if req.Email == "" {
		errors["email"] = "Email is required."
	} else if utils.ValidateEmail(req.Email) != nil {
		errors["email"] = "Email is not valid."
	}
	if len(errors) > 0 {
		h.resetFailure(w, r, errors)
		return
	}

	ip := h.clientIP(r)
	if h.banCounter.IsBanned(ip) {
		h.resetFailure(w, r, map[string]string{
			"username": "Wrong information.",
			"email":    "Wrong information.",
		})
		return
	}

	user, err := h.users.FindByUsernameEmail(r.Context(), req.Username, req.Email)
	if err != nil {
		h.logger.Errorf("reset: find user: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	if user == nil || !user.IsActive() || !req.CaptchaValidation {
		h.banCounter.Increment(ip)
		h.logger.Printf("bad password reset user=%s ip=%s", req.Username, ip)
		errors := map[string]string{}
		if user == nil || !user.IsActive() {
			errors["username"] = "Wrong information."
			errors["email"] = "Wrong information."
		}
		if !req.CaptchaValidation {
			errors["captcha"] = "Wrong CAPTCHA Code."
		}
		h.resetFailure(w, r, errors)
		return
	}

	h.banCounter.Reset(ip)

	plain, err := auth.RandomPassword(auth.ResetPasswordLength)
	if err != nil {
		h.logger.Errorf("reset: random password: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	ph, err := auth.HashPassword(plain, h.cfg.Pepper)
	if err != nil {
		h.logger.Errorf("reset: hash password: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, ph.Hash, ph.Salt); err != nil {
		h.logger.Errorf("reset: update password: %v", err)
		writeMessage(w, http.StatusInternalServerError, MsgDanger, "Internal error.")
		return
	}
	// The old password no longer works, so open sessions go too.
	if err := h.sessionMgr.LogoutUser(r.Context(), user.ID); err != nil {
		h.logger.Errorf("reset: logout sessions: %v", err)
	}
	if err := h.audits.Log(r.Context(), user.Username, "password_reset", "ip="+ip); err != nil {
		h.logger.Errorf("reset: audit: %v", err)
	}
	h.logger.Printf("password reset user=%s ip=%s", user.Username, ip)

	subject, body := mailer.ResetMail(plain, ip)
	if err := h.mail.Send(user.Email, subject, body); err != nil {
		h.logger.Errorf("reset: send mail: %v", err)
		WriteJSON(w, http.StatusOK, Response{
			Success: false,
			MsgType: MsgDanger,
			Msg:     "An error has occured while sending the email. Contact your system administrator.",
		})
		return
	}

	WriteJSON(w, http.StatusOK, Response{Success: true})
}

func (h *AuthHandler) resetFailure(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	resp := Response{Success: false, Errors: errors, MsgType: MsgWarning, Msg: "Invalid information provided!"}
	if h.banCounter.IsBanned(h.clientIP(r)) {
		resp.Msg = fmt.Sprintf("You have been banned %d seconds!", h.cfg.BanSeconds())
	}
	WriteJSON(w, http.StatusOK, resp)
}

func homeRealmOf(role string) string {
	if role == auth.RoleAdmin {
		return "admin"
	}
	return "user"
}

func lookupHost(ip string) string {
	names, err := net.LookupAddr(ip)
	if err != nil || len(names) == 0 {
		return ip
	}
	return strings.TrimSuffix(names[0], ".")
}

func clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    path,
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}

// decodeForm accepts either a JSON body or classic form values, matching the
// panel's AJAX forms.
func decodeForm(r *http.Request, jsonDest any, fromForm func(map[string]string)) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return json.NewDecoder(r.Body).Decode(jsonDest)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	form := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		form[key] = r.PostForm.Get(key)
	}
	fromForm(form)
	return nil
}
