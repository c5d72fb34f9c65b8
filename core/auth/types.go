package auth

type contextKey string

// SessionContextKey carries the authenticated *store.SessionRecord through
// request contexts.
const SessionContextKey contextKey = "bgpanel.session"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type ResetRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	CaptchaValidation bool   `json:"captcha_validation"`
}

type UserDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Lang      string `json:"lang"`
	Template  string `json:"template"`
	Role      string `json:"role"`
}
