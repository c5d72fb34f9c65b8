package store

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Firstname    string     `json:"firstname"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	Lang         string     `json:"lang"`
	Template     string     `json:"template"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Status       string     `json:"status"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	LastIP       string     `json:"last_ip,omitempty"`
	LastHost     string     `json:"last_host,omitempty"`
	Token        string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

type SessionRecord struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Firstname  string    `json:"firstname"`
	Lastname   string    `json:"lastname"`
	Lang       string    `json:"lang"`
	Template   string    `json:"template"`
	Role       string    `json:"role"`
	IP         string    `json:"ip"`
	Host       string    `json:"host"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type Box struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OSID      int64     `json:"os_id"`
	Addr      string    `json:"addr"`
	SSHPort   int       `json:"ssh_port"`
	Login     string    `json:"login"`
	KeyName   string    `json:"key_name"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OS struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
