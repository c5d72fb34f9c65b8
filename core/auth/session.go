package auth

import (
	"context"
	"time"

	"bgpanel/core/store"
	"github.com/gofrs/uuid/v5"
)

// SessionManager issues and resolves panel sessions. Session IDs are always
// generated server-side; identifiers supplied by a client are never promoted
// into new sessions.
type SessionManager struct {
	sessions store.SessionsStore
	ttl      time.Duration
}

func NewSessionManager(sessions store.SessionsStore, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionManager{sessions: sessions, ttl: ttl}
}

// Create opens a fresh session for the user with a newly minted UUID.
func (m *SessionManager) Create(ctx context.Context, user *store.User, ip, host string) (*store.SessionRecord, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec := &store.SessionRecord{
		ID:         id.String(),
		UserID:     user.ID,
		Username:   user.Username,
		Firstname:  user.Firstname,
		Lastname:   user.Lastname,
		Lang:       user.Lang,
		Template:   user.Template,
		Role:       user.Role,
		IP:         ip,
		Host:       host,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.sessions.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate resolves a session ID to its record, returning (nil, nil) for
// unknown or expired sessions. Valid sessions get their last-seen time
// refreshed.
func (m *SessionManager) Validate(ctx context.Context, id string) (*store.SessionRecord, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := m.sessions.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := m.sessions.Touch(ctx, rec.ID, now); err != nil {
		return nil, err
	}
	rec.LastSeenAt = now
	return rec, nil
}

func (m *SessionManager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.sessions.Delete(ctx, id)
}

func (m *SessionManager) LogoutUser(ctx context.Context, userID int64) error {
	return m.sessions.DeleteForUser(ctx, userID)
}

// SessionFromContext returns the request's session, or nil when anonymous.
func SessionFromContext(ctx context.Context) *store.SessionRecord {
	rec, _ := ctx.Value(SessionContextKey).(*store.SessionRecord)
	return rec
}

func IsAdmin(rec *store.SessionRecord) bool {
	return rec != nil && rec.Role == RoleAdmin
}
