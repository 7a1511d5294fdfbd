package domain

import "time"

// Session tracks an authenticated client and its refresh token.
type Session struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	RefreshTokenHash     string    `json:"-"`
	ActiveOrganizationID string    `json:"activeOrganizationId,omitempty"`
	IPAddress            string    `json:"ipAddress,omitempty"`
	UserAgent            string    `json:"userAgent,omitempty"`
	ExpiresAt            time.Time `json:"expiresAt"`
	CreatedAt            time.Time `json:"createdAt"`
	LastSeenAt           time.Time `json:"lastSeenAt"`
}

// Touch updates the last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
