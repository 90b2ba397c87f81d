package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Claims is the identity the auth gateway mints into its opaque bearer
// token: user id, actor role, the active store scope and, for supplier
// portal users, the supplier they act for — pipe-delimited. Store and
// supplier segments may be empty; the supplier segment may be absent
// entirely for tokens minted before the supplier portal existed.
type Claims struct {
	UserID     string
	Role       string
	StoreID    string
	SupplierID string
}

// ParseAuthToken decodes the gateway token, tolerating an optional
// "Bearer " prefix. Verification happened at the gateway; this only
// splits the claims out.
func ParseAuthToken(raw string) (Claims, error) {
	token := strings.TrimSpace(raw)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	parts := strings.SplitN(token, "|", 4)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{UserID: parts[0], Role: parts[1], StoreID: parts[2]}
	if len(parts) == 4 {
		claims.SupplierID = parts[3]
	}
	return claims, nil
}
