package httpkit

import (
	"net/http"

	perrs "codegap/internal/platform/errors"
	pnet "codegap/internal/platform/net"
)

// User returns the acting user id from the request context
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perrs.Unauthorizedf("missing user identity")
	}
	return uid, nil
}

// MustUser returns the acting user id or panics
// only use on routes protected by the auth middleware
func MustUser(r *http.Request) string {
	uid, err := User(r)
	if err != nil {
		panic(err)
	}
	return uid
}
