package validators

import (
	"errors"
	"strings"
)

var (
	ErrMissingToken      = errors.New("missing bearer token")
	ErrUnsupportedScheme = errors.New("authorization scheme must be Bearer")
)

// BearerToken extracts the token from an Authorization header. A bare token
// without a scheme is accepted; any scheme other than Bearer is rejected.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return header, nil
	}
	if !strings.EqualFold(scheme, "bearer") {
		return "", ErrUnsupportedScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
