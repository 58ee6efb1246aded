package util

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"edudesk-backend/token"
)

// Authorize checks the request's bearer token against the token
// storage and verifies the role it was issued with. On success it
// returns the account id the token belongs to; on failure it has
// already written the error response and the handler must return.
func Authorize(ts *token.Storage, role string, w http.ResponseWriter, r *http.Request) (string, error) {
	userToken, err := BearerToken(r)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "missing bearer token")
		return "", err
	}

	accountID, err := ts.GetAccountByToken(userToken)
	if err != nil {
		log.Println("Authorize: invalid token")
		WriteErrorResponse(w, http.StatusUnauthorized, "token is invalid")
		return "", err
	}

	tokenRole, err := ts.GetRoleByToken(userToken)
	if err != nil {
		WriteErrorResponse(w, http.StatusUnauthorized, "token is invalid")
		return "", err
	}
	if tokenRole != role {
		log.Println("Authorize: account", accountID, "has role", tokenRole, "but", role, "is required")
		WriteErrorResponse(w, http.StatusForbidden, "user does not have permission for this request")
		return "", fmt.Errorf("role %q required", role)
	}
	return accountID, nil
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header")
	}
	return strings.TrimPrefix(authHeader, "Bearer "), nil
}
