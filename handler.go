package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/julienschmidt/httprouter"
)

type contextKey string

const subjectContextKey = contextKey("subject")

var errInvalidToken = errors.New("invalid or missing token")

func CreateAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeAccountRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		id, err := svc.CreateAccount(req)
		if err != nil {
			encodeError(err, w)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, id))
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"id": id}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func AuthenticateHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeAuthenticateRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		req.IP = clientIP(r)
		session, err := svc.Authenticate(req)
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(session); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func LogoutHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		acc, err := svc.Logout(req.Username)
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(acc); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func ListAccountsHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		accs, err := svc.Accounts()
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(accs); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func GetAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		acc, err := svc.AccountByID(accountID(r))
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(acc); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func UpdateAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeAccountRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.UpdateAccount(accountID(r), req); err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func DeleteAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.DeleteAccount(accountID(r)); err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func AuditHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		subject, ok := r.Context().Value(subjectContextKey).(string)
		if !ok {
			encodeError(errInvalidToken, w)
			return
		}

		entries, err := svc.Audit(ID(subject))
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(entries); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// RequireAuth parses the bearer token with the given key and puts the
// token subject into the request context. The keys used to sign and
// to verify are the same explicit dependency; nothing is read from
// the environment here.
func RequireAuth(signingKey []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.Header().Set("Content-Type", "application/json")
			encodeError(errInvalidToken, w)
			return
		}

		claims := &jwt.StandardClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			return signingKey, nil
		})
		if err != nil || !token.Valid {
			w.Header().Set("Content-Type", "application/json")
			encodeError(errInvalidToken, w)
			return
		}

		ctx := context.WithValue(r.Context(), subjectContextKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func encodeError(err error, w http.ResponseWriter) {
	switch err {
	case ErrInvalidCredentials, errInvalidToken:
		w.WriteHeader(http.StatusUnauthorized)
	case ErrForbidden:
		w.WriteHeader(http.StatusForbidden)
	case ErrNotFound:
		w.WriteHeader(http.StatusNotFound)
	case ErrExistingUsername:
		w.WriteHeader(http.StatusConflict)
	case ErrInvalidUsername, ErrMissingName, ErrMissingRole, ErrMissingPassword:
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeAccountRequest(body io.ReadCloser) (accountRequest, error) {
	req := accountRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return accountRequest{}, err
	}
	return req, nil
}

func decodeAuthenticateRequest(body io.ReadCloser) (authenticateRequest, error) {
	req := authenticateRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return authenticateRequest{}, err
	}
	return req, nil
}

func accountID(r *http.Request) ID {
	params := httprouter.ParamsFromContext(r.Context())
	return ID(params.ByName("id"))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
