package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errInternal        = errors.New("internal server error")
)

func RegisterAccountHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterAccountRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		profile, err := svc.RegisterAccount(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(profile); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeLoginRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		if err = json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// ActivateHandler accepts the token either as ?token= or as the :token
// path parameter.
func ActivateHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		token := r.URL.Query().Get("token")
		if token == "" {
			token = httprouter.ParamsFromContext(r.Context()).ByName("token")
		}

		if err := svc.Activate(r.Context(), token); err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "account activated successfully",
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

// ProfileHandler returns the profile of the request's principal.
func ProfileHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		p, ok := PrincipalFrom(r.Context())
		if !ok {
			encodeError(errUnauthenticated, w)
			return
		}

		profile, err := svc.Profile(r.Context(), p.Email)
		if err != nil {
			encodeError(err, w)
			return
		}

		if err := json.NewEncoder(w).Encode(profile); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
}

func encodeError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, errUnauthenticated),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrTokenSignatureInvalid):
		err = errUnauthenticated
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrActivationTokenNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrDuplicateEmail):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrInvalidFullName):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		err = errInternal
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// EncodeError writes err as a JSON error body with a status code matching
// its kind. Errors of unknown kind are reported generically.
func EncodeError(err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	encodeError(err, w)
}

func decodeRegisterAccountRequest(body io.ReadCloser) (registerAccountRequest, error) {
	req := registerAccountRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerAccountRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(body io.ReadCloser) (loginRequest, error) {
	req := loginRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}
