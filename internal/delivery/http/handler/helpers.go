package handler

import (
	"net/http"
	"strconv"

	"clinic-inventory/internal/delivery/http/middleware"
	"clinic-inventory/internal/session"

	"github.com/gorilla/mux"
)

// flash queues a one-shot notice for the request's session. Best effort: a
// lost notice is not worth failing the request over.
func flash(r *http.Request, sessions *session.Service, notice string) {
	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		_ = sessions.AddFlash(r.Context(), sessionID, notice)
	}
}

// drainFlashes returns and clears the pending notices for the request's
// session.
func drainFlashes(r *http.Request, sessions *session.Service) []string {
	sessionID, ok := middleware.GetSessionIDFromContext(r.Context())
	if !ok {
		return nil
	}
	notices, err := sessions.Flashes(r.Context(), sessionID)
	if err != nil {
		return nil
	}
	return notices
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
