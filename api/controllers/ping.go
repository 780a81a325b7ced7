package controllers

import (
	"net/http"

	"github.com/spinwin/prizewheel-backend/api/middleware"
	"github.com/spinwin/prizewheel-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "pong"})
	}
}

// AdminPing echoes the authenticated identity so the dashboard can verify a
// token without touching real resources.
func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"message": "pong",
			"email":   middleware.AdminEmailFromContext(r.Context()),
			"role":    middleware.RoleFromContext(r.Context()),
		})
	}
}
