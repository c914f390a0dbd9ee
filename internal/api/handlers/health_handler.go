package handlers

import (
	"net/http"

	"github.com/shopnest/shopnest-be/internal/api/respond"
)

// HealthCheck reports service liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{}, "OK")
}
