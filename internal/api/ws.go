package api

import "net/http"

// WebSocketHandler handles GET /ws. Clients authenticate with an
// application-level authenticate event after the upgrade.
func WebSocketHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Hub.ServeWS(w, r)
	}
}
