package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"cardtable-server/pkg/table"
)

// Mux handles HTTP requests for the read-only status API
type Mux struct {
	*gmux.Router
	version string
	session *table.Session
	hub     *table.Hub
}

// NewMux returns a new HTTP mux
func NewMux(version string, session *table.Session, hub *table.Hub) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		session: session,
		hub:     hub,
	}

	this.Router.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	this.Router.Methods(http.MethodGet).Path("/api/table").Handler(this.getTable())
	this.Router.Methods(http.MethodGet).Path("/api/spectate").Handler(this.getSpectateWS())

	return this
}
