package mux

import (
	"net/http"

	"cardtable-server/pkg/table"
)

type tableResponse struct {
	table.Status
	Mailboxes    int    `json:"mailboxes"`
	MailboxDrops uint64 `json:"mailboxDrops"`
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tableResponse{
			Status:       m.session.Status(),
			Mailboxes:    m.hub.Size(),
			MailboxDrops: m.hub.Drops(),
		})
	}
}
