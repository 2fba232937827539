package handlers

import (
	"net/http"

	"tailorai/internal/domain"
)

type stylesResponse struct {
	Styles []domain.Style `json:"styles"`
}

// Styles lists the recognized styles for the client's selector.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, stylesResponse{Styles: a.Relay.Catalog().Styles()})
}
