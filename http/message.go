package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

func (s *Server) registerMessageRoutes(r *mux.Router) {
	r.HandleFunc("/messages/new", s.requireAuth(s.handleNewMessageForm)).Methods("GET")
	r.HandleFunc("/messages/new", s.requireAuth(s.handleCreateMessage)).Methods("POST")
	r.HandleFunc("/messages/{id:[0-9]+}", s.handleShowMessage).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}/delete", s.requireAuth(s.handleDeleteMessage)).Methods("POST")
}

func (s *Server) handleNewMessageForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "message-new.html", nil)
}

// handleCreateMessage handles the route "POST /messages/new". The session
// user becomes the owner, whatever the form might claim.
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	curr := auth.GetUser(r.Context())
	message := domain.Message{
		Text:   r.PostFormValue("text"),
		UserID: curr.ID,
	}
	if err := s.ms.Create(&message); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
		s.render(w, r, "message-new.html", nil)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", curr.ID), http.StatusFound)
}

// handleShowMessage handles the route "GET /messages/{id}".
func (s *Server) handleShowMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	message, err := s.ms.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "message-show.html", &viewData{Message: message})
}

// handleDeleteMessage handles the route "POST /messages/{id}/delete".
// Only the owner may delete a message; anyone else gets flashed
// "Access unauthorized." and the message stays put.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	message, err := s.ms.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	curr := auth.GetUser(r.Context())
	if message.UserID != curr.ID {
		s.flash(w, r, "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := s.ms.Delete(message); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", curr.ID), http.StatusFound)
}
