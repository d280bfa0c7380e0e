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

func (s *Server) registerUserRoutes(r *mux.Router) {
	r.HandleFunc("/users", s.handleUsersIndex).Methods("GET")

	// Edit or delete the logged in user's own account.
	r.HandleFunc("/users/profile", s.requireAuth(s.handleProfileForm)).Methods("GET")
	r.HandleFunc("/users/profile", s.requireAuth(s.handleProfileUpdate)).Methods("POST")
	r.HandleFunc("/users/delete", s.requireAuth(s.handleDeleteUser)).Methods("POST")

	// Follow graph mutation.
	r.HandleFunc("/users/follow/{id:[0-9]+}", s.requireAuth(s.handleFollow)).Methods("POST")
	r.HandleFunc("/users/stop-following/{id:[0-9]+}", s.requireAuth(s.handleStopFollowing)).Methods("POST")

	// Like / unlike a message.
	r.HandleFunc("/users/add_like/{message_id:[0-9]+}", s.requireAuth(s.handleAddLike)).Methods("POST")
	r.HandleFunc("/users/remove_like/{message_id:[0-9]+}", s.requireAuth(s.handleRemoveLike)).Methods("POST")

	// Public profile pages and the gated relationship pages.
	r.HandleFunc("/users/{id:[0-9]+}", s.handleUsersShow).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/following", s.requireAuth(s.handleFollowing)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/followers", s.requireAuth(s.handleFollowers)).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}/likes", s.requireAuth(s.handleLikesIndex)).Methods("GET")
}

// handleUsersIndex handles the route "GET /users". An optional ?q= narrows
// the listing down to usernames containing the term.
func (s *Server) handleUsersIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	var users []domain.User
	var err error
	if query == "" {
		users, err = s.us.All()
	} else {
		users, err = s.us.Search(query)
	}
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "users-index.html", &viewData{Users: users, Query: query})
}

// handleUsersShow handles the route "GET /users/{id}", the public profile
// page with the user's messages and relationship stats.
func (s *Server) handleUsersShow(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromVars(w, r, "id")
	if !ok {
		return
	}
	data := &viewData{
		User:         user,
		Messages:     user.Messages,
		MessageCount: len(user.Messages),
	}
	var err error
	if data.FollowingCount, err = s.fs.CountFollowing(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if data.FollowersCount, err = s.fs.CountFollowers(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if data.LikesCount, err = s.ls.CountByUserID(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if curr := auth.GetUser(r.Context()); curr != nil {
		data.IsFollowing = s.fs.IsFollowing(curr.ID, user.ID)
	}
	s.render(w, r, "users-show.html", data)
}

// handleFollowing handles the route "GET /users/{id}/following".
func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromVars(w, r, "id")
	if !ok {
		return
	}
	users, err := s.fs.FollowingOf(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "users-following.html", &viewData{User: user, Users: users})
}

// handleFollowers handles the route "GET /users/{id}/followers".
func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromVars(w, r, "id")
	if !ok {
		return
	}
	users, err := s.fs.FollowersOf(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "users-followers.html", &viewData{User: user, Users: users})
}

// handleLikesIndex handles the route "GET /users/{id}/likes".
func (s *Server) handleLikesIndex(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromVars(w, r, "id")
	if !ok {
		return
	}
	likes, err := s.ls.ByUserID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "users-likes.html", &viewData{User: user, Likes: likes})
}

// handleFollow handles the route "POST /users/follow/{id}". It creates the
// directed edge current user -> target.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	followedId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	follow := domain.Follow{FollowerID: curr.ID, FollowedID: followedId}
	if err := s.fs.Create(&follow); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", curr.ID), http.StatusFound)
}

// handleStopFollowing handles the route "POST /users/stop-following/{id}".
func (s *Server) handleStopFollowing(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	followedId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	follow := domain.Follow{FollowerID: curr.ID, FollowedID: followedId}
	if err := s.fs.Delete(&follow); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", curr.ID), http.StatusFound)
}

// handleAddLike handles the route "POST /users/add_like/{message_id}". It
// creates a like for (current user, message).
func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	messageId, err := strconv.Atoi(mux.Vars(r)["message_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	like := domain.Like{UserID: curr.ID, MessageID: messageId}
	if err := s.ls.Create(&like); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleRemoveLike handles the route "POST /users/remove_like/{message_id}".
// Removing a like that doesn't exist is fine, the service treats it as a no-op.
func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	messageId, err := strconv.Atoi(mux.Vars(r)["message_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return
	}
	like := domain.Like{UserID: curr.ID, MessageID: messageId}
	if err := s.ls.Delete(&like); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleProfileForm handles the route "GET /users/profile".
func (s *Server) handleProfileForm(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	s.render(w, r, "users-edit.html", &viewData{User: curr})
}

// handleProfileUpdate handles the route "POST /users/profile". The user has
// to confirm the change with their password.
func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	if _, err := s.us.Authenticate(curr.Username, r.PostFormValue("password")); err != nil {
		s.flash(w, r, "Access unauthorized.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	curr.Username = r.PostFormValue("username")
	curr.Email = r.PostFormValue("email")
	curr.ImageURL = r.PostFormValue("image_url")
	curr.HeaderImageURL = r.PostFormValue("header_image_url")
	curr.Location = r.PostFormValue("location")
	curr.Bio = r.PostFormValue("bio")
	if err := s.us.Update(curr); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
		s.render(w, r, "users-edit.html", &viewData{User: curr})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", curr.ID), http.StatusFound)
}

// handleDeleteUser handles the route "POST /users/delete". It removes the
// account along with its messages, likes and follows, and ends the session.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	curr := auth.GetUser(r.Context())
	if err := s.us.Delete(curr.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	// Only end the session once the account is actually gone.
	s.signOut(w, r)
	http.Redirect(w, r, "/signup", http.StatusFound)
}

// userFromVars parses the {varName} route param and fetches that user.
// On failure it writes the error response and reports false.
func (s *Server) userFromVars(w http.ResponseWriter, r *http.Request, varName string) (*domain.User, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[varName])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid ID format."))
		return nil, false
	}
	user, err := s.us.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return nil, false
	}
	return user, true
}
