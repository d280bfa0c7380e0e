package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

const (
	// SessionName is the name of the session cookie.
	SessionName = "warbler"
	// SessionUserKey is the session attribute holding the id of the
	// currently authenticated user. Its presence means "logged in".
	SessionUserKey = "curr_user_id"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/signup", s.handleSignupForm).Methods("GET")
	r.HandleFunc("/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/login", s.handleLoginForm).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("GET")
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signup.html", nil)
}

// handleSignup handles the route "POST /signup". It creates the user record
// (the service hashes the password on the way) and logs the new user in.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user := domain.User{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		ImageURL: r.PostFormValue("image_url"),
	}
	if err := s.us.Create(&user); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
		s.render(w, r, "signup.html", nil)
		return
	}
	s.signIn(w, r, &user)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", nil)
}

// handleLogin handles the route "POST /login". A failed authentication is an
// expected outcome and re-renders the form, it never 500s.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid form data."))
		return
	}
	user, err := s.us.Authenticate(r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errs.ErrorCode(err) == errs.EUNAUTHORIZED {
			s.flash(w, r, "Invalid credentials.")
			s.render(w, r, "login.html", nil)
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	s.signIn(w, r, user)
	s.flash(w, r, "Hello, "+user.Username+"!")
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout handles the route "GET /logout".
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.signOut(w, r)
	s.flash(w, r, "You have successfully logged out.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// session returns the request's session, falling back to a fresh one if the
// cookie fails to decode.
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r, SessionName)
	if err != nil {
		errs.LogError(r, err)
	}
	return sess
}

// signIn stores the user's id in the session.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) {
	sess := s.session(r)
	sess.Values[SessionUserKey] = user.ID
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}
}

// signOut removes the user's id from the session.
func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	delete(sess.Values, SessionUserKey)
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}
}

// flash queues a message for the next rendered page.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, msg string) {
	sess := s.session(r)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}
}

// The loadUser middleware resolves the session's user id to a full user
// record and puts it into the request context for everyone downstream.
func (s *Server) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		if id, ok := sess.Values[SessionUserKey].(int); ok {
			if user, err := s.us.ByID(id); err == nil {
				r = r.WithContext(auth.SetUser(r.Context(), user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth gates a handler behind a logged in session. Anonymous requests
// get flashed "Access unauthorized." and sent to the home page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			s.flash(w, r, "Access unauthorized.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r)
	}
}
