package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"warbler/auth"
	"warbler/crud"
	"warbler/domain"
	"warbler/errs"
)

// Server provides the http functionality of the app: routing, request
// handling and middleware. It performs authentication and authorization
// before handing things over to one of the crud services.
type Server struct {
	router   *mux.Router
	sessions *sessions.CookieStore
	github   *oauth2.Config

	us domain.UserService
	ms domain.MessageService
	fs domain.FollowService
	ls domain.LikeService
	os domain.OAuthService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
// The github config may be nil, GitHub login is then simply unavailable.
func NewServer(isProd bool, sessionKey, csrfKey string, github *oauth2.Config, services *crud.Services) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sessions: sessions.NewCookieStore([]byte(sessionKey)),
		github:   github,
		us:       services.User,
		ms:       services.Message,
		fs:       services.Follow,
		ls:       services.Like,
		os:       services.OAuth,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerMessageRoutes(s.router)

	s.router.HandleFunc("/", s.handleHome).Methods("GET")

	// Set up middleware that needs to run on every request. CSRF protection
	// only runs in production so that plain form posts work in dev and tests.
	s.router.Use(s.loadUser)
	if isProd {
		csrfMw := csrf.Protect([]byte(csrfKey), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	return s
}

// ServeHTTP makes the server usable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe("localhost:"+strconv.Itoa(port), s.router))
}

// handleHome handles the route "GET /". Logged in users get their feed,
// everyone else the landing page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if user == nil {
		s.render(w, r, "home-anon.html", nil)
		return
	}
	feed, err := s.ms.Feed(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	data := &viewData{Messages: feed, MessageCount: len(user.Messages)}
	if data.FollowingCount, err = s.fs.CountFollowing(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if data.FollowersCount, err = s.fs.CountFollowers(user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "home.html", data)
}
