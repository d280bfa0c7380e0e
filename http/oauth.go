package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"warbler/domain"
	"warbler/errs"
)

// GithubSource identifies GitHub-linked identities in the oauths table.
const GithubSource = "github"

func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleGithubLogin).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleGithubCallback).Methods("GET")
}

// handleGithubLogin handles the route "GET /oauth/github". It stashes a
// random state in the session and sends the user off to GitHub.
func (s *Server) handleGithubLogin(w http.ResponseWriter, r *http.Request) {
	if s.github == nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "GitHub login is not configured."))
		return
	}
	state, err := randomHex(16)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	sess := s.session(r)
	sess.Values["oauth_state"] = state
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}
	http.Redirect(w, r, s.github.AuthCodeURL(state), http.StatusFound)
}

// handleGithubCallback handles the route "GET /oauth/github/callback".
// A known GitHub identity logs straight in; an unknown one gets a fresh
// user account linked to it.
func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	if s.github == nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "GitHub login is not configured."))
		return
	}
	sess := s.session(r)
	state, _ := sess.Values["oauth_state"].(string)
	delete(sess.Values, "oauth_state")
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}
	if state == "" || state != r.URL.Query().Get("state") {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid oauth state."))
		return
	}

	token, err := s.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "GitHub did not accept the authorization code."))
		return
	}

	// Ask the GitHub API who just signed in.
	resp, err := s.github.Client(r.Context(), token).Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()
	var ghUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	sourceId := strconv.FormatInt(ghUser.ID, 10)

	// Known identity: log in and be done.
	existing, err := s.os.BySourceID(GithubSource, sourceId)
	if err == nil {
		s.signIn(w, r, existing.User)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		errs.ReturnError(w, r, err)
		return
	}

	// First visit: create an account for the GitHub identity. The password
	// is random, the account is only ever entered through GitHub.
	password, err := randomHex(16)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	email := ghUser.Email
	if email == "" {
		email = ghUser.Login + "@users.noreply.github.com"
	}
	user := domain.User{
		Username: ghUser.Login,
		Email:    email,
		Password: password,
		ImageURL: ghUser.AvatarURL,
	}
	if err := s.us.Create(&user); err != nil {
		s.flash(w, r, errs.ErrorMessage(err))
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	oauth := domain.OAuth{UserID: user.ID, Source: GithubSource, SourceID: sourceId}
	if err := s.os.Create(&oauth); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.signIn(w, r, &user)
	http.Redirect(w, r, "/", http.StatusFound)
}

// randomHex returns n random bytes hex encoded.
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
