package http

import (
	"html/template"
	"net/http"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
	"warbler/web"
)

// viewData carries everything a page template might need. Each handler only
// fills in the fields its page uses; CurrentUser and Flashes get injected
// by render.
type viewData struct {
	CurrentUser *domain.User
	Flashes     []string

	User     *domain.User
	Users    []domain.User
	Message  *domain.Message
	Messages []domain.Message
	Likes    []domain.Like

	MessageCount   int
	FollowingCount int
	FollowersCount int
	LikesCount     int
	IsFollowing    bool
	Query          string
}

// render executes the named page template inside the base layout. It pulls
// the current user out of the request context and consumes any pending
// flash messages, saving the session before the body gets written.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data *viewData) {
	if data == nil {
		data = &viewData{}
	}
	data.CurrentUser = auth.GetUser(r.Context())

	sess := s.session(r)
	for _, f := range sess.Flashes() {
		if msg, ok := f.(string); ok {
			data.Flashes = append(data.Flashes, msg)
		}
	}
	if err := sess.Save(r, w); err != nil {
		errs.LogError(r, err)
	}

	t, err := template.ParseFS(web.Templates, "templates/base.html", "templates/"+name)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		errs.LogError(r, err)
	}
}
