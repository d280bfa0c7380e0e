package http

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warbler/crud"
	"warbler/domain"
)

// testApp bundles a server running against an in-memory SQLite database
// with the services, so tests can both drive the http surface and inspect
// the resulting state directly.
type testApp struct {
	ts       *httptest.Server
	services *crud.Services
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.OAuth{},
		&domain.Message{},
		&domain.Follow{},
		&domain.Like{},
	))
	services, err := crud.NewServices(
		db,
		crud.WithUser("test-pepper"),
		crud.WithOAuth(),
		crud.WithMessage(),
		crud.WithFollow(),
		crud.WithLike(),
	)
	require.NoError(t, err)

	server := NewServer(false, "test-session-key", "test-csrf-key", nil, services)
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return &testApp{ts: ts, services: services}
}

// newClient returns a client with a cookie jar, so sessions survive across
// requests. With followRedirects false the client stops at the first
// response, which lets tests assert on the 302 itself.
func newClient(t *testing.T, followRedirects bool) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}
	if !followRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(a.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, client *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(a.ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// signup registers a user through the http surface and leaves the client
// logged in as them. It returns the stored user record.
func (a *testApp) signup(t *testing.T, client *http.Client, username, email, password string) *domain.User {
	t.Helper()
	_, err := client.PostForm(a.ts.URL+"/signup", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	require.NoError(t, err)
	user, err := a.services.User.ByUsername(username)
	require.NoError(t, err)
	return user
}

func (a *testApp) login(t *testing.T, client *http.Client, username, password string) {
	t.Helper()
	_, err := client.PostForm(a.ts.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.NoError(t, err)
}
