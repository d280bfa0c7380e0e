package http

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/domain"
	"warbler/errs"
)

func TestUsersIndex(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	app.signup(t, client, "testuser", "test@test.com", "testuser")
	app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")
	app.signup(t, newClient(t, true), "efg", "efg@test.com", "password")

	resp, body := app.get(t, client, "/users")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@testuser")
	assert.Contains(t, body, "@abc")
	assert.Contains(t, body, "@efg")
}

func TestUsersSearch(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	app.signup(t, client, "testuser", "test@test.com", "testuser")
	app.signup(t, newClient(t, true), "testing", "testing@test.com", "password")
	app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	resp, body := app.get(t, client, "/users?q=test")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@testuser")
	assert.Contains(t, body, "@testing")
	assert.NotContains(t, body, "@abc")
}

func TestUsersShow(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")

	resp, body := app.get(t, client, fmt.Sprintf("/users/%d", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@testuser")
	assert.Contains(t, body, fmt.Sprintf(`<a href="/users/%d/following">0</a>`, user.ID))
}

func TestUsersShowWithLikes(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "other", "other@test.com", "password")

	m := domain.Message{Text: "likable warble", UserID: other.ID}
	require.NoError(t, app.services.Message.Create(&m))
	require.NoError(t, app.services.Like.Create(&domain.Like{UserID: user.ID, MessageID: m.ID}))

	resp, body := app.get(t, client, fmt.Sprintf("/users/%d", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, fmt.Sprintf(`<a href="/users/%d/likes">1</a>`, user.ID))
}

func TestShowFollowing(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")
	require.NoError(t, app.services.Follow.Create(&domain.Follow{FollowerID: user.ID, FollowedID: other.ID}))

	resp, body := app.get(t, client, fmt.Sprintf("/users/%d/following", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@abc")
}

func TestShowFollowers(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")
	require.NoError(t, app.services.Follow.Create(&domain.Follow{FollowerID: other.ID, FollowedID: user.ID}))

	resp, body := app.get(t, client, fmt.Sprintf("/users/%d/followers", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@abc")
}

func TestUnauthorizedFollowingPageAccess(t *testing.T) {
	app := setupApp(t)
	owner := newClient(t, true)
	user := app.signup(t, owner, "testuser", "test@test.com", "testuser")

	anon := newClient(t, true)
	resp, body := app.get(t, anon, fmt.Sprintf("/users/%d/following", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Access unauthorized")
	assert.NotContains(t, body, "@abc")
}

func TestUnauthorizedFollowersPageAccess(t *testing.T) {
	app := setupApp(t)
	owner := newClient(t, true)
	user := app.signup(t, owner, "testuser", "test@test.com", "testuser")

	anon := newClient(t, true)
	resp, body := app.get(t, anon, fmt.Sprintf("/users/%d/followers", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Access unauthorized")
}

func TestFollowUser(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	resp, _ := app.postForm(t, client, fmt.Sprintf("/users/follow/%d", other.ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/users/%d/following", user.ID), resp.Header.Get("Location"))
	assert.True(t, app.services.Follow.IsFollowing(user.ID, other.ID))
}

func TestStopFollowingUser(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")
	require.NoError(t, app.services.Follow.Create(&domain.Follow{FollowerID: user.ID, FollowedID: other.ID}))

	resp, _ := app.postForm(t, client, fmt.Sprintf("/users/stop-following/%d", other.ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.False(t, app.services.Follow.IsFollowing(user.ID, other.ID))
}

func TestAddLike(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	m := domain.Message{Text: "The earth is round", UserID: other.ID}
	require.NoError(t, app.services.Message.Create(&m))

	resp, _ := app.postForm(t, client, fmt.Sprintf("/users/add_like/%d", m.ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	count, err := app.services.Like.CountByMessageID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, app.services.Like.Likes(user.ID, m.ID))
}

func TestRemoveLike(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	m := domain.Message{Text: "You shall not pass!", UserID: other.ID}
	require.NoError(t, app.services.Message.Create(&m))
	require.NoError(t, app.services.Like.Create(&domain.Like{UserID: user.ID, MessageID: m.ID}))

	resp, _ := app.postForm(t, client, fmt.Sprintf("/users/remove_like/%d", m.ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	count, err := app.services.Like.CountByMessageID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRemoveAbsentLike(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	m := domain.Message{Text: "never liked this", UserID: other.ID}
	require.NoError(t, app.services.Message.Create(&m))

	resp, _ := app.postForm(t, client, fmt.Sprintf("/users/remove_like/%d", m.ID), url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestAddLikeLoggedOut(t *testing.T) {
	app := setupApp(t)
	owner := newClient(t, true)
	user := app.signup(t, owner, "testuser", "test@test.com", "testuser")

	m := domain.Message{Text: "anonymous love", UserID: user.ID}
	require.NoError(t, app.services.Message.Create(&m))

	anon := newClient(t, true)
	resp, body := app.postForm(t, anon, fmt.Sprintf("/users/add_like/%d", m.ID), url.Values{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Access unauthorized")

	count, err := app.services.Like.CountByMessageID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestLikesPage(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")
	other := app.signup(t, newClient(t, true), "abc", "abc@test.com", "password")

	m := domain.Message{Text: "a downright likable warble", UserID: other.ID}
	require.NoError(t, app.services.Message.Create(&m))
	require.NoError(t, app.services.Like.Create(&domain.Like{UserID: user.ID, MessageID: m.ID}))

	resp, body := app.get(t, client, fmt.Sprintf("/users/%d/likes", user.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "a downright likable warble")
	assert.Contains(t, body, "https://unpkg.com/bootstrap/dist/css/bootstrap.css")
}

func TestProfileUpdate(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")

	resp, _ := app.postForm(t, client, "/users/profile", url.Values{
		"username": {"testuser"},
		"email":    {"test@test.com"},
		"location": {"Berlin"},
		"bio":      {"warbling a lot"},
		"password": {"testuser"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/users/%d", user.ID), resp.Header.Get("Location"))

	updated, err := app.services.User.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, "warbling a lot", updated.Bio)
}

func TestProfileUpdateWrongPassword(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, true)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")

	resp, body := app.postForm(t, client, "/users/profile", url.Values{
		"username": {"testuser"},
		"email":    {"test@test.com"},
		"location": {"Berlin"},
		"password": {"wrongpassword"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Access unauthorized")

	unchanged, err := app.services.User.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", unchanged.Location)
}

func TestDeleteAccount(t *testing.T) {
	app := setupApp(t)
	client := newClient(t, false)
	user := app.signup(t, client, "testuser", "test@test.com", "testuser")

	resp, _ := app.postForm(t, client, "/users/delete", url.Values{})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))

	_, err := app.services.User.ByID(user.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// The session ended along with the account.
	follower := newClient(t, true)
	follower.Jar = client.Jar
	_, body := app.get(t, follower, "/")
	assert.NotContains(t, body, "@testuser")
	assert.Contains(t, body, "Sign up")
}
