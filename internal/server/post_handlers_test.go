package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"quill/internal/featureflags"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authCookieFor issues a valid session cookie for the given account.
func authCookieFor(t *testing.T, s *Server, userID uint, username string) *http.Cookie {
	t.Helper()
	token, err := s.generateToken(userID, username)
	require.NoError(t, err)
	return &http.Cookie{Name: authCookie, Value: token}
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestListPosts(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/", s.ListPosts)

	mocks.posts.On("Count", mock.Anything).Return(int64(2), nil)
	mocks.posts.On("List", mock.Anything, 10, 0).Return([]*models.Post{
		{ID: 2, Text: "newer"},
		{ID: 1, Text: "older"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts      []models.Post `json:"posts"`
		Pagination struct {
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Posts, 2)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 1, body.Pagination.TotalPages)
}

func TestListPostsPageClampedPastEnd(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/", s.ListPosts)

	mocks.posts.On("Count", mock.Anything).Return(int64(25), nil)
	// Page 99 must be served as page 3, offset 20.
	mocks.posts.On("List", mock.Anything, 10, 20).Return([]*models.Post{{ID: 21}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/?page=99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.posts.AssertCalled(t, "List", mock.Anything, 10, 20)
}

func TestGetPostNotFound(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/posts/:id", s.GetPost)

	mocks.posts.On("GetByID", mock.Anything, uint(99)).Return(nil, models.NewNotFoundError("Post", uint(99)))

	req := httptest.NewRequest(http.MethodGet, "/posts/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostDetail(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/posts/:id", s.GetPost)

	mocks.posts.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, AuthorID: 2, Text: "hello"}, nil)
	mocks.comments.On("ListByPost", mock.Anything, uint(5)).Return([]models.Comment{{ID: 1, Text: "hi"}}, nil)
	mocks.posts.On("CountByAuthor", mock.Anything, uint(2)).Return(int64(7), nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Post            models.Post `json:"post"`
		AuthorPostCount int64       `json:"author_post_count"`
		CommentCount    int         `json:"comment_count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint(5), body.Post.ID)
	assert.Equal(t, int64(7), body.AuthorPostCount)
	assert.Equal(t, 1, body.CommentCount)
}

func TestCreatePostRedirectsToProfile(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Post("/create", s.LoginRequired(), s.CreatePost)

	mocks.posts.On("Create", mock.Anything, mock.Anything).Return(nil)
	mocks.posts.On("GetByID", mock.Anything, mock.Anything).Return(&models.Post{ID: 1, AuthorID: 1, Text: "hello"}, nil)
	mocks.users.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1, Username: "leo"}, nil)

	req := formRequest(http.MethodPost, "/create", url.Values{"text": {"hello"}})
	req.AddCookie(authCookieFor(t, s, 1, "leo"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile/leo", resp.Header.Get("Location"))
}

func TestCreatePostEmptyTextEchoesForm(t *testing.T) {
	app := fiber.New()
	s, _ := newTestServer()
	app.Post("/create", s.LoginRequired(), s.CreatePost)

	req := formRequest(http.MethodPost, "/create", url.Values{"text": {"   "}})
	req.AddCookie(authCookieFor(t, s, 1, "leo"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.ErrCodeValidation, body.Code)
	assert.Equal(t, "   ", body.Form["text"])
}

func TestCreatePostImageUploadKillSwitch(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	s.flags = featureflags.NewManager("disable_image_uploads=on")
	app.Post("/create", s.LoginRequired(), s.CreatePost)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("text", "hello"))
	part, err := writer.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(authCookieFor(t, s, 1, "leo"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "hello", body.Form["text"])
	mocks.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePostAnonymousRedirectsToLogin(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Post("/create", s.LoginRequired(), s.CreatePost)

	req := formRequest(http.MethodPost, "/create", url.Values{"text": {"hello"}})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fcreate", resp.Header.Get("Location"))
	mocks.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEditPostNonAuthorRedirectsToPost(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Post("/posts/:id/edit", s.LoginRequired(), s.EditPost)

	mocks.posts.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, AuthorID: 1, Text: "original"}, nil)

	req := formRequest(http.MethodPost, "/posts/5/edit", url.Values{"text": {"hijacked"}})
	req.AddCookie(authCookieFor(t, s, 2, "mallory"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/posts/5", resp.Header.Get("Location"))
	mocks.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEditPostByAuthorRedirectsToPost(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Post("/posts/:id/edit", s.LoginRequired(), s.EditPost)

	mocks.posts.On("GetByID", mock.Anything, uint(5)).Return(&models.Post{ID: 5, AuthorID: 1, Text: "original"}, nil)
	mocks.posts.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.ID == 5 && p.Text == "edited"
	})).Return(nil)

	req := formRequest(http.MethodPost, "/posts/5/edit", url.Values{"text": {"edited"}})
	req.AddCookie(authCookieFor(t, s, 1, "leo"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/posts/5", resp.Header.Get("Location"))
	mocks.posts.AssertExpectations(t)
}

func TestFeedRequiresLogin(t *testing.T) {
	app := fiber.New()
	s, _ := newTestServer()
	app.Get("/follow", s.LoginRequired(), s.Feed)

	req := httptest.NewRequest(http.MethodGet, "/follow", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Ffollow", resp.Header.Get("Location"))
}

func TestFeedReturnsFollowedPosts(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/follow", s.LoginRequired(), s.Feed)

	mocks.posts.On("CountFeed", mock.Anything, uint(1)).Return(int64(1), nil)
	mocks.posts.On("ListFeed", mock.Anything, uint(1), 10, 0).Return([]*models.Post{{ID: 3, AuthorID: 2}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/follow", nil)
	req.AddCookie(authCookieFor(t, s, 1, "leo"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGroupPostsUnknownSlug(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/group/:slug", s.GroupPosts)

	mocks.groups.On("GetBySlug", mock.Anything, "missing").Return(nil, models.NewNotFoundError("Group", "missing"))

	req := httptest.NewRequest(http.MethodGet, "/group/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGroupPosts(t *testing.T) {
	app := fiber.New()
	s, mocks := newTestServer()
	app.Get("/group/:slug", s.GroupPosts)

	mocks.groups.On("GetBySlug", mock.Anything, "cats").Return(&models.Group{ID: 2, Slug: "cats", Title: "Cats"}, nil)
	mocks.posts.On("CountByGroup", mock.Anything, uint(2)).Return(int64(1), nil)
	mocks.posts.On("ListByGroup", mock.Anything, uint(2), 10, 0).Return([]*models.Post{{ID: 4}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/group/cats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Group models.Group  `json:"group"`
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "cats", body.Group.Slug)
	assert.Len(t, body.Posts, 1)
}
