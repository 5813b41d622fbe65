package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/assistant"
	"lostfound/internal/auth"
	"lostfound/internal/cache"
	"lostfound/internal/config"
	"lostfound/internal/db"
	"lostfound/internal/handler"
	"lostfound/internal/logging"
	"lostfound/internal/notify"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/internal/storage"
)

type testServer struct {
	e         *echo.Echo
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	cacheClient := cache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	uploadDir := t.TempDir()
	images, err := storage.NewLocalStore(uploadDir, "")
	require.NoError(t, err)

	logger := logging.Nop()
	hub := notify.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	repos := repository.New(gdb)
	tx := repository.NewTransactor(gdb)
	jwtService := auth.NewJWTService("test-secret")
	tokenStore := auth.NewTokenStore(cacheClient)

	e := echo.New()
	Register(e, &config.Config{MaxUploadMB: 2}, logger, Security{JWT: jwtService, Tokens: tokenStore}, Handlers{
		Auth:    handler.NewAuthHandler(service.NewAuthService(repos.Users, jwtService, tokenStore)),
		User:    handler.NewUserHandler(service.NewUserService(repos.Users, cacheClient)),
		Item:    handler.NewItemHandler(service.NewItemService(tx, repos.Items, cacheClient), images, logger),
		Comment: handler.NewCommentHandler(service.NewCommentService(tx, repos)),
		Message: handler.NewMessageHandler(service.NewMessageService(tx, repos, hub)),
		Story:   handler.NewStoryHandler(service.NewStoryService(tx, repos.Stories)),
		Image:   handler.NewImageHandler(images),
		WS:      handler.NewWSHandler(hub, logger),
	}, filepath.Join(uploadDir, "uploads"))

	return &testServer{e: e, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postItem(t *testing.T, kind, token string, fields map[string]string, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/"+kind, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type session struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
}

func (s *testServer) signup(t *testing.T, email string) session {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return session{UserID: resp.User.ID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Code
}

func TestBlueBackpackOverHTTP(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")

	rec := s.postItem(t, "lost", a.AccessToken, map[string]string{
		"title":       "Blue Backpack",
		"description": "Left on the 42 bus",
		"location":    "Downtown",
	}, "bp.jpg")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID       uint   `json:"id"`
		Image    string `json:"image"`
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.Image, "uploads/lost/"), created.Image)
	assert.True(t, strings.HasSuffix(created.Image, ".jpg"))
	assert.Equal(t, "/"+created.Image, created.ImageURL)

	// The stored image is served back.
	img := httptest.NewRecorder()
	s.e.ServeHTTP(img, httptest.NewRequest(http.MethodGet, created.ImageURL, nil))
	assert.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "fake-image-bytes", img.Body.String())

	redirect := s.do(t, http.MethodGet, "/api/images/"+created.Image, "", nil)
	assert.Equal(t, http.StatusFound, redirect.Code)
	assert.Equal(t, created.ImageURL, redirect.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/api/items/lost", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lost []struct {
		Title string `json:"title"`
		Image string `json:"image"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lost))
	require.Len(t, lost, 1)
	assert.Equal(t, "Blue Backpack", lost[0].Title)
	assert.Equal(t, created.Image, lost[0].Image)

	b := s.signup(t, "b@x.com")
	rec = s.do(t, http.MethodPost, "/api/messages", b.AccessToken, map[string]interface{}{
		"receiver_id": a.UserID,
		"content":     "I saw it at the station",
		"item_type":   "lost",
		"item_id":     created.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/messages/inbox", a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []struct {
		SenderID uint   `json:"sender_id"`
		Content  string `json:"content"`
		ItemType string `json:"item_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	assert.Equal(t, b.UserID, inbox[0].SenderID)
	assert.Equal(t, "I saw it at the station", inbox[0].Content)
	assert.Equal(t, "lost", inbox[0].ItemType)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/messages/with/%d", b.UserID), a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateItemWithoutImage(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")

	rec := s.postItem(t, "found", a.AccessToken, map[string]string{"title": "Keys", "description": "Ring"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "IMAGE_REQUIRED", decodeCode(t, rec))

	rec = s.postItem(t, "found", a.AccessToken, map[string]string{"description": "Ring"}, "k.png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(filepath.Join(s.uploadDir, "uploads"))
	if err == nil {
		assert.Empty(t, entries, "no image may be left behind")
	}
}

func TestCommentValidationAndAuth(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")
	rec := s.postItem(t, "found", a.AccessToken, map[string]string{"title": "Phone", "description": "Black"}, "p.png")
	require.Equal(t, http.StatusCreated, rec.Code)
	var item struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	path := fmt.Sprintf("/api/items/found/%d/comments", item.ID)

	rec = s.do(t, http.MethodPost, path, "", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, path, a.AccessToken, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_CONTENT", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, path, a.AccessToken, map[string]string{"content": "Still have it?"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/items/stolen/1/comments", a.AccessToken, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ITEM_KIND", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/items/lost/999/comments", a.AccessToken, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	assert.Len(t, comments, 1)
}

func TestRegisterConflict(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "dup@x.com")

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "DUP@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "dup@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesTokens(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")

	rec := s.do(t, http.MethodGet, "/api/me", a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": a.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", a.AccessToken, map[string]string{"refresh_token": a.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/me", a.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": a.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStoriesAndChatbot(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")

	rec := s.do(t, http.MethodPost, "/api/stories", a.AccessToken, map[string]string{"title": "Reunited", "content": "Found my dog"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/stories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stories []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stories))
	assert.Len(t, stories, 1)

	rec = s.do(t, http.MethodGet, "/api/stories/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/chatbot", "", map[string]string{"message": "I LOST my wallet"})
	require.Equal(t, http.StatusOK, rec.Code)
	var reply struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, assistant.ReplyLost, reply.Reply)

	rec = s.do(t, http.MethodGet, "/api/users/contacts", a.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshTokenIsNotABearerCredential(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")

	rec := s.do(t, http.MethodGet, "/api/me", a.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/logout", a.AccessToken, map[string]string{"refresh_token": a.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/stories", a.RefreshToken, map[string]string{"title": "Reunited", "content": "posted after logout"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/stories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stories []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stories))
	assert.Empty(t, stories)
}

func TestLogoutRejectsAnotherUsersRefreshToken(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(t, "a@x.com")
	b := s.signup(t, "b@x.com")

	rec := s.do(t, http.MethodPost, "/api/auth/logout", a.AccessToken, map[string]string{"refresh_token": b.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": b.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}
