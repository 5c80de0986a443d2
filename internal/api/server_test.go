// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/cabinet/internal/api"
	"github.com/taibuivan/cabinet/internal/core/strain"
	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/config"
	"github.com/taibuivan/cabinet/internal/platform/sec"
	"github.com/taibuivan/cabinet/internal/users/account"
	"github.com/taibuivan/cabinet/internal/users/auth"
)

// # In-memory storage

// userStore implements auth.UserRepository and account.CollectionRepository.
type userStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func (s *userStore) find(match func(*auth.User) bool) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if match(user) {
			c := *user
			c.Strains = append([]string{}, user.Strains...)
			return &c, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return s.find(func(u *auth.User) bool { return u.Username == username })
}

func (s *userStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	return s.find(func(u *auth.User) bool { return u.ID == id })
}

func (s *userStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return err == nil, nil
}

func (s *userStore) Create(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *user
	s.users[user.ID] = &c
	return nil
}

func (s *userStore) UpdateProfile(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID].FirstName, s.users[user.ID].LastName = user.FirstName, user.LastName
	return nil
}

func (s *userStore) Add(_ context.Context, userID, strainID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[userID]
	for _, id := range user.Strains {
		if id == strainID {
			return nil
		}
	}
	user.Strains = append(user.Strains, strainID)
	return nil
}

func (s *userStore) Remove(_ context.Context, userID, strainID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[userID]
	kept := []string{}
	for _, id := range user.Strains {
		if id != strainID {
			kept = append(kept, id)
		}
	}
	user.Strains = kept
	return nil
}

// strainStore implements strain.Repository.
type strainStore struct {
	mu      sync.Mutex
	strains map[string]*strain.Strain
}

func (s *strainStore) List(context.Context) ([]*strain.Strain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*strain.Strain{}
	for _, st := range s.strains {
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *strainStore) FindByID(_ context.Context, id string) (*strain.Strain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.strains[id]
	if !ok {
		return nil, apperr.NotFound("Strain")
	}
	c := *st
	return &c, nil
}

func (s *strainStore) FindByIDs(ctx context.Context, ids []string) ([]*strain.Strain, error) {
	out := []*strain.Strain{}
	for _, id := range ids {
		if st, err := s.FindByID(ctx, id); err == nil {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *strainStore) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.strains {
		if st.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *strainStore) Create(_ context.Context, st *strain.Strain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Comments = []strain.Comment{}
	c := *st
	s.strains[st.ID] = &c
	return nil
}

func (s *strainStore) Update(_ context.Context, st *strain.Strain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *st
	s.strains[st.ID] = &c
	return nil
}

func (s *strainStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.strains, id)
	return nil
}

func (s *strainStore) AddComment(_ context.Context, strainID string, comment strain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.strains[strainID]
	if !ok {
		return apperr.NotFound("Strain")
	}
	st.Comments = append(append([]strain.Comment{}, st.Comments...), comment)
	return nil
}

func (s *strainStore) RemoveComment(context.Context, string, string) error { return nil }

// # Harness

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newTestServer(t *testing.T) (http.Handler, *sec.TokenCodec) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hasher := sec.NewHasher(bcrypt.MinCost, 2)
	codec, err := sec.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	users := &userStore{users: map[string]*auth.User{}}
	strains := &strainStore{strains: map[string]*strain.Strain{}}
	tokens := auth.NewTokenAuthenticator(codec)

	strainService := strain.NewService(strains, nil, logger)
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(auth.NewPasswordAuthenticator(users, hasher), tokens, codec)),
		Users:     account.NewHandler(account.NewService(users, users, strains, hasher, logger)),
		Strains:   strain.NewHandler(strainService),
	})
	return server.Handler(), codec
}

func do(t *testing.T, handler http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func tokenFrom(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var grant auth.TokenGrant
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &grant))
	require.NotEmpty(t, grant.AuthToken)
	return grant.AuthToken
}

/*
TestServer_AuthFlow registers, logs in, calls a protected route, and refreshes.
*/
func TestServer_AuthFlow(t *testing.T) {
	handler, codec := newTestServer(t)

	registered := do(t, handler, http.MethodPost, "/users", `{"userName":"exampleUser","password":"examplePassword","firstName":"Example"}`, "")
	require.Equal(t, http.StatusCreated, registered.Code, registered.Body.String())

	login := tokenFrom(t, do(t, handler, http.MethodPost, "/auth/login", `{"userName":"exampleUser","password":"examplePassword"}`, ""))

	me := do(t, handler, http.MethodGet, "/users/me", "", login)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"userName":"exampleUser"`)

	refreshed := tokenFrom(t, do(t, handler, http.MethodPost, "/auth/refresh", "", login))

	loginResult := codec.Verify(login)
	refreshResult := codec.Verify(refreshed)
	require.True(t, loginResult.OK())
	require.True(t, refreshResult.OK())
	assert.Equal(t, loginResult.Principal, refreshResult.Principal)
	assert.Equal(t, "exampleUser", refreshResult.Subject)

	assert.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/users/me", "", refreshed).Code)

	// A token signed under another secret cannot be refreshed
	otherCodec, err := sec.NewTokenCodec("another-secret-at-least-32-bytes-long", time.Hour)
	require.NoError(t, err)
	foreign, err := otherCodec.Issue(loginResult.Principal, loginResult.Subject, time.Hour)
	require.NoError(t, err)

	rejected := do(t, handler, http.MethodPost, "/auth/refresh", "", foreign)
	assert.Equal(t, http.StatusUnauthorized, rejected.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`, rejected.Body.String())
}

/*
TestServer_LoginRejections answers the same 401 body for unknown users and wrong passwords.
*/
func TestServer_LoginRejections(t *testing.T) {
	handler, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, handler, http.MethodPost, "/users", `{"userName":"exampleUser","password":"examplePassword"}`, "").Code)

	unknown := do(t, handler, http.MethodPost, "/auth/login", `{"userName":"nobody","password":"examplePassword"}`, "")
	wrong := do(t, handler, http.MethodPost, "/auth/login", `{"userName":"exampleUser","password":"wrongPassword"}`, "")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

/*
TestServer_ProtectedRoutes rejects missing, tampered and expired tokens.
*/
func TestServer_ProtectedRoutes(t *testing.T) {
	handler, codec := newTestServer(t)

	expired, err := codec.Issue(sec.Principal{ID: "1", Username: "exampleUser", Strains: []string{}}, "exampleUser", -time.Minute)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", expired, expired + "x"} {
		recorder := do(t, handler, http.MethodGet, "/users/strains", "", token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token","code":"UNAUTHORIZED"}`, recorder.Body.String())
	}

	// Public routes ignore a bad token
	assert.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/strains", "", "garbage").Code)
}

/*
TestServer_Collection exercises the strain catalogue and a user collection together.
*/
func TestServer_Collection(t *testing.T) {
	handler, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, handler, http.MethodPost, "/users", `{"userName":"exampleUser","password":"examplePassword"}`, "").Code)
	token := tokenFrom(t, do(t, handler, http.MethodPost, "/auth/login", `{"userName":"exampleUser","password":"examplePassword"}`, ""))

	created := do(t, handler, http.MethodPost, "/strains", `{"name":"Blue Dream","type":"Hybrid","description":"Calm","flavor":"Berry"}`, token)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var body struct {
		Data strain.Strain `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &body))

	added := do(t, handler, http.MethodPut, "/users/strains/"+body.Data.ID, "", token)
	require.Equal(t, http.StatusOK, added.Code)

	list := do(t, handler, http.MethodGet, "/users/strains", "", token)
	require.Equal(t, http.StatusOK, list.Code)
	var view account.StrainsView
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &view))
	require.Len(t, view.Strains, 1)
	assert.Equal(t, "Blue Dream", view.Strains[0].Name)
}

/*
TestServer_Infrastructure covers health probes and the catch-all 404.
*/
func TestServer_Infrastructure(t *testing.T) {
	handler, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/ready", "", "").Code)

	missing := do(t, handler, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"Not found","code":"NOT_FOUND"}`, missing.Body.String())
	assert.NotEmpty(t, missing.Header().Get("X-Request-ID"))
}
