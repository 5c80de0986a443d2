// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package strain_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cabinet/internal/core/strain"
	"github.com/taibuivan/cabinet/internal/platform/ctxutil"
	"github.com/taibuivan/cabinet/internal/platform/sec"
)

// fakeAuth admits requests carrying "Authorization: Bearer ok" as exampleUser.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") != "Bearer ok" {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		principal := &sec.Principal{ID: "0190a6f2-7c1e-7000-8000-000000000001", Username: "exampleUser"}
		next.ServeHTTP(writer, request.WithContext(ctxutil.WithPrincipal(request.Context(), principal)))
	})
}

func newStrainRouter() http.Handler {
	service := strain.NewService(newMemoryRepository(), memoryCache(), discardLogger())
	return strain.NewHandler(service).Routes(fakeAuth)
}

func send(router http.Handler, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authorized {
		request.Header.Set("Authorization", "Bearer ok")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

const blueDream = `{"name":"Blue Dream","type":"Hybrid","description":"Balanced","flavor":"Berry"}`

func createStrain(t *testing.T, router http.Handler) strain.Strain {
	t.Helper()
	recorder := send(router, http.MethodPost, "/", blueDream, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var body struct {
		Data strain.Strain `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Data
}

/*
TestHandler_Mutations_RequireAuth rejects every write without a bearer token.
*/
func TestHandler_Mutations_RequireAuth(t *testing.T) {
	router := newStrainRouter()
	id := "0190a6f2-7c1e-7000-8000-0000000000aa"

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/"},
		{http.MethodPut, "/" + id},
		{http.MethodDelete, "/" + id},
		{http.MethodPost, "/" + id},
		{http.MethodDelete, "/" + id + "/c1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, send(router, tt.method, tt.path, blueDream, false).Code)
		})
	}
}

/*
TestHandler_Lifecycle walks a strain through create, read, update, comment and delete.
*/
func TestHandler_Lifecycle(t *testing.T) {
	router := newStrainRouter()
	created := createStrain(t, router)
	assert.Equal(t, "blue-dream", created.Slug)

	// Public reads
	list := send(router, http.MethodGet, "/?page=1&limit=10", "", false)
	require.Equal(t, http.StatusOK, list.Code)
	var listBody struct {
		Data []strain.Strain `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listBody))
	assert.Equal(t, 1, listBody.Meta.Total)
	require.Len(t, listBody.Data, 1)

	assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/"+created.ID, "", false).Code)

	// Update
	update := send(router, http.MethodPut, "/"+created.ID, `{"id":"`+created.ID+`","flavor":"Citrus"}`, true)
	require.Equal(t, http.StatusOK, update.Code)
	assert.Contains(t, update.Body.String(), `"flavor":"Citrus"`)

	mismatch := send(router, http.MethodPut, "/"+created.ID, `{"id":"other","flavor":"Citrus"}`, true)
	assert.Equal(t, http.StatusBadRequest, mismatch.Code)

	// Comments
	comment := send(router, http.MethodPost, "/"+created.ID, `{"comment":{"content":"Great"}}`, true)
	require.Equal(t, http.StatusCreated, comment.Code)
	assert.JSONEq(t, `{"message":"Comment added to strain"}`, comment.Body.String())

	var fetched struct {
		Data strain.Strain `json:"data"`
	}
	get := send(router, http.MethodGet, "/"+created.ID, "", false)
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &fetched))
	require.Len(t, fetched.Data.Comments, 1)
	assert.Equal(t, "exampleUser", fetched.Data.Comments[0].Author)

	remove := send(router, http.MethodDelete, "/"+created.ID+"/"+fetched.Data.Comments[0].ID, "", true)
	assert.Equal(t, http.StatusNoContent, remove.Code)

	// Delete
	assert.Equal(t, http.StatusNoContent, send(router, http.MethodDelete, "/"+created.ID, "", true).Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodGet, "/"+created.ID, "", false).Code)
}

/*
TestHandler_Create_Rejections maps validation failures to 400.
*/
func TestHandler_Create_Rejections(t *testing.T) {
	router := newStrainRouter()
	createStrain(t, router)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"invalid json", `{"name":`, "Invalid JSON payload"},
		{"missing flavor", `{"name":"X","type":"Hybrid","description":"d"}`, "Missing flavor in request body"},
		{"duplicate", blueDream, "Strain already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := send(router, http.MethodPost, "/", tt.body, true)
			require.Equal(t, http.StatusBadRequest, recorder.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

/*
TestHandler_List_HugePage answers an empty page for a page number near the int limit.
*/
func TestHandler_List_HugePage(t *testing.T) {
	router := newStrainRouter()
	createStrain(t, router)

	recorder := send(router, http.MethodGet, "/?page=9223372036854775807", "", false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []strain.Strain `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
}
