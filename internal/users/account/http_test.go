// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cabinet/internal/platform/ctxutil"
	"github.com/taibuivan/cabinet/internal/platform/sec"
	"github.com/taibuivan/cabinet/internal/users/account"
)

// asUser admits every request as the account with the given id.
func asUser(userID *string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("Authorization") == "" {
				writer.WriteHeader(http.StatusUnauthorized)
				return
			}
			principal := &sec.Principal{ID: *userID, Username: "exampleUser"}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithPrincipal(request.Context(), principal)))
		})
	}
}

func call(router http.Handler, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if authorized {
		request.Header.Set("Authorization", "Bearer test")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details []struct {
		Field string `json:"field"`
	} `json:"details"`
}

/*
TestHandler_Register_Validation applies presence and type checks before the service rules.
*/
func TestHandler_Register_Validation(t *testing.T) {
	var userID string
	router := account.NewHandler(newTestService(newMemoryStore())).Routes(asUser(&userID))

	tests := []struct {
		name     string
		body     string
		message  string
		location string
	}{
		{"missing userName", `{"password":"examplePassword"}`, "Missing field", "userName"},
		{"missing password", `{"userName":"bob"}`, "Missing field", "password"},
		{"empty body", `{}`, "Missing field", "userName"},
		{"numeric userName", `{"userName":42,"password":"examplePassword"}`, "Incorrect field type: expected string", "userName"},
		{"numeric lastName", `{"userName":"bob","password":"examplePassword","lastName":7}`, "Incorrect field type: expected string", "lastName"},
		{"padded userName", `{"userName":" bob","password":"examplePassword"}`, "Cannot start or end with whitespace", "userName"},
		{"short password", `{"userName":"bob","password":"short"}`, "Must be at least 10 characters long", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(router, http.MethodPost, "/", tt.body, false)
			require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
			require.Len(t, body.Details, 1)
			assert.Equal(t, tt.location, body.Details[0].Field)
		})
	}

	assert.Equal(t, http.StatusBadRequest, call(router, http.MethodPost, "/", `{"userName":`, false).Code)
}

/*
TestHandler_AccountFlow registers, reads the profile and manages the collection.
*/
func TestHandler_AccountFlow(t *testing.T) {
	var userID string
	router := account.NewHandler(newTestService(newMemoryStore())).Routes(asUser(&userID))

	recorder := call(router, http.MethodPost, "/", `{"userName":"exampleUser","password":"examplePassword","firstName":" Ex "}`, false)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data sec.Principal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "exampleUser", created.Data.Username)
	assert.Equal(t, "Ex", created.Data.FirstName)
	assert.NotContains(t, recorder.Body.String(), "examplePassword")
	userID = created.Data.ID

	me := call(router, http.MethodGet, "/me", "", true)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"userName":"exampleUser"`)
	assert.NotContains(t, me.Body.String(), "asswordHash")

	patched := call(router, http.MethodPatch, "/me", `{"lastName":"User"}`, true)
	require.Equal(t, http.StatusOK, patched.Code)
	assert.Contains(t, patched.Body.String(), `"lastName":"User"`)

	added := call(router, http.MethodPut, "/strains/"+blueDreamID, "", true)
	require.Equal(t, http.StatusOK, added.Code)
	assert.JSONEq(t, `{"message":"Strain added to user"}`, added.Body.String())

	assert.Equal(t, http.StatusNotFound, call(router, http.MethodPut, "/strains/"+missingStrain, "", true).Code)

	list := call(router, http.MethodGet, "/strains", "", true)
	require.Equal(t, http.StatusOK, list.Code)
	var view struct {
		Strains []struct {
			ID string `json:"id"`
		} `json:"strains"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &view))
	require.Len(t, view.Strains, 1)
	assert.Equal(t, blueDreamID, view.Strains[0].ID)

	assert.Equal(t, http.StatusNoContent, call(router, http.MethodDelete, "/strains/"+blueDreamID, "", true).Code)
	assert.Equal(t, http.StatusUnauthorized, call(router, http.MethodGet, "/me", "", false).Code)
}
