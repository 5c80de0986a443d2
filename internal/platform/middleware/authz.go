// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/cabinet/internal/platform/apperr"
	"github.com/taibuivan/cabinet/internal/platform/constants"
	"github.com/taibuivan/cabinet/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/cabinet/internal/platform/request"
	"github.com/taibuivan/cabinet/internal/platform/respond"
	"github.com/taibuivan/cabinet/internal/platform/sec"
)

// TokenAuthenticator is the bearer strategy the middleware delegates to.
//
// It is satisfied by auth.TokenAuthenticator; defining it here keeps the
// middleware free of domain imports.
type TokenAuthenticator interface {
	Authenticate(context context.Context, token string) (sec.Result, error)
}

// Authenticate guards a route group with a bearer token.
//
// # Flow
//  1. Read 'Authorization: Bearer <token>'. Any other scheme counts as absent.
//  2. Delegate verification to the [TokenAuthenticator].
//  3. On rejection answer 401 with the same body for every reason.
//  4. On success inject the [sec.Principal] and a user-scoped logger.
func Authenticate(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			result, err := authenticator.Authenticate(ctx, requestutil.BearerToken(request))
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !result.OK() {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "auth_bearer_rejected",
					slog.String("reason", string(result.Reason)),
				)
				respond.Error(writer, request, apperr.Unauthorized(constants.MsgTokenRejected).WithCause(result.Err()))
				return
			}

			principal := result.Principal
			ctx = ctxutil.WithPrincipal(ctx, &principal)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", principal.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
