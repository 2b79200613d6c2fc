package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcourier/tracking/internal/api/middleware"
	"github.com/medcourier/tracking/internal/core/domain"
)

// ctxActor builds the caller identity from the claims injected by the Auth
// middleware. Both role and user id must be present: every tracking
// operation is authorized against the caller's own id.
func ctxActor(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return domain.Actor{ID: userID, Role: role}, nil
}
