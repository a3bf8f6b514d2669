package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the session user id injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing id means the
// middleware did not run (or the token carried no identity) — reject with 401.
func ctxActor(c echo.Context) (string, error) {
	actorID, _ := c.Get("user_id").(string)
	if actorID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actorID, nil
}
