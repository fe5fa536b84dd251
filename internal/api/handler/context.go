package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextUserID is the echo context key the Auth middleware stores the
// authenticated user's ID under.
const ContextUserID = "user_id"

// ctxUserID extracts the user ID injected by the Auth middleware. A missing
// or non-positive ID means the middleware did not run, so it is a 401.
func ctxUserID(c echo.Context) (int64, error) {
	id, _ := c.Get(ContextUserID).(int64)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
