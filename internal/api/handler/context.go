package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a zero user id means
// the middleware did not run or the token carried no usable subject.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(int64)
	if userID == 0 {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	userType, _ := c.Get("tipo_usuario").(string)
	roles, _ := c.Get("roles").([]string)

	return ports.Actor{
		UserID:   userID,
		Email:    email,
		UserType: userType,
		Roles:    roles,
	}, nil
}
