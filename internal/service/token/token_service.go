package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type Identity struct {
	UserID     uint
	BusinessID uint
	Role       string
}

// RotateToken exchanges a valid refresh token for a fresh access/refresh
// pair. The old token is revoked so it cannot be replayed.
func (t *TokenService) RotateToken(rawToken string) (string, string, Identity, error) {
	claims, err := t.ValidateRefresh(rawToken)
	if err != nil {
		return "", "", Identity{}, err
	}

	id := identityFromClaims(claims)

	newAccess, err := SignAccessToken(id, t.JWTSecret)
	if err != nil {
		return "", "", Identity{}, err
	}

	newRefresh, err := SignRefreshToken(id, t.RefreshSecret)
	if err != nil {
		return "", "", Identity{}, err
	}

	if err := t.RevokeRefresh(rawToken); err != nil {
		return "", "", Identity{}, err
	}
	if err := t.SaveRefreshToken(newRefresh, id.UserID); err != nil {
		return "", "", Identity{}, err
	}

	return newAccess, newRefresh, id, nil
}

// AutoRefreshMiddleware authenticates the request from the access token
// cookie or bearer header, transparently rotating an expired access token
// when a valid refresh cookie is present.
func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := accessTokenFrom(c)
		if raw != "" {
			token, err := jwt.Parse(raw, func(j *jwt.Token) (interface{}, error) {
				return t.JWTSecret, nil
			})
			if err == nil && token.Valid {
				setUserContext(c, token.Claims.(jwt.MapClaims))
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, id, err := t.RotateToken(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token")
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

		c.Set("userID", id.UserID)
		c.Set("businessID", id.BusinessID)
		c.Set("role", id.Role)
		return next(c)
	}
}

func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.AutoRefreshMiddleware(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func setUserContext(c echo.Context, claims jwt.MapClaims) {
	id := identityFromClaims(claims)
	c.Set("userID", id.UserID)
	c.Set("businessID", id.BusinessID)
	c.Set("role", id.Role)
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	var id Identity
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = uint(sub)
	}
	if biz, ok := claims["business_id"].(float64); ok {
		id.BusinessID = uint(biz)
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	return id
}
