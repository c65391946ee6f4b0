package middleware

import (
	"strconv"
	"time"

	"MagicPlanner/Session"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the cookie the session token travels in.
const CookieName = "jwt"

// SessionKey is the fiber.Locals key holding the verified Session.Session.
const SessionKey = "session"

// Sessions is where Verify looks up the logged-in child.
type Sessions interface {
	Current() (Session.Session, error)
}

// IssueToken signs a token whose issuer is the account id.
func IssueToken(secret string, accountID int64, ttl time.Duration) (string, time.Time, error) {
	expires := time.Now().Add(ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(accountID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return token, expires, err
}

// Verify admits requests whose cookie belongs to the current session.
func Verify(secret string, sessions Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(CookieName)
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		current, err := sessions.Current()
		if err != nil || strconv.FormatInt(current.AccountID, 10) != claims.Issuer {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Session not found",
			})
		}

		c.Locals(SessionKey, current)
		return c.Next()
	}
}
