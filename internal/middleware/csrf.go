package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	csrfCookieName = "_csrf_token"
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"
)

// CSRF returns a gin middleware that protects the admin upload forms.
//
// Tokens are hex(nonce) + "." + base64url(HMAC-SHA256(nonce, secret)).
// Safe methods issue a token cookie when none is present (or the present one
// has a bad signature) and expose it to templates under "CSRFToken".
// Unsafe methods must echo the cookie value in the "_csrf_token" form field
// (multipart forms included) or the X-CSRF-Token header.
func CSRF(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "csrf secret is required",
				"data":    nil,
			})
		}
	}

	secure := gin.Mode() == gin.ReleaseMode
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.Cookie(csrfCookieName)
			if err != nil || !validToken(token, secret) {
				token, err = generateToken(secret)
				if err != nil {
					rejectCSRF(c, http.StatusInternalServerError, "failed to generate CSRF token")
					return
				}
				setCSRFCookie(c, token, secure)
			}
			c.Set(csrfContextKey, token)
			c.Next()

		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			cookieToken, err := c.Cookie(csrfCookieName)
			if err != nil || cookieToken == "" {
				rejectCSRF(c, http.StatusForbidden, "CSRF token missing")
				return
			}

			requestToken := c.GetHeader(csrfHeaderName)
			if requestToken == "" {
				requestToken = c.PostForm(csrfFormField)
			}
			if requestToken == "" {
				rejectCSRF(c, http.StatusForbidden, "CSRF token missing")
				return
			}

			if !validToken(cookieToken, secret) || !tokensMatch(cookieToken, requestToken) {
				rejectCSRF(c, http.StatusForbidden, "CSRF token invalid")
				return
			}

			c.Set(csrfContextKey, cookieToken)
			c.Next()

		default:
			c.Next()
		}
	}
}

// GetCSRFToken retrieves the CSRF token stored in gin.Context by the CSRF middleware.
// Returns an empty string if no token is available.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

func rejectCSRF(c *gin.Context, status int, msg string) {
	if AcceptsHTML(c) {
		c.Abort()
		defer func() {
			if r := recover(); r != nil {
				c.Data(status, "text/plain; charset=utf-8", []byte(msg))
			}
		}()
		c.HTML(status, "errors/403.html", gin.H{"Title": "Forbidden", "Message": msg})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg, "data": nil})
}

func generateToken(secret string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	nonceHex := hex.EncodeToString(nonce)
	return nonceHex + "." + signNonce(nonceHex, secret), nil
}

func signNonce(nonce, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// validToken checks the token format and its HMAC signature.
func validToken(token, secret string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(signNonce(nonce, secret))) == 1
}

func tokensMatch(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// setCSRFCookie sets a script-readable, SameSite=Strict token cookie.
// Secure is set in release mode.
func setCSRFCookie(c *gin.Context, token string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
