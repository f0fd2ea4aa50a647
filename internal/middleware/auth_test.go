package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(200, gin.H{"userId": c.GetUint("userId"), "role": c.GetString("role")})
	})
	return r
}

func getProtected(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := authRouter()

	token := signToken(t, jwt.MapClaims{
		"id":   float64(7),
		"role": "Admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	w := getProtected(r, token)

	require.Equal(t, 200, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.Contains(t, w.Body.String(), `"userId":7`)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	w := getProtected(authRouter(), "")
	assert.Equal(t, 401, w.Code)
}

// A signature-valid token without a numeric id claim is rejected, not a
// panic in the handler goroutine.
func TestAuthMiddleware_MalformedIDClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := authRouter()

	cases := []jwt.MapClaims{
		{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()},
		{"id": "7", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()},
		{"id": nil, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()},
	}
	for _, claims := range cases {
		w := getProtected(r, signToken(t, claims))
		assert.Equal(t, 401, w.Code, "claims %v: %s", claims, w.Body.String())
	}
}
