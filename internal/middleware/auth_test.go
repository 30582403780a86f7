package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuth map[string]*service.Claims

func (s stubAuth) Authenticate(_ context.Context, token string) (*service.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := stubAuth{
		"user":  {UserID: uuid.New(), Role: models.RoleUser},
		"admin": {UserID: uuid.New(), Role: models.RoleAdmin},
	}
	r.Use(Authenticate(auth, zap.NewNop()))
	chain := append(handlers, func(c *gin.Context) {
		uid, _ := service.UserIDFromContext(c.Request.Context())
		c.String(http.StatusOK, uid.String())
	})
	r.GET("/x", chain...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	r := newEngine(RequireRole(models.RoleAdmin))

	tests := []struct {
		name   string
		token  string
		status int
		msg    string
	}{
		{"anonymous", "", http.StatusUnauthorized, dto.MsgLoginRequired},
		{"invalid token", "garbage", http.StatusUnauthorized, dto.MsgLoginRequired},
		{"user", "user", http.StatusForbidden, dto.MsgAdminRequired},
		{"admin", "admin", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			require.Equal(t, tt.status, w.Code)
			if tt.msg != "" {
				var body dto.BaseError
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.msg, body.Message)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	r := newEngine(RequireUser())
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "user").Code)
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	r := newEngine()
	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil.String(), w.Body.String())
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def":         "abc.def",
		`Bearer "abc.def"`:       "abc.def",
		"bearer abc.def, extra":  "abc.def",
		"Bearer abc.def trailer": "abc.def",
	}
	for in, want := range cases {
		got, ok := ExtractBearerToken(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ExtractBearerToken("Basic xyz")
	assert.False(t, ok)
}
