package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/lims-backend/internal/platform/ctxutil"
	"github.com/yungbote/lims-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	caller := uuid.New()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid bearer", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), caller.String(), time.Hour), want: http.StatusOK},
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), caller.String(), time.Hour), want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), caller.String(), -time.Minute), want: http.StatusUnauthorized},
		{name: "subject not a uuid", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "alice", time.Hour), want: http.StatusUnauthorized},
		{name: "other algorithm", header: "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), caller.String(), time.Hour), want: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen uuid.UUID
			r := gin.New()
			r.Use(NewAuthMiddleware(logger.Nop(), testSecret).RequireAuth())
			r.GET("/whoami", func(c *gin.Context) {
				if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
					seen = rd.UserID
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && seen != caller {
				t.Fatalf("request data: got=%s want=%s", seen, caller)
			}
		})
	}
}
