package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

// fakeAuth accepts tokens of the form "<role>-token".
type fakeAuth struct{}

func (fakeAuth) Login(context.Context, string, string) (*services.LoginResult, error) {
	return nil, apierr.Unauthorized("not implemented")
}

func (fakeAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	role, ok := strings.CutSuffix(tok, "-token")
	if !ok {
		return ctx, apierr.Unauthorized("invalid token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tok, UserID: 7, Email: role + "@example.com", Role: role}), nil
}

func (fakeAuth) Me(context.Context) (*domain.User, error) { return nil, nil }

func (fakeAuth) GetAccessTTL() time.Duration { return time.Hour }

func gatedEngine(t *testing.T, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), fakeAuth{})
	r := gin.New()
	r.GET("/x", am.RequireAuth(), am.RequireRole(role), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.Email)
	})
	return r
}

func TestRequireAuthAndRole(t *testing.T) {
	cases := []struct {
		name       string
		required   string
		header     string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"missing token", "viewer", "", "", http.StatusUnauthorized, "unauthorized"},
		{"bad token", "viewer", "Bearer garbage", "", http.StatusUnauthorized, "unauthorized"},
		{"viewer ok", "viewer", "Bearer viewer-token", "", http.StatusOK, ""},
		{"query token ignored", "viewer", "", "viewer-token", http.StatusUnauthorized, "unauthorized"},
		{"viewer cannot edit", "editor", "Bearer viewer-token", "", http.StatusForbidden, "forbidden"},
		{"admin edits", "editor", "Bearer admin-token", "", http.StatusOK, ""},
		{"editor not admin", "admin", "Bearer editor-token", "", http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gatedEngine(t, tc.required)
			target := "/x"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantCode == "" {
				return
			}
			var env response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode {
				t.Fatalf("code: want=%s got=%s", tc.wantCode, env.Error.Code)
			}
		})
	}
}

func TestRequireStreamAuthAcceptsQueryToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), fakeAuth{})
	r := gin.New()
	r.GET("/stream", am.RequireStreamAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestData(c.Request.Context()).Email)
	})

	cases := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantEmail  string
	}{
		{"query only", "", "viewer-token", http.StatusOK, "viewer@example.com"},
		{"header only", "Bearer editor-token", "", http.StatusOK, "editor@example.com"},
		{"header wins", "Bearer viewer-token", "admin-token", http.StatusOK, "viewer@example.com"},
		{"neither", "", "", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/stream"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if tc.wantEmail != "" && rec.Body.String() != tc.wantEmail {
				t.Fatalf("identity: want=%s got=%s", tc.wantEmail, rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(headerRequestID); got != "req-123" {
		t.Fatalf("request id header: want=req-123 got=%q", got)
	}
	if seen == nil || seen.RequestID != "req-123" || seen.TraceID == "" {
		t.Fatalf("trace data: got=%+v", seen)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Header().Get(headerRequestID) == "" {
		t.Fatalf("generated request id: want non-empty")
	}
}

func TestMetricsMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/initiatives/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/initiatives/"+id, nil))
	}

	var sb strings.Builder
	if err := m.WritePrometheus(&sb); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	want := `roadmap_api_requests_total{method="GET",route="/api/initiatives/:id",status="200"} 2`
	if !strings.Contains(sb.String(), want) {
		t.Fatalf("missing %q in:\n%s", want, sb.String())
	}
}
