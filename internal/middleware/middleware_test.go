package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lostfound/domain"
	"lostfound/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestCounter struct {
	mu       sync.Mutex
	requests map[string]int
}

func (r *requestCounter) RecordItemCreated()    {}
func (r *requestCounter) RecordDecision(string) {}
func (r *requestCounter) RecordReaction(string) {}
func (r *requestCounter) RecordComment()        {}
func (r *requestCounter) RecordSighting()       {}
func (r *requestCounter) RecordHTTPRequest(method string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.requests == nil {
		r.requests = map[string]int{}
	}
	r.requests[method+" "+http.StatusText(status)]++
}

func TestIdentityMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewIdentityMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		viewer, ok := identity.FromContext(c.UserContext())
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(fiber.Map{"email": viewer.Email, "admin": viewer.IsAdmin(), "local": c.Locals("viewerEmail")})
	})

	cases := []struct {
		name   string
		email  string
		role   string
		status int
	}{
		{name: "user", email: "a@example.com", role: "user", status: http.StatusOK},
		{name: "admin mixed case", email: "b@example.com", role: "Admin", status: http.StatusOK},
		{name: "missing email", role: "user", status: http.StatusUnauthorized},
		{name: "blank email", email: "   ", role: "user", status: http.StatusUnauthorized},
		{name: "unknown role", email: "a@example.com", role: "root", status: http.StatusUnauthorized},
		{name: "missing role", email: "a@example.com", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("User-Email", tc.email)
			req.Header.Set("User-Role", tc.role)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestIdentityMiddleware_StoresViewer(t *testing.T) {
	var got domain.Viewer
	app := fiber.New()
	app.Use(NewIdentityMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		got, _ = identity.FromContext(c.UserContext())
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Email", " mod@example.com ")
	req.Header.Set("User-Role", "admin")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, domain.Viewer{Email: "mod@example.com", Role: domain.RoleAdmin}, got)
}

func TestMetricsMiddleware(t *testing.T) {
	recorder := &requestCounter{}
	app := fiber.New()
	app.Use(NewMetricsMiddleware(recorder))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/gone", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	for _, path := range []string{"/ok", "/ok", "/gone"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, recorder.requests["GET OK"])
	assert.Equal(t, 1, recorder.requests["GET Not Found"])
}

func TestReactionLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("viewerEmail", c.Get("User-Email"))
		return c.Next()
	})
	app.Post("/", NewReactionLimiter(2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	send := func(email string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("User-Email", email)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, send("a@example.com"))
	assert.Equal(t, http.StatusNoContent, send("a@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, send("a@example.com"))
	assert.Equal(t, http.StatusNoContent, send("b@example.com"))
}
