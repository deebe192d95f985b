package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

func runRBAC(t *testing.T, role string, allowed ...string) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	called := false
	handler := RBAC(allowed...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, called
}

func TestRBAC_Allows(t *testing.T) {
	code, called := runRBAC(t, domain.RoleOperator, domain.RoleAdmin, domain.RoleOperator)
	if !called {
		t.Fatalf("next handler not called")
	}
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	code, called := runRBAC(t, domain.RoleViewer, domain.RoleAdmin, domain.RoleOperator)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRBAC_MissingRole(t *testing.T) {
	code, called := runRBAC(t, "", domain.RoleAdmin)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}
