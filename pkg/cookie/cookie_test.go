package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/cookie"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_Plain(t *testing.T) {
	t.Parallel()

	t.Run("set and get roundtrip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		rec := httptest.NewRecorder()
		m.Set(rec, "theme", "dark", 3600)

		val, err := m.Get(requestWithCookies(t, rec), "theme")
		require.NoError(t, err)
		require.Equal(t, "dark", val)
	})

	t.Run("missing cookie returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := m.Get(req, "missing")
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("delete expires the cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		rec := httptest.NewRecorder()
		m.Delete(rec, "theme")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Negative(t, cookies[0].MaxAge)
	})

	t.Run("attributes applied", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(
			cookie.WithSecure(true),
			cookie.WithSameSite(http.SameSiteStrictMode),
		)
		rec := httptest.NewRecorder()
		m.Set(rec, "id", "abc", 60)

		c := rec.Result().Cookies()[0]
		require.True(t, c.Secure)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "guestCartId", "guest-123", 3600))

		val, err := m.GetSigned(requestWithCookies(t, rec), "guestCartId")
		require.NoError(t, err)
		require.Equal(t, "guest-123", val)
	})

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		rec := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(rec, "guestCartId", "guest-123", 3600))

		raw := rec.Result().Cookies()[0]
		parts := strings.SplitN(raw.Value, ".", 2)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "guestCartId", Value: "dGFtcGVyZWQ" + "." + parts[1]})

		_, err := m.GetSigned(req, "guestCartId")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("garbage value rejected", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "guestCartId", Value: "no-dot-here"})

		_, err := m.GetSigned(req, "guestCartId")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("no secret returns ErrNoSecret", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		rec := httptest.NewRecorder()
		require.ErrorIs(t, m.SetSigned(rec, "x", "y", 60), cookie.ErrNoSecret)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.GetSigned(req, "x")
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret is ignored", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret("too-short"))
		rec := httptest.NewRecorder()
		require.ErrorIs(t, m.SetSigned(rec, "x", "y", 60), cookie.ErrNoSecret)
	})
}
