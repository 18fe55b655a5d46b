// Package cookie provides HTTP cookie management with optional HMAC signing.
//
// The Manager handles plain and signed cookies. A secret is optional;
// signed operations return [ErrNoSecret] without one.
//
// Plain cookies work without a secret:
//
//	m := cookie.New()
//	m.Set(w, "theme", "dark", 86400)
//	value, err := m.Get(r, "theme")
//
// Signed cookies detect tampering with HMAC-SHA256 and need a 32+ byte
// secret:
//
//	m := cookie.New(
//		cookie.WithSecret("your-32+-byte-secret-key-here!!!"),
//		cookie.WithSameSite(http.SameSiteStrictMode),
//	)
//	err := m.SetSigned(w, "guestCartId", id, 86400*30)
//	id, err := m.GetSigned(r, "guestCartId")
//
// Configuration options: [WithSecret], [WithDomain], [WithPath]
// (default "/"), [WithSecure], [WithHTTPOnly] (default true),
// [WithSameSite] (default Lax).
package cookie
