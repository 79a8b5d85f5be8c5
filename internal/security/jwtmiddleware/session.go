package jwtmiddleware

import (
	"context"
	"net/http"

	"github.com/linemk/storefront/internal/cart"
)

const CartCookieName = "cart_session"

const cartKey contextKey = "cart"

// CartSession binds a session cart to the request. A valid cart_session cookie
// resolves to its existing cart; otherwise a fresh session is created and the
// cookie set. The cart ends up in the request context either way.
func CartSession(manager *cart.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var c *cart.Cart
			if cookie, err := r.Cookie(CartCookieName); err == nil {
				c, _ = manager.Get(cookie.Value)
			}
			if c == nil {
				id, created := manager.Create()
				c = created
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
				})
			}
			ctx := context.WithValue(r.Context(), cartKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CartFromContext extracts the session cart from the context.
func CartFromContext(ctx context.Context) (*cart.Cart, bool) {
	c, ok := ctx.Value(cartKey).(*cart.Cart)
	return c, ok
}
