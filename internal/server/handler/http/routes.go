package http

import (
	"net/http"

	"github.com/atinyakov/listkeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs the HTTP handler serving the ListKeeper API.
//
// Routes:
//
//	POST   /api/signup                         → accounts.Signup
//	POST   /api/login                          → accounts.Login
//	GET    /api/users                          → accounts.GetUser
//	PUT    /api/users/name                     → accounts.UpdateDisplayName
//	PUT    /api/users/password                 → accounts.UpdatePassword
//	POST   /api/lists                          → lists.CreateList
//	GET    /api/lists                          → lists.GetLists
//	GET    /api/lists/{listID}                 → lists.GetList
//	DELETE /api/lists/{listID}                 → lists.DeleteList
//	POST   /api/lists/{listID}/items           → lists.AddItem
//	PUT    /api/lists/{listID}/items/{itemID}  → lists.UpdateItem
//	DELETE /api/lists/{listID}/items/{itemID}  → lists.DeleteItem
//
// Every route except signup and login sits behind middleware.BearerAuth.
// CORS is enabled only when allowedOrigins is non-empty.
func NewRouter(
	accounts *AccountHandler,
	lists *ListHandler,
	auth middleware.Authenticator,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", accounts.Signup)
		r.Post("/login", accounts.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(auth, logger))

			r.Get("/users", accounts.GetUser)
			r.Put("/users/name", accounts.UpdateDisplayName)
			r.Put("/users/password", accounts.UpdatePassword)

			r.Post("/lists", lists.CreateList)
			r.Get("/lists", lists.GetLists)
			r.Route("/lists/{listID}", func(r chi.Router) {
				r.Get("/", lists.GetList)
				r.Delete("/", lists.DeleteList)
				r.Post("/items", lists.AddItem)
				r.Put("/items/{itemID}", lists.UpdateItem)
				r.Delete("/items/{itemID}", lists.DeleteItem)
			})
		})
	})

	return r
}
