package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"beyondnp-backend/internal/middleware"
	"beyondnp-backend/internal/service"
)

// Services are the dependencies of the API handlers.
type Services struct {
	Users        *service.UserService
	Collections  *service.CollectionService
	Notes        *service.NoteService
	Documents    *service.DocumentService
	Universities *service.UniversityService
	Dashboard    *service.DashboardService
	Tokens       middleware.TokenParser
}

// NewRouter builds the API routes, meant to be mounted under /api.
// publicLimit, when non-nil, wraps the unauthenticated auth endpoints.
func NewRouter(svc Services, publicLimit func(http.Handler) http.Handler) chi.Router {
	authHandler := NewAuthHandler(svc.Users)
	userHandler := NewUserHandler(svc)
	collectionHandler := NewCollectionHandler(svc.Collections)
	noteHandler := NewNoteHandler(svc.Notes)
	documentHandler := NewDocumentHandler(svc.Documents)
	universityHandler := NewUniversityHandler(svc.Universities)

	r := chi.NewRouter()

	// Public routes (no auth required)
	r.Group(func(r chi.Router) {
		if publicLimit != nil {
			r.Use(publicLimit)
		}
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)
		r.Post("/users/verify-email", authHandler.VerifyEmail)
		r.Post("/users/resend-verification", authHandler.ResendVerification)
	})

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(svc.Tokens, svc.Users))

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Delete("/profile", userHandler.DeleteAccount)
			r.Put("/change-password", userHandler.ChangePassword)
			r.Get("/dashboard", userHandler.GetDashboard)
			r.Get("/shortlist", userHandler.GetShortlist)
			r.Post("/shortlist/{universityId}", userHandler.AddToShortlist)
			r.Delete("/shortlist/{universityId}", userHandler.RemoveFromShortlist)
			r.Get("/collections", userHandler.GetCollections)
			r.Get("/notes", userHandler.GetNotes)
			r.Get("/documents", userHandler.GetDocuments)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", collectionHandler.List)
			r.Post("/", collectionHandler.Create)
			r.Get("/archived", collectionHandler.Archived)
			r.Get("/{id}", collectionHandler.Get)
			r.Put("/{id}", collectionHandler.Update)
			r.Delete("/{id}", collectionHandler.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.List)
			r.Post("/", noteHandler.Create)
			r.Get("/archived", noteHandler.Archived)
			r.Get("/search", noteHandler.Search)
			r.Get("/{id}", noteHandler.Get)
			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", documentHandler.List)
			r.Post("/", documentHandler.Create)
			r.Get("/archived", documentHandler.Archived)
			r.Get("/{id}", documentHandler.Get)
			r.Put("/{id}", documentHandler.Update)
			r.Delete("/{id}", documentHandler.Delete)
		})

		r.Route("/universities", func(r chi.Router) {
			r.Get("/", universityHandler.List)
			r.Get("/{id}", universityHandler.Get)
		})
	})

	return r
}
