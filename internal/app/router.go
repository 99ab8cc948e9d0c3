package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fictionhub/internal/api"
	"fictionhub/internal/auth"
	"fictionhub/internal/features/comments"
	"fictionhub/internal/features/confirmation"
	"fictionhub/internal/features/likes"
	"fictionhub/internal/features/parts"
	"fictionhub/internal/features/reports"
	"fictionhub/internal/features/search"
	"fictionhub/internal/features/stories"
	"fictionhub/internal/features/uploads"
	"fictionhub/internal/features/users"
	"fictionhub/internal/middleware"
)

// Handlers — все обработчики платформы для сборки маршрутов.
type Handlers struct {
	Users        *users.Handler
	Stories      *stories.Handler
	Parts        *parts.Handler
	Comments     *comments.Handler
	Likes        *likes.Handler
	Reports      *reports.Handler
	Search       *search.Handler
	Uploads      *uploads.Handler
	Confirmation *confirmation.Handler
}

// Предел размера тела запроса. Покрывает и multipart-загрузки.
const maxRequestBody = 10 << 20

// NewRouter собирает дерево маршрутов платформы.
func NewRouter(h Handlers, tokens *auth.TokenManager, allowedOrigins []string, uploadDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestSize(maxRequestBody))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteMessage(w, http.StatusOK, "ok")
	})

	// Загруженные картинки раздаются как есть.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	// Открытые маршруты. Часть из них смотрит на токен, если он есть:
	// лайки показывают свою отметку, приватные истории видны только
	// своему автору.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuthn(tokens))

		r.Post("/users/register", h.Users.Register)
		r.Post("/users/login", h.Users.Login)
		r.Get("/users", h.Users.List)
		r.Get("/users/{id}", h.Users.Get)
		r.Get("/users/{id}/profile", h.Users.GetProfile)

		r.Get("/stories", h.Stories.List)
		r.Get("/stories/{id}", h.Stories.Get)
		r.Get("/stories/user/{id}", h.Stories.ListByAuthor)
		r.Get("/stories/user/{id}/contributions", h.Stories.ListContributions)
		r.Get("/stories/{id}/parts", h.Parts.ListByStory)
		r.Get("/parts/{id}", h.Parts.Get)
		r.Get("/stories/{id}/comments", h.Comments.ListByStory)
		r.Get("/comments/{id}", h.Comments.Get)
		r.Get("/stories/{id}/like", h.Likes.Status)

		r.Get("/search", h.Search.Search)

		r.Post("/confirmation/request", h.Confirmation.Request)
		r.Post("/confirmation/confirm", h.Confirmation.Confirm)
	})

	// Маршруты под токеном.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authn(tokens))

		r.Get("/users/me", h.Users.Me)
		r.Put("/users/{id}", h.Users.Update)
		r.Delete("/users/{id}", h.Users.Delete)
		r.Put("/users/profile/{id}", h.Users.UpdateProfile)
		r.Post("/users/profile-image", h.Uploads.UploadProfileImage)

		r.Post("/stories", h.Stories.Create)
		r.Put("/stories/{id}", h.Stories.Update)
		r.Delete("/stories/{id}", h.Stories.Delete)

		r.Post("/stories/{id}/parts", h.Parts.Add)
		r.Put("/stories/{id}/parts/order", h.Parts.Reorder)
		r.Put("/parts/{id}", h.Parts.Update)
		r.Delete("/parts/{id}", h.Parts.Delete)

		r.Post("/stories/{id}/comments", h.Comments.Create)
		r.Delete("/comments/{id}", h.Comments.Delete)

		r.Post("/stories/{id}/like", h.Likes.Toggle)
		r.Post("/stories/{id}/report", h.Reports.Create)
	})

	return r
}
