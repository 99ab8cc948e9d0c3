package search

import (
	"net/http"
	"strconv"

	"fictionhub/internal/api"
	"fictionhub/internal/middleware"
)

// Handler обрабатывает HTTP-запросы поиска.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик поиска.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search — GET /search?q=...&tag=...&page=...&pageSize=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Text: r.URL.Query().Get("q"),
		Tag:  r.URL.Query().Get("tag"),
	}
	q.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	q.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	viewerID, _ := middleware.UserIDFrom(r.Context())
	res, err := h.service.Search(r.Context(), viewerID, q)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(res.Stories))
	for _, d := range res.Stories {
		items = append(items, map[string]any{
			"id":          d.ID,
			"title":       d.Title,
			"annotation":  d.Annotation,
			"authorId":    d.AuthorID,
			"authorLogin": d.AuthorLogin,
			"tags":        d.Tags,
			"likesCount":  d.LikesCount,
			"createdAt":   d.CreatedAt,
		})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    res.Total,
		"page":     res.Page,
		"pageSize": res.PageSize,
	})
}
