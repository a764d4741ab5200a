package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lekturahq/lektura/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the metrics endpoints. The caller wraps the router
// in administrator authorization.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/metrics/users", handler.userCount)
	router.Get("/metrics/reading-lists", handler.readingListCount)
}

func (handler *Handler) userCount(writer http.ResponseWriter, request *http.Request) {
	metric, err := handler.service.UserCount(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, metric)
}

func (handler *Handler) readingListCount(writer http.ResponseWriter, request *http.Request) {
	metric, err := handler.service.ReadingListCount(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, metric)
}
