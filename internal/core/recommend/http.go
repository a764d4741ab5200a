package recommend

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lekturahq/lektura/internal/platform/request"
	"github.com/lekturahq/lektura/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the recommendation endpoint. The caller wraps the
// router in authentication.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.recommend)
}

type recommendPayload struct {
	Interests string `json:"interests"`
}

func (handler *Handler) recommend(writer http.ResponseWriter, request *http.Request) {
	var body recommendPayload
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Recommend(request.Context(), body.Interests)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
