package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lekturahq/lektura/internal/platform/request"
	"github.com/lekturahq/lektura/internal/platform/respond"
	"github.com/lekturahq/lektura/pkg/slice"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the review endpoints under the book routes.
// Reading is public; writing requires an authenticated session, enforced
// by the caller's middleware on the authenticated router.
func (handler *Handler) RegisterRoutes(public, authenticated chi.Router) {
	public.Get("/{id}/reviews", handler.listForBook)
	authenticated.Post("/{id}/reviews", handler.create)
	authenticated.Delete("/{id}/reviews/{createdAt}", handler.delete)
}

func (handler *Handler) listForBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	reviews, err := handler.service.ListForBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, slice.Map(reviews, WithID))
}

type createPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body createPayload
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Create(request.Context(), claims,
		requestutil.ID(request, "id"), body.Rating, body.Comment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, WithID(record))
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The composite identifier arrives as two path segments.
	publicID := requestutil.ID(request, "id") + "#" + requestutil.ID(request, "createdAt")

	if err := handler.service.Delete(request.Context(), claims, publicID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
