package readinglist

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

// RegisterRoutes mounts the reading-list endpoints. The caller wraps the
// router in authentication; every operation needs the acting user.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLists)
	router.Post("/", handler.createList)
	router.Get("/{id}", handler.getList)
	router.Put("/{id}", handler.renameList)
	router.Delete("/{id}", handler.deleteList)
	router.Post("/{id}/books", handler.addBook)
	router.Delete("/{id}/books/{bookId}", handler.removeBook)
}

type listPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (handler *Handler) listLists(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lists, err := handler.service.ListForUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, lists)
}

func (handler *Handler) createList(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body listPayload
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.Create(request.Context(), userID, body.Name, body.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, list)
}

func (handler *Handler) getList(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.Get(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) renameList(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body listPayload
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.Rename(request.Context(), userID, requestutil.ID(request, "id"), body.Name, body.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) deleteList(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type addBookPayload struct {
	BookID string `json:"bookId"`
}

func (handler *Handler) addBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body addBookPayload
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.AddBook(request.Context(), userID, requestutil.ID(request, "id"), body.BookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}

func (handler *Handler) removeBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.service.RemoveBook(request.Context(), userID,
		requestutil.ID(request, "id"), requestutil.ID(request, "bookId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, list)
}
