package book

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	requestutil "github.com/lekturahq/lektura/internal/platform/request"
	"github.com/lekturahq/lektura/internal/platform/respond"
	"github.com/lekturahq/lektura/pkg/convert"
	"github.com/lekturahq/lektura/pkg/pagination"
	"github.com/lekturahq/lektura/pkg/pointer"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public, read-only catalog endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Get("/options", handler.listOptions)
	router.Get("/{id}", handler.getBook)
}

// RegisterAdminRoutes mounts the catalog-management endpoints.
// The caller is expected to wrap the router in admin authorization.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/", handler.createBook)
	router.Post("/import", handler.importBooks)
	router.Put("/{id}", handler.updateBook)
	router.Delete("/{id}", handler.deleteBook)
}

// listBooks serves GET /books with optional search, genre, minRating,
// year and sort query parameters.
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	query := Query{
		SearchText: params.Get("search"),
		Genre:      params.Get("genre"),
		Sort:       ParseSortKey(params.Get("sort")),
	}
	if raw := params.Get("minRating"); raw != "" {
		query.MinRating = pointer.To(convert.ToFloat64(raw))
	}
	if raw := params.Get("year"); raw != "" {
		query.Year = pointer.To(convert.ToInt(raw))
	}

	books, err := handler.service.ListBooks(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The full result set is the default; clients opt in to paging.
	if params.Get("page") != "" || params.Get("limit") != "" {
		page := pagination.FromRequest(request)
		total := len(books)

		start := page.Offset()
		if start > total {
			start = total
		}
		end := start + page.Limit
		if end > total {
			end = total
		}

		respond.Paginated(writer, books[start:end], pagination.NewMeta(page.Page, page.Limit, total))
		return
	}

	respond.OK(writer, books)
}

func (handler *Handler) listOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.service.ListOptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	record, err := handler.service.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var raw RawRecord
	if err := requestutil.DecodeJSON(request, &raw); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.CreateBook(request.Context(), raw)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	var raw RawRecord
	if err := requestutil.DecodeJSON(request, &raw); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.UpdateBook(request.Context(), id, raw)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	if err := handler.service.DeleteBook(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// importBooks serves POST /books/import, accepting a JSON array of raw
// upstream records. A single object is tolerated and treated as a
// one-element collection, since legacy exports ship both shapes.
func (handler *Handler) importBooks(writer http.ResponseWriter, request *http.Request) {
	var payload json.RawMessage
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	raws, err := decodeRawRecords(payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	written, err := handler.service.ImportBooks(request.Context(), raws)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"imported": written})
}

func decodeRawRecords(payload json.RawMessage) ([]RawRecord, error) {
	trimmed := bytes.TrimLeft(payload, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one RawRecord
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, apperr.ValidationError("Invalid import payload")
		}
		return []RawRecord{one}, nil
	}

	var many []RawRecord
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, apperr.ValidationError("Invalid import payload")
	}
	return many, nil
}
