// Copyright (c) 2026 Lektura. All rights reserved.
// Author: dev@lektura.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lekturahq/lektura/internal/platform/apperr"
	requestutil "github.com/lekturahq/lektura/internal/platform/request"
	"github.com/lekturahq/lektura/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authentication endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/signin", handler.signIn)
	router.Post("/signup", handler.signUp)
	router.Post("/confirm", handler.confirm)
	router.Post("/signout", handler.signOut)
	router.Get("/me", handler.me)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var body signInRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.SignIn(request.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var body signUpRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SignUp(request.Context(), body.Email, body.Password, body.Name); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]string{"message": "Confirmation code sent"})
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (handler *Handler) confirm(writer http.ResponseWriter, request *http.Request) {
	var body confirmRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Confirm(request.Context(), body.Email, body.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": "Account confirmed"})
}

func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing credentials"))
		return
	}

	if err := handler.service.SignOut(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing credentials"))
		return
	}

	profile, err := handler.service.Me(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}
