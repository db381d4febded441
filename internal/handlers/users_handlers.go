package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

type UserHandlers struct {
	usersService *service.UsersService
	logger       *logrus.Logger
}

func NewUserHandlers(usersService *service.UsersService, logger *logrus.Logger) *UserHandlers {
	return &UserHandlers{
		usersService: usersService,
		logger:       logger,
	}
}

type CreateUserRequest struct {
	Name           string `json:"name" validate:"required"`
	Surname        string `json:"surname"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	IsSpbsuStudent bool   `json:"is_spbsu_student"`
	University     string `json:"university"`
	Faculty        string `json:"faculty"`
	Speciality     string `json:"speciality"`
	Course         int    `json:"course"`
	Photo          string `json:"photo"`
}

type UpdateUserRequest struct {
	Name           string `json:"name" validate:"required"`
	Surname        string `json:"surname"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"omitempty,min=8"`
	IsSpbsuStudent bool   `json:"is_spbsu_student"`
	University     string `json:"university"`
	Faculty        string `json:"faculty"`
	Speciality     string `json:"speciality"`
	Course         int    `json:"course"`
	Photo          string `json:"photo"`
}

type UserListResponse struct {
	Users []models.User `json:"users"`
}

func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	user, err := h.usersService.CreateUser(r.Context(), service.UserParams{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		Password:       req.Password,
		IsSpbsuStudent: req.IsSpbsuStudent,
		University:     req.University,
		Faculty:        req.Faculty,
		Speciality:     req.Speciality,
		Course:         req.Course,
		Photo:          req.Photo,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.usersService.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}

	if users == nil {
		users = []models.User{}
	}

	respondWithJSON(w, http.StatusOK, UserListResponse{Users: users})
}

func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.usersService.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	user, err := h.usersService.UpdateUser(r.Context(), mux.Vars(r)["id"], service.UserParams{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		Password:       req.Password,
		IsSpbsuStudent: req.IsSpbsuStudent,
		University:     req.University,
		Faculty:        req.Faculty,
		Speciality:     req.Speciality,
		Course:         req.Course,
		Photo:          req.Photo,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.usersService.DeleteUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
