package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/models"
	"beyondnp-backend/internal/response"
	"beyondnp-backend/internal/service"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// --- Request / Response types ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// SessionUser is the account summary returned by the auth endpoints.
type SessionUser struct {
	ID                   bson.ObjectID `json:"_id"`
	Name                 string        `json:"name"`
	Email                string        `json:"email"`
	IsEmailVerified      bool          `json:"isEmailVerified"`
	RequiresVerification bool          `json:"requiresVerification,omitempty"`
	Token                string        `json:"token,omitempty"`
}

type pendingUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func sessionUser(u *models.User, token string) SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, IsEmailVerified: u.IsEmailVerified, Token: token}
}

// --- POST /users/register ---

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	data := sessionUser(user, "")
	data.RequiresVerification = true
	response.OK(w, http.StatusCreated, data,
		"User registered successfully. Please check your email for verification code.")
}

// --- POST /users/login ---

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	// Unverified accounts get a fresh code instead of a token.
	if res.RequiresVerification {
		response.JSON(w, http.StatusForbidden, response.Envelope{
			Success:              false,
			Message:              "Please verify your email before logging in. A new verification code has been sent to your email.",
			RequiresVerification: true,
			Data:                 pendingUser{Email: res.User.Email, Name: res.User.Name},
		})
		return
	}

	response.OK(w, http.StatusOK, sessionUser(res.User, res.Token), "")
}

// --- POST /users/verify-email ---

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.users.VerifyEmail(r.Context(), req.Email, req.VerificationCode)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, sessionUser(res.User, res.Token),
		"Email verified successfully! Welcome to Beyond NP!")
}

// --- POST /users/resend-verification ---

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.users.ResendVerification(r.Context(), req.Email); err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, nil, "Verification code sent successfully. Please check your email.")
}
