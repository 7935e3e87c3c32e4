package handlers

import (
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/middleware"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Register(store db.UserStore, auth AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Email: %s", req.Email)
			http.Error(w, "password must be between 8 and 72 characters", http.StatusBadRequest)
			return
		}

		if _, err := store.GetUserByEmail(r.Context(), req.Email); err == nil {
			log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
			http.Error(w, "user with this email already exists", http.StatusConflict)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), auth.BcryptCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user, err := store.CreateUser(r.Context(), &models.User{Email: req.Email, PasswordHash: string(hashedPassword)})
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
				http.Error(w, "user with this email already exists", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful registration - Email: %s, ID: %s", user.Email, user.ID)

		tokenString, err := middleware.IssueToken(auth.JWTSecret, user.ID, user.Email, auth.TokenTTL)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.ID, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, tokenString, auth.TokenTTL)

		writeJSON(w, http.StatusCreated, map[string]any{
			"token": tokenString,
			"user":  user,
		})
	}
}

func Login(store db.UserStore, auth AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		user, err := store.GetUserByEmail(r.Context(), email)
		if err != nil {
			log.Printf("ERROR: Failed to find user during login - Email: %s: %v", email, err)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for email %s from IP %s", email, r.RemoteAddr)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := middleware.IssueToken(auth.JWTSecret, user.ID, user.Email, auth.TokenTTL)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.ID, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}
		setSessionCookie(w, tokenString, auth.TokenTTL)

		log.Printf("INFO: Successful login - Email: %s, ID: %s", user.Email, user.ID)
		writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
	}
}

func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}
