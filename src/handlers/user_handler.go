package handlers

import (
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/util"

	"golang.org/x/crypto/bcrypt"
)

func GetCurrentUser(store db.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		user, err := store.GetUserByID(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user %s: %v", userID, err)
			writeStoreError(w, err, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(store db.UserStore, auth AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := store.GetUserByID(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user %s for password change: %v", userID, err)
			writeStoreError(w, err, "user not found")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Wrong current password on password change for user %s", userID)
			http.Error(w, "current password is incorrect", http.StatusBadRequest)
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			http.Error(w, "password must be between 8 and 72 characters", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), auth.BcryptCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %s: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := store.UpdateUserPassword(r.Context(), userID, string(hashedPassword)); err != nil {
			log.Printf("ERROR: Failed to update password for user %s: %v", userID, err)
			writeStoreError(w, err, "user not found")
			return
		}

		log.Printf("INFO: Password changed for user %s", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}

// DeleteCurrentUser removes the caller and everything they own.
func DeleteCurrentUser(store db.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if err := store.DeleteUser(r.Context(), userID); err != nil {
			log.Printf("ERROR: Failed to delete user %s: %v", userID, err)
			writeStoreError(w, err, "user not found")
			return
		}
		clearSessionCookie(w)
		log.Printf("INFO: Deleted user %s", userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
	}
}
