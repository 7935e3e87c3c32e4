package handlers

import (
	"log"
	"math"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"

	"github.com/go-chi/chi/v5"
)

type goalRequest struct {
	Name         *string `json:"name"`
	TargetAmount *int64  `json:"target_amount"`
	Progress     *int64  `json:"progress"`
	TargetDate   *string `json:"target_date"`
}

func (req goalRequest) apply(g *models.Goal) error {
	if req.Name != nil {
		g.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		g.TargetAmount = *req.TargetAmount
	}
	if req.Progress != nil {
		g.Progress = *req.Progress
	}
	if req.TargetDate != nil {
		if strings.TrimSpace(*req.TargetDate) == "" {
			g.TargetDate = nil
			return nil
		}
		date, err := parseDate(*req.TargetDate)
		if err != nil {
			return err
		}
		g.TargetDate = &date
	}
	return nil
}

func goalProgress(g models.Goal) models.GoalProgress {
	return models.GoalProgress{Goal: g, PercentComplete: percent(g.Progress, g.TargetAmount)}
}

func CreateGoal(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req goalRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create goal request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		goal := &models.Goal{UserID: userID}
		if err := req.apply(goal); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := util.Validate(goal); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := store.CreateGoal(r.Context(), goal)
		if err != nil {
			log.Printf("ERROR: Failed to create goal for user %s: %v", userID, err)
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created goal id %s for user %s, name %s", created.ID, userID, created.Name)
		writeJSON(w, http.StatusCreated, goalProgress(*created))
	}
}

func GetGoals(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goals, err := store.ListGoals(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for user %s: %v", userID, err)
			http.Error(w, "failed to get goals", http.StatusInternalServerError)
			return
		}
		out := make([]models.GoalProgress, 0, len(goals))
		for _, g := range goals {
			out = append(out, goalProgress(g))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetGoalByID(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID := chi.URLParam(r, "goal_id")
		goal, err := store.GetGoal(r.Context(), userID, goalID)
		if err != nil {
			log.Printf("ERROR: Goal id %s not found for user %s: %v", goalID, userID, err)
			writeStoreError(w, err, "goal not found")
			return
		}
		writeJSON(w, http.StatusOK, goalProgress(*goal))
	}
}

func UpdateGoal(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID := chi.URLParam(r, "goal_id")
		goal, err := store.GetGoal(r.Context(), userID, goalID)
		if err != nil {
			log.Printf("ERROR: Goal id %s not found for user %s: %v", goalID, userID, err)
			writeStoreError(w, err, "goal not found")
			return
		}

		var req goalRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update goal request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := req.apply(goal); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := util.Validate(goal); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := store.UpdateGoal(r.Context(), goal)
		if err != nil {
			log.Printf("ERROR: Failed to update goal id %s for user %s: %v", goalID, userID, err)
			writeStoreError(w, err, "goal not found")
			return
		}
		log.Printf("INFO: Updated goal id %s for user %s", updated.ID, userID)
		writeJSON(w, http.StatusOK, goalProgress(*updated))
	}
}

// ContributeToGoal adds a signed amount to a goal's progress. Withdrawals stop
// at zero.
func ContributeToGoal(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID := chi.URLParam(r, "goal_id")
		var req struct {
			Amount int64 `json:"amount"`
		}
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode goal contribution for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount == 0 {
			http.Error(w, "amount must not be zero", http.StatusBadRequest)
			return
		}

		goal, err := store.GetGoal(r.Context(), userID, goalID)
		if err != nil {
			log.Printf("ERROR: Goal id %s not found for user %s: %v", goalID, userID, err)
			writeStoreError(w, err, "goal not found")
			return
		}
		if req.Amount > 0 && goal.Progress > math.MaxInt64-req.Amount {
			http.Error(w, "contribution too large", http.StatusBadRequest)
			return
		}
		goal.Progress = max(goal.Progress+req.Amount, 0)

		updated, err := store.UpdateGoal(r.Context(), goal)
		if err != nil {
			log.Printf("ERROR: Failed to record contribution to goal id %s: %v", goalID, err)
			writeStoreError(w, err, "goal not found")
			return
		}
		log.Printf("INFO: Contributed %d to goal id %s for user %s", req.Amount, goalID, userID)
		writeJSON(w, http.StatusOK, goalProgress(*updated))
	}
}

func DeleteGoal(store db.GoalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		goalID := chi.URLParam(r, "goal_id")
		if err := store.DeleteGoal(r.Context(), userID, goalID); err != nil {
			log.Printf("ERROR: Failed to delete goal id %s for user %s: %v", goalID, userID, err)
			writeStoreError(w, err, "goal not found")
			return
		}
		log.Printf("INFO: Deleted goal id %s for user %s", goalID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "goal deleted"})
	}
}
