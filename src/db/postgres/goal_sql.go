package postgres

import (
	"context"
	"pocketbook-server/src/models"
)

const goalColumns = `id, user_id, name, target_amount, progress, target_date, created_at, updated_at`

func scanGoal(row scanner) (*models.Goal, error) {
	var g models.Goal
	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.Progress, &g.TargetDate, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, progress, target_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + goalColumns
	return scanGoal(s.pool.QueryRow(ctx, query, newID(goal.ID), goal.UserID, goal.Name, goal.TargetAmount, goal.Progress, goal.TargetDate))
}

func (s *Store) GetGoal(ctx context.Context, userID, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	return scanGoal(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, progress = $3, target_date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + goalColumns
	return scanGoal(s.pool.QueryRow(ctx, query, goal.Name, goal.TargetAmount, goal.Progress, goal.TargetDate, goal.ID, goal.UserID))
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}
