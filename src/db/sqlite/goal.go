package sqlite

import (
	"context"
	"pocketbook-server/src/models"
)

func (s *Store) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	g := *goal
	g.ID = newID(g.ID)
	if err := s.conn(ctx).Create(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id string) (*models.Goal, error) {
	var g models.Goal
	if err := s.first(ctx, &g, userID, id); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	goals := []models.Goal{}
	err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (s *Store) UpdateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	err := s.updateOwned(ctx, &models.Goal{}, goal.UserID, goal.ID, map[string]any{
		"name":          goal.Name,
		"target_amount": goal.TargetAmount,
		"progress":      goal.Progress,
		"target_date":   goal.TargetDate,
	})
	if err != nil {
		return nil, err
	}
	return s.GetGoal(ctx, goal.UserID, goal.ID)
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.Goal{}, userID, id)
}
