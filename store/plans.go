package store

import (
	"context"
	"strings"

	"bitemebuddy/models"

	"gorm.io/gorm"
)

type NewPlan struct {
	AdminID      uint
	TeamMemberID uint
	Description  string
	ImageURL     string
}

// CreatePlan posts a plan to a team member. Plans are never edited.
func (s *Store) CreatePlan(ctx context.Context, in NewPlan) (*models.TeamMemberPlan, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, Invalid("description", "Description is required")
	}
	member, err := s.GetUser(ctx, in.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleTeamMember {
		return nil, Invalid("team_member_id", "Plans can only be assigned to team members")
	}
	plan := models.TeamMemberPlan{
		AdminID:      in.AdminID,
		TeamMemberID: in.TeamMemberID,
		Description:  description,
		ImageURL:     in.ImageURL,
	}
	if err := s.conn(ctx).Omit("Admin", "TeamMember").Create(&plan).Error; err != nil {
		return nil, err
	}
	plan.TeamMember = *member
	return &plan, nil
}

// ListPlans returns the most recent plans first; limit <= 0 means all
func (s *Store) ListPlans(ctx context.Context, limit int) ([]models.TeamMemberPlan, error) {
	q := s.conn(ctx).Preload("Admin").Preload("TeamMember").Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var plans []models.TeamMemberPlan
	err := q.Find(&plans).Error
	return plans, err
}

func (s *Store) ListPlansForTeamMember(ctx context.Context, teamMemberID uint) ([]models.TeamMemberPlan, error) {
	var plans []models.TeamMemberPlan
	err := s.conn(ctx).Preload("Admin").
		Where("team_member_id = ?", teamMemberID).
		Order("created_at desc, id desc").
		Find(&plans).Error
	return plans, err
}

// DeletePlan returns the deleted row so its image can be removed
func (s *Store) DeletePlan(ctx context.Context, id uint) (*models.TeamMemberPlan, error) {
	var plan models.TeamMemberPlan
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, id).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
