package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCircleNotFound            = errors.New("Circle not found")
	ErrNotCircleAdminUpdate      = errors.New("Not authorized to update this circle")
	ErrNotCircleAdminDelete      = errors.New("Not authorized to delete this circle")
	ErrNotCircleAdminAddMember   = errors.New("Not authorized to add members to this circle")
	ErrNotAuthorizedRemoveMember = errors.New("Not authorized to remove this member")
	ErrAlreadyCircleMember       = errors.New("User is already a member of this circle")
	ErrCannotRemoveCircleAdmin   = errors.New("Cannot remove the circle admin")
	ErrNotCircleMember           = errors.New("User is not a member of this circle")
)

// CircleService provides business logic for circles and memberships.
type CircleService struct {
	circleRepo repository.CircleRepository
	userRepo   repository.UserRepository
}

// NewCircleService creates a new CircleService.
func NewCircleService(circleRepo repository.CircleRepository, userRepo repository.UserRepository) *CircleService {
	return &CircleService{
		circleRepo: circleRepo,
		userRepo:   userRepo,
	}
}

// CircleWithMembers is a circle enriched with the profiles of its members.
type CircleWithMembers struct {
	Circle  models.Circle
	Members []models.User
}

// GetUserCircles returns every circle the user belongs to, each with member
// profiles attached. All related rows are batch-fetched by key set rather
// than per circle.
func (s *CircleService) GetUserCircles(authUserID string) ([]CircleWithMembers, error) {
	memberships, err := s.circleRepo.ListMembershipsByUser(authUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circle memberships: %w", err)
	}

	circleIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		circleIDs = append(circleIDs, m.CircleID)
	}

	circles, err := s.circleRepo.FindByIDs(circleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch circles: %w", err)
	}

	allMembers, err := s.circleRepo.ListMembersByCircleIDs(circleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch circle members: %w", err)
	}

	userIDSet := make(map[string]struct{}, len(allMembers))
	userIDs := make([]string, 0, len(allMembers))
	for _, m := range allMembers {
		if _, seen := userIDSet[m.UserID]; seen {
			continue
		}
		userIDSet[m.UserID] = struct{}{}
		userIDs = append(userIDs, m.UserID)
	}

	users, err := s.userRepo.FindByAuthIDs(userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member profiles: %w", err)
	}

	usersByID := make(map[string]models.User, len(users))
	for _, u := range users {
		usersByID[u.AuthUserID] = u
	}

	membersByCircle := make(map[string][]models.User, len(circleIDs))
	for _, m := range allMembers {
		// Memberships without a synced user row are skipped, same as the
		// source behavior.
		if u, ok := usersByID[m.UserID]; ok {
			membersByCircle[m.CircleID] = append(membersByCircle[m.CircleID], u)
		}
	}

	result := make([]CircleWithMembers, 0, len(circles))
	for _, circle := range circles {
		result = append(result, CircleWithMembers{
			Circle:  circle,
			Members: membersByCircle[circle.ID],
		})
	}

	return result, nil
}

// CreateCircleInput represents parameters to create a new circle.
type CreateCircleInput struct {
	Name                  string
	Description           string
	Color                 string
	AdminID               string
	AssignmentPermissions models.AssignmentPolicy
}

// CreateCircle creates a circle and inserts the creator as its admin member
// in the same transaction.
func (s *CircleService) CreateCircle(input CreateCircleInput) (string, error) {
	circle := &models.Circle{
		ID:                    uuid.NewString(),
		Name:                  input.Name,
		Description:           input.Description,
		Color:                 input.Color,
		AdminID:               input.AdminID,
		AssignmentPermissions: input.AssignmentPermissions,
	}

	member := &models.CircleMember{
		UserID: input.AdminID,
		Role:   models.CircleRoleAdmin,
	}

	if err := s.circleRepo.CreateWithAdmin(circle, member); err != nil {
		return "", fmt.Errorf("failed to create circle: %w", err)
	}

	return circle.ID, nil
}

// UpdateCircleInput carries the optional fields of a circle patch.
type UpdateCircleInput struct {
	Name                  *string
	Description           *string
	Color                 *string
	AssignmentPermissions *models.AssignmentPolicy
}

// UpdateCircle applies the present fields to a circle. Admin only.
func (s *CircleService) UpdateCircle(circleID, adminID string, input UpdateCircleInput) (*models.Circle, error) {
	circle, err := s.findCircle(circleID)
	if err != nil {
		return nil, err
	}

	if circle.AdminID != adminID {
		return nil, ErrNotCircleAdminUpdate
	}

	if input.Name != nil {
		circle.Name = *input.Name
	}
	if input.Description != nil {
		circle.Description = *input.Description
	}
	if input.Color != nil {
		circle.Color = *input.Color
	}
	if input.AssignmentPermissions != nil {
		circle.AssignmentPermissions = *input.AssignmentPermissions
	}

	if err := s.circleRepo.Update(circle); err != nil {
		return nil, fmt.Errorf("failed to update circle: %w", err)
	}

	return circle, nil
}

// DeleteCircle deletes a circle and all of its memberships. Admin only.
func (s *CircleService) DeleteCircle(circleID, adminID string) error {
	circle, err := s.findCircle(circleID)
	if err != nil {
		return err
	}

	if circle.AdminID != adminID {
		return ErrNotCircleAdminDelete
	}

	if err := s.circleRepo.DeleteCascade(circleID); err != nil {
		return fmt.Errorf("failed to delete circle: %w", err)
	}

	return nil
}

// AddMember adds a user to a circle. Admin only; duplicates are rejected.
func (s *CircleService) AddMember(circleID, userID, requesterID string) error {
	circle, err := s.findCircle(circleID)
	if err != nil {
		return err
	}

	if circle.AdminID != requesterID {
		return ErrNotCircleAdminAddMember
	}

	if _, err := s.circleRepo.FindMember(circleID, userID); err == nil {
		return ErrAlreadyCircleMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.CircleMember{
		CircleID: circleID,
		UserID:   userID,
		Role:     models.CircleRoleMember,
	}

	if err := s.circleRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a circle. The admin may remove anyone,
// members may remove themselves, and the admin row is untouchable.
func (s *CircleService) RemoveMember(circleID, userID, requesterID string) error {
	circle, err := s.findCircle(circleID)
	if err != nil {
		return err
	}

	if circle.AdminID != requesterID && requesterID != userID {
		return ErrNotAuthorizedRemoveMember
	}

	if userID == circle.AdminID {
		return ErrCannotRemoveCircleAdmin
	}

	if _, err := s.circleRepo.FindMember(circleID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotCircleMember
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if err := s.circleRepo.RemoveMember(circleID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (s *CircleService) findCircle(circleID string) (*models.Circle, error) {
	circle, err := s.circleRepo.FindByID(circleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCircleNotFound
		}
		return nil, fmt.Errorf("failed to find circle: %w", err)
	}
	return circle, nil
}
