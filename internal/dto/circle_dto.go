package dto

import "github.com/yallahq/yalla-api/internal/models"

// CircleMemberProfileDTO is the public slice of a user profile attached to a
// circle listing.
type CircleMemberProfileDTO struct {
	AuthUserID     string  `json:"authUserId"`
	Email          string  `json:"email"`
	Name           *string `json:"name,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	KarmaLevel     int     `json:"karmaLevel"`
	TasksCompleted int     `json:"tasksCompleted"`
	TasksAssigned  int     `json:"tasksAssigned"`
}

// CircleWithMembersDTO is a circle denormalized with its member profiles.
type CircleWithMembersDTO struct {
	models.Circle
	Members []CircleMemberProfileDTO `json:"members"`
}

// ToMemberProfileDTO converts a user model to its circle-member projection.
func ToMemberProfileDTO(user models.User) CircleMemberProfileDTO {
	return CircleMemberProfileDTO{
		AuthUserID:     user.AuthUserID,
		Email:          user.Email,
		Name:           user.Name,
		Avatar:         user.Avatar,
		KarmaLevel:     user.KarmaLevel,
		TasksCompleted: user.TasksCompleted,
		TasksAssigned:  user.TasksAssigned,
	}
}

// ToCircleWithMembersDTO converts a service-layer circle aggregate to its
// response shape.
func ToCircleWithMembersDTO(circle models.Circle, members []models.User) CircleWithMembersDTO {
	memberDTOs := make([]CircleMemberProfileDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, ToMemberProfileDTO(m))
	}
	return CircleWithMembersDTO{
		Circle:  circle,
		Members: memberDTOs,
	}
}
