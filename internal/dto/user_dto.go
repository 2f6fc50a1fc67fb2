package dto

import "github.com/basetopia/basetopia-backend/internal/models"

type CreateUserRequest struct {
	Email            string   `json:"email"`
	DisplayName      string   `json:"display_name"`
	Nationality      string   `json:"nationality"`
	TeamsFollowing   []string `json:"teams_following"`
	PlayersFollowing []string `json:"players_following"`
}

// UpdateUserRequest leaves absent fields untouched.
type UpdateUserRequest struct {
	DisplayName      *string  `json:"display_name"`
	Nationality      *string  `json:"nationality"`
	TeamsFollowing   []string `json:"teams_following"`
	PlayersFollowing []string `json:"players_following"`
}

type UserResponse struct {
	UID              string   `json:"uid"`
	Email            string   `json:"email"`
	DisplayName      string   `json:"display_name"`
	Nationality      string   `json:"nationality"`
	TeamsFollowing   []string `json:"teams_following"`
	PlayersFollowing []string `json:"players_following"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		UID:              u.UID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		Nationality:      u.Nationality,
		TeamsFollowing:   orEmpty(u.TeamsFollowing),
		PlayersFollowing: orEmpty(u.PlayersFollowing),
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
