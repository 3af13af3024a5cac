package controller

import (
	"github.com/coupleswish/wishes-backend/internal/app/model"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	CoupleID *uint  `json:"couple_id"`
}

// UserDetailResponse is returned by GET /users/:id.
type UserDetailResponse struct {
	UserResponse
	Message string `json:"message"`
	Status  bool   `json:"status"`
}

type UserInCouple struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type WishResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Article     *int64  `json:"article"`
	URL         string  `json:"url"`
	Image       string  `json:"image"`
	CoupleID    uint    `json:"couple_id"`
	UserAddedID *int64  `json:"user_added_id"`
}

type CoupleWithUsers struct {
	ID    uint           `json:"id"`
	Users []UserInCouple `json:"users"`
}

type CoupleDetail struct {
	ID     uint           `json:"id"`
	Users  []UserInCouple `json:"users"`
	Wishes []WishResponse `json:"wishes"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

var statusSuccess = StatusResponse{Status: "success"}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		CoupleID: u.CoupleID,
	}
}

func toUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toUsersInCouple(users []model.User) []UserInCouple {
	out := make([]UserInCouple, 0, len(users))
	for _, u := range users {
		out = append(out, UserInCouple{ID: u.ID, Username: u.Username})
	}
	return out
}

func toWishResponse(w *model.Wish) WishResponse {
	return WishResponse{
		ID:          w.ID,
		Name:        w.Name,
		Price:       w.Price,
		Article:     w.Article,
		URL:         w.URL,
		Image:       w.Image,
		CoupleID:    w.CoupleID,
		UserAddedID: w.UserAddedID,
	}
}

func toWishResponses(wishes []model.Wish) []WishResponse {
	out := make([]WishResponse, 0, len(wishes))
	for i := range wishes {
		out = append(out, toWishResponse(&wishes[i]))
	}
	return out
}

func toCoupleWithUsers(c *model.Couple) CoupleWithUsers {
	return CoupleWithUsers{
		ID:    c.ID,
		Users: toUsersInCouple(c.Users),
	}
}

func toCoupleDetail(c *model.Couple) CoupleDetail {
	return CoupleDetail{
		ID:     c.ID,
		Users:  toUsersInCouple(c.Users),
		Wishes: toWishResponses(c.Wishes),
	}
}
