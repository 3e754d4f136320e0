package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListUsersQuery filters and paginates /admin/users.
type ListUsersQuery struct {
	Q        string
	Role     Role
	Page     int
	PageSize int
}

// UserPage is one page of the user listing.
type UserPage struct {
	Items    []User `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// CreateUserRequest creates a new account.
type CreateUserRequest struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Password    string  `json:"password"`
	Role        Role    `json:"role"`
}

// UpdateUserRequest patches an account; nil fields are left unchanged.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Role        *Role   `json:"role,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// AdminAPI wraps the /admin endpoints.
type AdminAPI struct {
	c *Client
}

func (a *AdminAPI) ListUsers(ctx context.Context, q ListUsersQuery) (*UserPage, error) {
	query := url.Values{}
	if q.Q != "" {
		query.Set("q", q.Q)
	}
	if q.Role != "" {
		query.Set("role", string(q.Role))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}

	var page UserPage
	if err := a.c.get(ctx, "/admin/users", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *AdminAPI) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := a.c.post(ctx, "/admin/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AdminAPI) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var user User
	if err := a.c.put(ctx, fmt.Sprintf("/admin/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := a.c.delete(ctx, fmt.Sprintf("/admin/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AdminAPI) ResetPassword(ctx context.Context, id int64, newPassword string) (*User, error) {
	body := struct {
		NewPassword string `json:"new_password"`
	}{NewPassword: newPassword}

	var user User
	if err := a.c.post(ctx, fmt.Sprintf("/admin/users/%d/reset-password", id), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
