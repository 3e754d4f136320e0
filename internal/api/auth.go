package api

import "context"

// Role determines a user's authorization level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
	RoleViewer   Role = "viewer"
)

// User is the backend's user profile. Replaced wholesale on each fetch,
// never partially patched client-side.
type User struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Role        Role    `json:"role"`
	IsActive    bool    `json:"is_active"`
	LastLogin   *string `json:"last_login,omitempty"`
}

// CanUpload reports whether the role may push datasets.
func (u *User) CanUpload() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleUploader)
}

// TokenGrant is the login response.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// AuthAPI wraps the /auth endpoints.
type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Login(ctx context.Context, username, password string) (*TokenGrant, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var grant TokenGrant
	if err := a.c.post(ctx, "/auth/login", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthAPI) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*User, error) {
	body := struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{OldPassword: oldPassword, NewPassword: newPassword}

	var user User
	if err := a.c.put(ctx, "/auth/me/password", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
