package client

import (
	"context"
	"net/http"

	"taskboard-client/domain"
)

type updateRoleRequest struct {
	Role domain.Role `json:"role"`
}

// Profile returns the calling user's account.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var wrapper struct {
		Result domain.User `json:"result"`
	}
	if err := c.getJSON(ctx, "/users/profile", &wrapper); err != nil {
		return domain.User{}, err
	}
	return wrapper.Result, nil
}

// Users lists every account visible to an admin.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.getJSON(ctx, "/users/admin/all-user", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUsers lists accounts through the admin-scoped variant of the user
// listing endpoint.
func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.getJSON(ctx, "/users/admin/all-user1", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole changes a user's role. The new role takes effect for that
// user only after they re-authenticate; existing sessions keep the role
// decoded from their token.
func (c *Client) UpdateRole(ctx context.Context, userID string, role domain.Role) (domain.User, error) {
	var user domain.User
	if err := c.sendJSON(ctx, http.MethodPut, "/users/"+userID, updateRoleRequest{Role: role}, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
