package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"user-console/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) (users []domain.User, err error) {
	defer observe("list", &err)()
	if err = c.get(ctx, "/allUsers", &users); err != nil {
		if errors.Is(err, errEmptyBody) {
			return []domain.User{}, nil
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUser 404、空响应、null 或缺 id 都视为不存在
func (c *Client) GetUser(ctx context.Context, id string) (u *domain.User, err error) {
	defer observe("detail", &err)()
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}
	err = c.get(ctx, userPath("/userDetails/", id), &u)
	switch {
	case errors.Is(err, errEmptyBody), errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("get user %s: %w", id, err)
	case u == nil || u.ID == "":
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (c *Client) CreateUser(ctx context.Context, in domain.User) (out *domain.User, err error) {
	defer observe("create", &err)()
	in.ID = ""
	err = c.do(ctx, http.MethodPost, "/addUser", in, &out)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in domain.User) (out *domain.User, err error) {
	defer observe("update", &err)()
	in.ID = ""
	err = c.do(ctx, http.MethodPatch, userPath("/userUpdate/", id), in, &out)
	if err != nil && !errors.Is(err, errEmptyBody) {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) (err error) {
	defer observe("delete", &err)()
	if err = c.do(ctx, http.MethodDelete, userPath("/deleteUser/", id), nil, nil); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
