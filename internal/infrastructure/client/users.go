package client

import (
	"context"
	"net/http"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

const (
	usersPath = "/users"
	loginPath = "/auth/login"
)

type userWire struct {
	Rut      string `json:"rut"`
	Name     string `json:"nombre"`
	Role     string `json:"rol"`
	Password string `json:"password,omitempty"`
}

type loginWire struct {
	Rut      string `json:"rut"`
	Password string `json:"password"`
}

func userFromRecord(rec map[string]any) entity.StaffUser {
	return entity.StaffUser{
		ID:   utils.StringField(rec, "id", "_id"),
		Name: utils.StringField(rec, "nombre", "name"),
		Rut:  utils.StringField(rec, "rut"),
		Role: utils.StringField(rec, "rol", "role"),
	}
}

func (c *Client) ListUsers(ctx context.Context) ([]entity.StaffUser, error) {
	var body any
	if err := c.do(ctx, "users.list", http.MethodGet, usersPath, nil, nil, &body); err != nil {
		return nil, err
	}
	recs := records(body)
	users := make([]entity.StaffUser, 0, len(recs))
	for _, rec := range recs {
		users = append(users, userFromRecord(rec))
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error) {
	var body any
	payload := userWire{Rut: u.Rut, Name: u.Name, Role: u.Role, Password: password}
	if err := c.do(ctx, "users.create", http.MethodPost, usersPath, nil, payload, &body); err != nil {
		return nil, err
	}
	created := userFromRecord(object(body))
	return &created, nil
}

func (c *Client) UpdateUser(ctx context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error) {
	path, err := resourcePath(usersPath, u.ID)
	if err != nil {
		return nil, apperror.NewBadRequestError("User id is required")
	}
	var body any
	payload := userWire{Rut: u.Rut, Name: u.Name, Role: u.Role, Password: password}
	if err := c.do(ctx, "users.update", http.MethodPatch, path, nil, payload, &body); err != nil {
		return nil, err
	}
	updated := userFromRecord(object(body))
	if updated.ID == "" {
		updated = u
	}
	return &updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path, err := resourcePath(usersPath, id)
	if err != nil {
		return apperror.NewBadRequestError("User id is required")
	}
	return c.do(ctx, "users.delete", http.MethodDelete, path, nil, nil, nil)
}

// Login exchanges credentials for an upstream access token and profile.
func (c *Client) Login(ctx context.Context, rut, password string) (*entity.LoginResult, error) {
	var body any
	if err := c.do(ctx, "auth.login", http.MethodPost, loginPath, nil, loginWire{Rut: rut, Password: password}, &body); err != nil {
		return nil, err
	}

	rec := object(body)
	token := utils.StringField(rec, "access_token", "token")
	if token == "" {
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "The server did not return an access token")
	}

	profile := entity.Principal{
		UserID: utils.StringField(rec, "id", "_id"),
		Name:   utils.StringField(rec, "name", "nombre"),
		Rut:    utils.StringField(rec, "rut"),
		Role:   utils.StringField(rec, "rol", "role"),
	}
	if user, ok := utils.AsMap(rec["user"]); ok && profile.UserID == "" {
		profile = entity.Principal{
			UserID: utils.StringField(user, "id", "_id"),
			Name:   utils.StringField(user, "name", "nombre"),
			Rut:    utils.StringField(user, "rut"),
			Role:   utils.StringField(user, "rol", "role"),
		}
	}
	if profile.Rut == "" {
		profile.Rut = rut
	}

	return &entity.LoginResult{AccessToken: token, Profile: profile}, nil
}
