package api

import (
	"context"
	"fmt"
	"net/http"

	"vetdesk/internal/domain"
)

func (c *Client) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	var owners []domain.Owner
	if err := c.do(ctx, http.MethodGet, "/api/owners", nil, &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

func (c *Client) FindOwner(ctx context.Context, id int64) (domain.Owner, error) {
	var owner domain.Owner
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/owners/find/%d", id), nil, &owner); err != nil {
		return domain.Owner{}, err
	}
	return owner, nil
}

type ownerSaveRequest struct {
	ID       *int64 `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// SaveOwner es un upsert: con ID viaja "id" y el servidor actualiza,
// sin ID viaja "id": null y el servidor crea.
func (c *Client) SaveOwner(ctx context.Context, form domain.OwnerForm) (domain.Owner, error) {
	req := ownerSaveRequest{
		FullName: form.FullName,
		Phone:    form.Phone,
		Email:    form.Email,
		Address:  form.Address,
		Notes:    form.Notes,
	}
	if form.ID != 0 {
		req.ID = &form.ID
	}
	var owner domain.Owner
	if err := c.do(ctx, http.MethodPost, "/api/owners/save", req, &owner); err != nil {
		return domain.Owner{}, err
	}
	return owner, nil
}

func (c *Client) DeleteOwner(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/owners/delete/%d", id), nil, nil)
}
