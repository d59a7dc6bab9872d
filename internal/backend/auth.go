package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"go-storefront/internal/domain"
	"go-storefront/pkg/utils"
)

type loginReq struct {
	Identifier     string `json:"identifier"`
	CredentialHash string `json:"credentialHash"`
}

type registerReq struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone"`
	CredentialHash string `json:"credentialHash"`
}

// Login 口令只以摘要形式离开本进程
func (c *Client) Login(ctx context.Context, cred domain.Credentials) (*domain.User, error) {
	res, err := c.do(ctx, http.MethodPost, c.paths.Login, loginReq{
		Identifier:     utils.NormalizeIdentifier(cred.Identifier),
		CredentialHash: utils.HashCredential(cred.Password),
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return parseUser(res), nil
}

func (c *Client) Register(ctx context.Context, p domain.Profile) (*domain.User, error) {
	res, err := c.do(ctx, http.MethodPost, c.paths.Register, registerReq{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		CredentialHash: utils.HashCredential(p.Password),
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return parseUser(res), nil
}

func parseUser(r gjson.Result) *domain.User {
	if u := r.Get("user"); u.IsObject() {
		r = u
	}
	return &domain.User{
		ID:        first(r, "id", "_id").String(),
		FirstName: r.Get("firstName").String(),
		LastName:  r.Get("lastName").String(),
		Email:     r.Get("email").String(),
		Phone:     r.Get("phone").String(),
		Role:      r.Get("role").String(),
	}
}
