package entity

import "github.com/sangkips/ventapett-pos/internal/domain/enum"

// StaffUser is an upstream user account.
type StaffUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rut  string `json:"rut"`
	Role string `json:"role"`
}

// Principal is the authenticated user behind a request.
type Principal struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Rut    string `json:"rut"`
	Role   string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return enum.IsAdminRole(p.Role)
}

// LoginResult is the upstream response to a successful login.
type LoginResult struct {
	AccessToken string
	Profile     Principal
}

// Keys under which session state lives in the durable store.
const (
	TokenKey         = "token"
	ProfileKey       = "user"
	CashoutCountsKey = "cashout_counts"
)
