package request

// LoginRequest represents a login request. The rut is the Chilean tax id the
// upstream API uses as the account name.
type LoginRequest struct {
	Rut      string `json:"rut" binding:"required"`
	Password string `json:"password" binding:"required"`
}
