package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRequest is the public self-registration shape. Role is restricted to
// "cliente" unless the caller is an authenticated admin.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=1,max=150"`
	Password string  `json:"password" validate:"required,min=8"`
	Rol      string  `json:"role"     validate:"omitempty,oneof=cliente cajero inventario admin"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ActualizarUsuarioRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Rol      string  `json:"role"     validate:"omitempty,oneof=cliente cajero inventario admin"`
	Password string  `json:"password" validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Rol      string  `json:"role"`
	Activo   bool    `json:"active"`
}

type LoginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	Rol          string          `json:"role"`
	User         UsuarioResponse `json:"user"`
}
