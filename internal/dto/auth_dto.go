package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse extends the action envelope with the session token and the
// path the presentation layer should navigate to.
type LoginResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Token     string        `json:"token,omitempty"`
	ExpiresIn int           `json:"expires_in,omitempty"`
	Redirect  string        `json:"redirect,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
}

// LoginPage backs GET /login.
type LoginPage struct {
	Fields   []string `json:"fields"`
	Roles    []string `json:"roles"`
	Redirect string   `json:"redirect,omitempty"`
}
