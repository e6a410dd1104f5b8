package dto

// CreateAccountDTO registers a password-login account. Avatar holds the image
// itself, either as a data URL or as raw text.
type CreateAccountDTO struct {
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
