package dto

// FacebookLoginDTO is the body of every Facebook-backed request.
type FacebookLoginDTO struct {
	ExternalUserID string `json:"externalUserId"`
	Token          string `json:"token"`
}

// AdminLoginDTO is sent as a body to /login/admin and as the Authorization
// header of admin routes.
type AdminLoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordLoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
