package dto

type VerifyTokenRequest struct {
	IDToken string `json:"idToken"`
}

type VerifyTokenResponse struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
}

type ProtectedUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type ProtectedResponse struct {
	Message string        `json:"message"`
	User    ProtectedUser `json:"user"`
}
