package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ShareRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Upload is a multipart form, not JSON: the file part plus "category" and an
// optional "access_users" field holding a JSON array of user ids.
