package api

// AuthRequest is the credential payload for the auth route.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo is the nested account object some servers return under "user"
// or "teacher".
type UserInfo struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	CanEditTags *bool   `json:"canEditTags"`
}

// AuthResponse is the auth route's success body. The account fields may
// arrive nested under "user", under "teacher", or flat at the root,
// depending on the server generation.
type AuthResponse struct {
	Success     bool      `json:"success"`
	AccessToken string    `json:"accessToken"`
	ExpiresIn   *int      `json:"expiresIn"`
	User        *UserInfo `json:"user"`
	Teacher     *UserInfo `json:"teacher"`
	ID          *string   `json:"id"`
	Role        *string   `json:"role"`
	CanEditTags *bool     `json:"canEditTags"`
}

// userID resolves the account id: user object wins, then teacher, then root.
func (r *AuthResponse) userID() string {
	if r.User != nil && r.User.ID != nil {
		return *r.User.ID
	}
	if r.Teacher != nil && r.Teacher.ID != nil {
		return *r.Teacher.ID
	}
	if r.ID != nil {
		return *r.ID
	}
	return ""
}

func (r *AuthResponse) role() string {
	if r.User != nil && r.User.Role != nil {
		return *r.User.Role
	}
	if r.Teacher != nil && r.Teacher.Role != nil {
		return *r.Teacher.Role
	}
	if r.Role != nil {
		return *r.Role
	}
	return ""
}

// canEditTags checks the root field first, unlike id and role.
func (r *AuthResponse) canEditTags() bool {
	if r.CanEditTags != nil {
		return *r.CanEditTags
	}
	if r.User != nil && r.User.CanEditTags != nil {
		return *r.User.CanEditTags
	}
	if r.Teacher != nil && r.Teacher.CanEditTags != nil {
		return *r.Teacher.CanEditTags
	}
	return false
}

// TokenValidationResponse is the validate route's success body.
type TokenValidationResponse struct {
	Valid bool `json:"valid"`
}

// WireEntry is one attendance record as submitted to the main route.
type WireEntry struct {
	Name     string  `json:"name"`
	TS       string  `json:"ts"`
	Category string  `json:"category"`
	UserID   *string `json:"user_id"`
}

// ResponseItem is one element of the main route's response. The server may
// send a list of these objects or a list of plain name strings.
type ResponseItem struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UnmatchedMarker is the name the server returns for a record it could not
// map to a known identity.
const UnmatchedMarker = "UNMATCHED"
