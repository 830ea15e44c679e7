package token

// User is the basic part of user data the auth service puts in its tokens
type User struct {
	// set by service
	Name     string `json:"name"`
	ID       string `json:"id"`
	Audience string `json:"aud,omitempty"`

	// set by client
	IP         string                 `json:"ip,omitempty"`
	Email      string                 `json:"email,omitempty"`
	Attributes map[string]interface{} `json:"attrs,omitempty"`
	Role       string                 `json:"role,omitempty"`
}

// DisplayName returns the email when known, the name otherwise.
func (u User) DisplayName() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Name
}
