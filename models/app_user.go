package models

// AppUser is one login account. Password holds a bcrypt hash; entries restored
// from old backups may still carry plaintext until their next successful login.
type AppUser struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile"`
	UserID   string `json:"userId" validate:"required"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

func (u AppUser) EntityID() string { return u.ID }

// Public returns a copy without the password.
func (u AppUser) Public() AppUser {
	u.Password = ""
	return u
}
