package model

// Admin is the single privileged principal stored in the `admins`
// collection. Email is unique and used as the token subject.
//
// Fields:
//
//	ID           – random identifier assigned at registration.
//	Email        – normalized (lower-cased) unique email address.
//	PasswordHash – bcrypt hash; never serialized to API clients.
//	CreatedAt    – registration time.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    Timestamp `json:"created_at"`
}

// AdminView is the client-facing projection of an Admin.
type AdminView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// View strips the password hash.
func (a Admin) View() AdminView {
	return AdminView{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
