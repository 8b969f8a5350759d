package domain

import "time"

// User is the persisted credential record. Mutations go through the
// repository; nothing in the core writes to it in place.
type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	Username       *string    `json:"username"`
	FirstName      *string    `json:"first_name"`
	LastName       *string    `json:"last_name"`
	Bio            *string    `json:"bio"`
	AvatarURL      *string    `json:"avatar_url"`
	IsActive       bool       `json:"is_active"`
	IsVerified     bool       `json:"is_verified"`
	IsSuperuser    bool       `json:"is_superuser"`
	Role           string     `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLoginAt    *time.Time `json:"last_login_at"`
}

// Identity is the read-only projection of an authenticated caller. Its
// fields come from the live user record, never from token claims, so a
// deactivation or role change takes effect on the next request.
type Identity struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Username    *string `json:"username"`
	IsSuperuser bool    `json:"is_superuser"`
	Role        string  `json:"role"`
}

// IdentityOf projects a user record into its caller identity.
func IdentityOf(u *User) *Identity {
	return &Identity{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsSuperuser: u.IsSuperuser,
		Role:        u.Role,
	}
}
