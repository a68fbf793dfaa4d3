package hypothesis

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Identity links a user to an account at an external provider.
type Identity struct {
	Provider         string `json:"provider"`
	ProviderUniqueID string `json:"provider_unique_id"`
}

// Validate implements validation.Validatable
func (i Identity) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Provider, validation.Required),
		validation.Field(&i.ProviderUniqueID, validation.Required),
	)
}

// User is a user account as returned by the API.
type User struct {
	Authority   string     `json:"authority"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name,omitempty"`
	Identities  []Identity `json:"identities,omitempty"`
	UserID      string     `json:"userid"`
}

// Validate implements validation.Validatable
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Authority, validation.Required),
		validation.Field(&u.Username, validation.Required),
		validation.Field(&u.UserID, validation.Required),
		validation.Field(&u.Identities),
	)
}

// NewUser is the payload for creating a user under an auth client's
// authority.
type NewUser struct {
	Authority   string     `json:"authority"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Identities  []Identity `json:"identities,omitempty"`
}

// Validate implements validation.Validatable
func (u NewUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Authority, validation.Required),
		validation.Field(&u.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
		validation.Field(&u.DisplayName, validation.Length(0, 30)),
		validation.Field(&u.Identities),
	)
}

// UpdatedUser is the payload for a partial user update.
type UpdatedUser struct {
	Email       string  `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// Validate implements validation.Validatable
func (u UpdatedUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, is.EmailFormat),
		validation.Field(&u.DisplayName, validation.Length(0, 30)),
	)
}
