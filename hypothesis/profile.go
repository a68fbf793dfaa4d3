package hypothesis

import validation "github.com/go-ozzo/ozzo-validation/v4"

// ProfileGroup is the short form of a group listed in a profile.
type ProfileGroup struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Public bool   `json:"public"`
}

// Validate implements validation.Validatable
func (g ProfileGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.ID, validation.Required),
		validation.Field(&g.Name, validation.Required),
	)
}

// Profile describes the user the request is authenticated as. UserID is nil
// for unauthenticated requests.
type Profile struct {
	Authority   string          `json:"authority"`
	Features    map[string]bool `json:"features"`
	Preferences map[string]bool `json:"preferences"`
	UserID      *string         `json:"userid"`
	Groups      []ProfileGroup  `json:"groups"`
	UserInfo    *UserInfo       `json:"user_info,omitempty"`
}

// Validate implements validation.Validatable
func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Authority, validation.Required),
		validation.Field(&p.Groups),
	)
}

// Authenticated reports whether the profile belongs to a signed-in user.
func (p Profile) Authenticated() bool {
	return p.UserID != nil && *p.UserID != ""
}
