package hypothesis

import (
	"bytes"
	"encoding/json"
	"reflect"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// GroupType is the access type of a group
type GroupType string

const (
	// GroupTypePrivate is visible to members only
	GroupTypePrivate GroupType = "private"
	// GroupTypeOpen can be read and joined by anyone
	GroupTypeOpen GroupType = "open"
	// GroupTypeRestricted can be read by anyone but only members annotate
	GroupTypeRestricted GroupType = "restricted"
)

// GroupLinks holds the group's related URLs.
type GroupLinks struct {
	HTML string `json:"html,omitempty"`
}

// GroupScopes restricts the documents a group may annotate.
type GroupScopes struct {
	Enforced    bool     `json:"enforced"`
	URIPatterns []string `json:"uri_patterns"`
}

// Organization owns a group. The API sends either the organization id or,
// with expand=organization, the full object.
type Organization struct {
	ID      string
	Default *bool
	Logo    string
	Name    string

	expanded bool
}

type organizationObject struct {
	ID      string `json:"id"`
	Default *bool  `json:"default,omitempty"`
	Logo    string `json:"logo"`
	Name    string `json:"name"`
}

// Expanded reports whether the full organization object was returned.
func (o Organization) Expanded() bool {
	return o.expanded
}

// UnmarshalJSON accepts a bare id or the expanded object.
func (o *Organization) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		*o = Organization{}
		return json.Unmarshal(data, &o.ID)
	}
	var obj organizationObject
	if err := decodeStrict(data, &obj); err != nil {
		return err
	}
	if err := requireKeys(data, reflect.TypeOf(obj)); err != nil {
		return err
	}
	*o = Organization{ID: obj.ID, Default: obj.Default, Logo: obj.Logo, Name: obj.Name, expanded: true}
	return nil
}

// MarshalJSON writes the same form that was decoded.
func (o Organization) MarshalJSON() ([]byte, error) {
	if !o.expanded {
		return json.Marshal(o.ID)
	}
	return json.Marshal(organizationObject{ID: o.ID, Default: o.Default, Logo: o.Logo, Name: o.Name})
}

// Validate implements validation.Validatable
func (o Organization) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ID, validation.Required),
		validation.Field(&o.Name, validation.When(o.expanded, validation.Required)),
	)
}

// Group is a group as returned by the API.
type Group struct {
	ID           string        `json:"id"`
	GroupID      *string       `json:"groupid"`
	Name         string        `json:"name"`
	Links        GroupLinks    `json:"links"`
	Organization *Organization `json:"organization"`
	Public       bool          `json:"public"`
	Scopes       *GroupScopes  `json:"scopes,omitempty"`
	Scoped       bool          `json:"scoped"`
	Type         GroupType     `json:"type"`
}

// Validate implements validation.Validatable
func (g Group) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.ID, validation.Required),
		validation.Field(&g.Name, validation.Required),
		validation.Field(&g.Organization),
		validation.Field(&g.Type, validation.Required, validation.In(GroupTypePrivate, GroupTypeOpen, GroupTypeRestricted)),
	)
}

// NewGroup is the payload for creating a group, or replacing one with PUT.
type NewGroup struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GroupID     string `json:"groupid,omitempty"`
}

// Validate implements validation.Validatable
func (g NewGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name, validation.Required, validation.Length(3, 25)),
		validation.Field(&g.Description, validation.Length(0, 250)),
	)
}

// UpdatedGroup is the payload for a partial group update. All fields are
// optional.
type UpdatedGroup struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	GroupID     string `json:"groupid,omitempty"`
}

// Validate implements validation.Validatable
func (g UpdatedGroup) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Name, validation.Length(3, 25)),
		validation.Field(&g.Description, validation.Length(0, 250)),
	)
}

// GroupQuery filters the list of groups.
type GroupQuery struct {
	Authority   string
	DocumentURI string
	Expand      []string
}

// Validate implements validation.Validatable
func (q GroupQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Expand, validation.Each(validation.Required, validation.In(ExpandOrganization, ExpandScopes))),
	)
}

// Params converts the query into ordered query parameters.
func (q GroupQuery) Params() Params {
	var p Params
	if q.Authority != "" {
		p = p.Add("authority", q.Authority)
	}
	if q.DocumentURI != "" {
		p = p.Add("document_uri", q.DocumentURI)
	}
	if len(q.Expand) > 0 {
		p = p.Add("expand", q.Expand)
	}
	return p
}

// Relations accepted by the expand parameter of the group endpoints
const (
	ExpandOrganization = "organization"
	ExpandScopes       = "scopes"
)
