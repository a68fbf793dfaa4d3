package hypothesis

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RouteMetadata describes one API route in the index response.
type RouteMetadata struct {
	Method string  `json:"method"`
	URL    string  `json:"url"`
	Desc   *string `json:"desc"`
}

// Validate implements validation.Validatable
func (r RouteMetadata) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Method, validation.Required, validation.In(
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		)),
		validation.Field(&r.URL, validation.Required),
	)
}

// AnnotationRoutes lists the annotation routes.
type AnnotationRoutes struct {
	Create RouteMetadata `json:"create"`
	Delete RouteMetadata `json:"delete"`
	Read   RouteMetadata `json:"read"`
	Update RouteMetadata `json:"update"`
	Flag   RouteMetadata `json:"flag"`
	Hide   RouteMetadata `json:"hide"`
	Unhide RouteMetadata `json:"unhide"`
}

// BulkRoutes lists the bulk routes.
type BulkRoutes struct {
	Action     RouteMetadata `json:"action"`
	Annotation RouteMetadata `json:"annotation"`
}

// GroupMemberRoutes lists the routes acting on a single member.
type GroupMemberRoutes struct {
	Add    RouteMetadata `json:"add"`
	Delete RouteMetadata `json:"delete"`
}

// GroupMembersRoutes lists the routes acting on the member list.
type GroupMembersRoutes struct {
	Read RouteMetadata `json:"read"`
}

// GroupRoutes lists the group routes.
type GroupRoutes struct {
	Member         GroupMemberRoutes  `json:"member"`
	Create         RouteMetadata      `json:"create"`
	Read           RouteMetadata      `json:"read"`
	Members        GroupMembersRoutes `json:"members"`
	Update         RouteMetadata      `json:"update"`
	CreateOrUpdate RouteMetadata      `json:"create_or_update"`
}

// ReadRoute holds a single read route.
type ReadRoute struct {
	Read RouteMetadata `json:"read"`
}

// ProfileRoutes lists the profile routes.
type ProfileRoutes struct {
	Read   RouteMetadata `json:"read"`
	Groups ReadRoute     `json:"groups"`
	Update RouteMetadata `json:"update"`
}

// UserRoutes lists the user routes.
type UserRoutes struct {
	Create RouteMetadata `json:"create"`
	Read   RouteMetadata `json:"read"`
	Update RouteMetadata `json:"update"`
}

// IndexLinks is the route tree of the API index.
type IndexLinks struct {
	Annotation AnnotationRoutes `json:"annotation"`
	Search     RouteMetadata    `json:"search"`
	Bulk       BulkRoutes       `json:"bulk"`
	Group      GroupRoutes      `json:"group"`
	Groups     ReadRoute        `json:"groups"`
	Index      *RouteMetadata   `json:"index,omitempty"`
	Links      RouteMetadata    `json:"links"`
	Profile    ProfileRoutes    `json:"profile"`
	User       UserRoutes       `json:"user"`
}

// IndexResponse is returned by GET / and lists the available services.
type IndexResponse struct {
	Links IndexLinks `json:"links"`
}

// Validate checks the routes every client relies on.
func (r IndexResponse) Validate() error {
	l := r.Links
	return validation.Validate([]RouteMetadata{
		l.Annotation.Create, l.Annotation.Delete, l.Annotation.Read, l.Annotation.Update,
		l.Annotation.Flag, l.Annotation.Hide, l.Annotation.Unhide,
		l.Search,
		l.Bulk.Action, l.Bulk.Annotation,
		l.Group.Member.Add, l.Group.Member.Delete, l.Group.Create, l.Group.Read,
		l.Group.Members.Read, l.Group.Update, l.Group.CreateOrUpdate,
		l.Groups.Read,
		l.Links,
		l.Profile.Read, l.Profile.Groups.Read, l.Profile.Update,
		l.User.Create, l.User.Read, l.User.Update,
	})
}
