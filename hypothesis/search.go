package hypothesis

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Sort orders accepted by the search endpoint
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SearchQuery holds the search parameters. For the string fields the empty
// string means "not set": it is left out of the request, so an empty text= or
// user= cannot be sent from here (use Fetch with EncodeQuery for that). Nil
// pointers and a nil Tags are left out too. Everything else is sent, zero
// values included, so Limit pointing at 0 sends limit=0.
type SearchQuery struct {
	Sort            string
	SearchAfter     string
	Offset          *int
	Order           string
	URI             string
	URL             string
	URLParts        string
	WildcardURI     string
	User            string
	Group           string
	Tag             string
	Tags            []string
	Any             string
	Quote           string
	References      string
	Text            string
	Limit           *int
	SeparateReplies *bool
}

// Validate implements validation.Validatable
func (q SearchQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Offset, validation.Min(0)),
		validation.Field(&q.Order, validation.In(OrderAsc, OrderDesc)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(200)),
		validation.Field(&q.Tags, validation.Each(validation.Required)),
	)
}

// Params converts the query into ordered query parameters.
func (q SearchQuery) Params() Params {
	var p Params
	addString := func(key, value string) {
		if value != "" {
			p = p.Add(key, value)
		}
	}

	addString("sort", q.Sort)
	addString("search_after", q.SearchAfter)
	if q.Offset != nil {
		p = p.Add("offset", *q.Offset)
	}
	addString("order", q.Order)
	addString("uri", q.URI)
	addString("url", q.URL)
	addString("url.parts", q.URLParts)
	addString("wildcard_uri", q.WildcardURI)
	addString("user", q.User)
	addString("group", q.Group)
	addString("tag", q.Tag)
	if q.Tags != nil {
		p = p.Add("tags", q.Tags)
	}
	addString("any", q.Any)
	addString("quote", q.Quote)
	addString("references", q.References)
	addString("text", q.Text)
	if q.Limit != nil {
		p = p.Add("limit", *q.Limit)
	}
	if q.SeparateReplies != nil {
		p = p.Add("_separate_replies", *q.SeparateReplies)
	}
	return p
}

// SearchResult is the response of the search endpoint. Replies is only set
// when the query asked for separate replies.
type SearchResult struct {
	Total   int          `json:"total"`
	Rows    []Annotation `json:"rows"`
	Replies []Annotation `json:"replies,omitempty"`
}

// Validate implements validation.Validatable
func (r SearchResult) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Total, validation.Min(0)),
		validation.Field(&r.Rows),
		validation.Field(&r.Replies),
	)
}
