package hypothesis

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SelectorType identifies the kind of a target selector
type SelectorType string

// Selector types defined by the W3C annotation model and the Hypothesis client
const (
	SelectorFragment     SelectorType = "FragmentSelector"
	SelectorCSS          SelectorType = "CssSelector"
	SelectorXPath        SelectorType = "XPathSelector"
	SelectorTextQuote    SelectorType = "TextQuoteSelector"
	SelectorTextPosition SelectorType = "TextPositionSelector"
	SelectorDataPosition SelectorType = "DataPositionSelector"
	SelectorSVG          SelectorType = "SvgSelector"
	SelectorRange        SelectorType = "RangeSelector"
	SelectorEPUBContent  SelectorType = "EPUBContentSelector"
	SelectorPage         SelectorType = "PageSelector"
)

// Selector locates the annotated segment within a document. Which fields are
// set depends on Type.
type Selector struct {
	Type SelectorType `json:"type"`

	// Fragment, Css, XPath, Svg
	Value      string `json:"value,omitempty"`
	ConformsTo string `json:"conformsTo,omitempty"`

	// TextQuote
	Exact  string `json:"exact,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`

	// TextPosition, DataPosition
	Start *int `json:"start,omitempty"`
	End   *int `json:"end,omitempty"`

	// Range
	StartContainer string `json:"startContainer,omitempty"`
	EndContainer   string `json:"endContainer,omitempty"`
	StartOffset    *int   `json:"startOffset,omitempty"`
	EndOffset      *int   `json:"endOffset,omitempty"`

	// EPUBContent
	URL   string `json:"url,omitempty"`
	CFI   string `json:"cfi,omitempty"`
	Title string `json:"title,omitempty"`

	// Page
	Index *int   `json:"index,omitempty"`
	Label string `json:"label,omitempty"`
}

// selectorKeys lists the keys each selector type must carry. String keys may
// be empty but not absent.
var selectorKeys = map[SelectorType][]string{
	SelectorFragment:     {"value", "conformsTo"},
	SelectorCSS:          {"value"},
	SelectorXPath:        {"value"},
	SelectorTextQuote:    {"exact"},
	SelectorTextPosition: {"start", "end"},
	SelectorDataPosition: {"start", "end"},
	SelectorSVG:          {"value"},
	SelectorRange:        {"startContainer", "endContainer", "startOffset", "endOffset"},
	SelectorEPUBContent:  {"url"},
	SelectorPage:         {"index"},
}

// UnmarshalJSON decodes a selector. Fragment, Css and XPath selectors tolerate
// extra fields; every other type is decoded strictly.
func (s *Selector) UnmarshalJSON(data []byte) error {
	type plain Selector
	var head struct {
		Type SelectorType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if err := requireFields(data, selectorKeys[head.Type]...); err != nil {
		return err
	}

	var out plain
	switch head.Type {
	case SelectorFragment, SelectorCSS, SelectorXPath:
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
	default:
		if err := decodeStrict(data, &out); err != nil {
			return err
		}
	}
	*s = Selector(out)
	return nil
}

// MarshalJSON writes the selector. Required string keys are written even when
// empty.
func (s Selector) MarshalJSON() ([]byte, error) {
	type plain Selector
	data, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	added := false
	for _, key := range selectorKeys[s.Type] {
		if _, ok := fields[key]; !ok && selectorTextKey(key) {
			fields[key] = json.RawMessage(`""`)
			added = true
		}
	}
	if !added {
		return data, nil
	}
	return json.Marshal(fields)
}

func selectorTextKey(key string) bool {
	switch key {
	case "value", "conformsTo", "exact", "startContainer", "endContainer", "url":
		return true
	}
	return false
}

// Validate checks the type and the numeric fields it requires.
func (s Selector) Validate() error {
	typeIs := func(types ...SelectorType) bool {
		for _, t := range types {
			if s.Type == t {
				return true
			}
		}
		return false
	}

	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.Required, validation.In(
			SelectorFragment, SelectorCSS, SelectorXPath, SelectorTextQuote,
			SelectorTextPosition, SelectorDataPosition, SelectorSVG,
			SelectorRange, SelectorEPUBContent, SelectorPage,
		)),
		validation.Field(&s.Start, validation.When(typeIs(SelectorTextPosition, SelectorDataPosition), validation.NotNil)),
		validation.Field(&s.End, validation.When(typeIs(SelectorTextPosition, SelectorDataPosition), validation.NotNil)),
		validation.Field(&s.StartOffset, validation.When(typeIs(SelectorRange), validation.NotNil)),
		validation.Field(&s.EndOffset, validation.When(typeIs(SelectorRange), validation.NotNil)),
		validation.Field(&s.Index, validation.When(typeIs(SelectorPage), validation.NotNil)),
	)
}

// Target is an annotated resource and where in it the annotation anchors.
type Target struct {
	Source   string     `json:"source,omitempty"`
	Selector []Selector `json:"selector,omitempty"`
}

// Validate validates each selector
func (t Target) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Selector),
	)
}

// Document is the document metadata attached to a saved annotation.
type Document struct {
	Title []string `json:"title"`
}

// UserInfo carries the display name of an annotation's author.
type UserInfo struct {
	DisplayName *string `json:"display_name"`
}

// Annotation is a saved annotation as returned by the API.
type Annotation struct {
	ID          string          `json:"id"`
	Consumer    string          `json:"consumer,omitempty"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	User        string          `json:"user"`
	URI         string          `json:"uri"`
	Text        string          `json:"text"`
	Tags        []string        `json:"tags"`
	Group       string          `json:"group"`
	Permissions json.RawMessage `json:"permissions"`
	Target      []Target        `json:"target"`
	Document    Document        `json:"document"`
	Links       json.RawMessage `json:"links"`
	Hidden      bool            `json:"hidden"`
	Flagged     bool            `json:"flagged"`
	References  []string        `json:"references,omitempty"`
	UserInfo    *UserInfo       `json:"user_info,omitempty"`
}

// Validate implements validation.Validatable
func (a Annotation) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Created, validation.Required),
		validation.Field(&a.Updated, validation.Required),
		validation.Field(&a.User, validation.Required),
		validation.Field(&a.URI, validation.Required),
		validation.Field(&a.Group, validation.Required),
		validation.Field(&a.Target),
	)
}

// CreatedAt parses the creation timestamp. The zero time is returned when
// the field is not a valid RFC 3339 timestamp.
func (a Annotation) CreatedAt() time.Time {
	t, _ := time.Parse(time.RFC3339, a.Created)
	return t
}

// UpdatedAt parses the last update timestamp.
func (a Annotation) UpdatedAt() time.Time {
	t, _ := time.Parse(time.RFC3339, a.Updated)
	return t
}

// IsReply reports whether the annotation replies to another one.
func (a Annotation) IsReply() bool {
	return len(a.References) > 0
}

// DisplayName returns the author's display name, or the account id when
// none is set.
func (a Annotation) DisplayName() string {
	if a.UserInfo != nil && a.UserInfo.DisplayName != nil && *a.UserInfo.DisplayName != "" {
		return *a.UserInfo.DisplayName
	}
	return a.User
}

// Title returns the first document title, if any.
func (a Annotation) Title() string {
	if len(a.Document.Title) > 0 {
		return a.Document.Title[0]
	}
	return ""
}

// DublinCore is the Dublin Core metadata of a new annotation's document.
type DublinCore struct {
	Identifier []string `json:"identifier,omitempty"`
}

// Highwire is the Highwire Press metadata of a new annotation's document.
type Highwire struct {
	DOI    []string `json:"doi,omitempty"`
	PDFURL []string `json:"pdf_url,omitempty"`
}

// DocumentLink is an alternate location of the annotated document.
type DocumentLink struct {
	Href string `json:"href"`
	Type string `json:"type,omitempty"`
}

// Validate implements validation.Validatable
func (l DocumentLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Href, validation.Required),
	)
}

// NewDocument is the document metadata sent when creating an annotation.
type NewDocument struct {
	Title    []string       `json:"title,omitempty"`
	DC       *DublinCore    `json:"dc,omitempty"`
	Highwire *Highwire      `json:"highwire,omitempty"`
	Link     []DocumentLink `json:"link,omitempty"`
}

// Validate implements validation.Validatable
func (d NewDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Link),
	)
}

// NewTarget anchors a new annotation.
type NewTarget struct {
	Selector []Selector `json:"selector"`
}

// Validate implements validation.Validatable
func (t NewTarget) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Selector, validation.Required),
	)
}

// NewAnnotation is the payload for creating or updating an annotation.
type NewAnnotation struct {
	URI         string          `json:"uri"`
	Document    *NewDocument    `json:"document,omitempty"`
	Text        string          `json:"text,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Group       string          `json:"group,omitempty"`
	Permissions json.RawMessage `json:"permissions,omitempty"`
	Target      *NewTarget      `json:"target,omitempty"`
	References  []string        `json:"references,omitempty"`
}

// Validate implements validation.Validatable
func (n NewAnnotation) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.URI, validation.Required),
		validation.Field(&n.Document),
		validation.Field(&n.Target),
		validation.Field(&n.Tags, validation.Each(validation.Required)),
	)
}

// deletedAnnotation is the body returned by DELETE /annotations/{id}.
type deletedAnnotation struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Validate implements validation.Validatable
func (d deletedAnnotation) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ID, validation.Required),
	)
}
