package hypothesis

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validateInput runs v's rules and wraps any failure in a *ValidationError.
func validateInput(target string, v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		return &ValidationError{Target: target, Err: err}
	}
	return nil
}

func validateConnection(conn ConnectionOptions) error {
	return validateInput("connection options", conn)
}

// validateID rejects empty path identifiers.
func validateID(target, id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return &ValidationError{Target: target, Err: err}
	}
	return nil
}

// validateOutput decodes body into T, rejecting unknown fields, checks that
// every required key was sent, and then runs the rules of T (or of its
// elements for slices).
func validateOutput[T any](target string, body []byte) (T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, &ValidationError{Target: target, Err: err}
	}
	if err := requireKeys(body, reflect.TypeOf(out)); err != nil {
		return out, &ValidationError{Target: target, Err: err}
	}
	if err := validation.Validate(out); err != nil {
		return out, &ValidationError{Target: target, Err: err}
	}
	return out, nil
}

// decodeStrict is the strict decode used by the custom unmarshalers of
// nested union types.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var (
	rawMessageType  = reflect.TypeOf(json.RawMessage(nil))
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// notNull rejects a JSON null.
var notNull = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return validation.NewError("validation_not_null", "must not be null")
	}
	return nil
})

// requireKeys walks the JSON document in data alongside t. A struct field
// tagged without omitempty must be present, and any field may only be null
// when it is a pointer or a json.RawMessage. Types with their own
// UnmarshalJSON check themselves. Shape mismatches are left to the decoder.
func requireKeys(data []byte, t reflect.Type) error {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == rawMessageType || reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		return requireObjectKeys(data, t)
	case reflect.Slice, reflect.Array:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		errs := validation.Errors{}
		for i, item := range items {
			if err := requireKeys(item, t.Elem()); err != nil {
				errs[strconv.Itoa(i)] = err
			}
		}
		return errs.Filter()
	case reflect.Map:
		var items map[string]json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		errs := validation.Errors{}
		for k, item := range items {
			if err := requireKeys(item, t.Elem()); err != nil {
				errs[k] = err
			}
		}
		return errs.Filter()
	}
	return nil
}

func requireObjectKeys(data []byte, t reflect.Type) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}

	keys := make([]*validation.KeyRules, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, optional, ok := jsonKey(field)
		if !ok {
			continue
		}

		var rules []validation.Rule
		if !nullable(field.Type) {
			rules = append(rules, notNull)
		}
		rules = append(rules, validation.By(func(value interface{}) error {
			raw, _ := value.(json.RawMessage)
			return requireKeys(raw, field.Type)
		}))

		key := validation.Key(name, rules...)
		if optional {
			key = key.Optional()
		}
		keys = append(keys, key)
	}

	return validation.Validate(fields, validation.Map(keys...).AllowExtraKeys())
}

// jsonKey reports the JSON key of an exported field and whether it carries
// omitempty.
func jsonKey(field reflect.StructField) (name string, optional, ok bool) {
	if field.PkgPath != "" {
		return "", false, false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional, true
}

func nullable(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface || t == rawMessageType
}

// requireFields checks that the JSON object in data carries every key in
// names with a non-null value.
func requireFields(data []byte, names ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	keys := make([]*validation.KeyRules, 0, len(names))
	for _, name := range names {
		keys = append(keys, validation.Key(name, notNull))
	}
	return validation.Validate(fields, validation.Map(keys...).AllowExtraKeys())
}
