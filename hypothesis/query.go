package hypothesis

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query parameters. Order is kept on encoding,
// unlike url.Values which sorts by key.
type Params []Param

// Add appends a parameter and returns the extended list
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// EncodeQuery serializes params into a query string (without the leading "?").
//
// Strings pass through, integers and floats are written in decimal, booleans
// become "true" or "false" and string slices are written as repeated
// key=value pairs. Zero values are encoded like any other value. Any other
// type fails with an *EncodingError.
func EncodeQuery(params Params) (string, error) {
	var sb strings.Builder
	write := func(key, value string) {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(value))
	}

	for _, p := range params {
		switch v := p.Value.(type) {
		case string:
			write(p.Key, v)
		case bool:
			write(p.Key, strconv.FormatBool(v))
		case int:
			write(p.Key, strconv.FormatInt(int64(v), 10))
		case int8:
			write(p.Key, strconv.FormatInt(int64(v), 10))
		case int16:
			write(p.Key, strconv.FormatInt(int64(v), 10))
		case int32:
			write(p.Key, strconv.FormatInt(int64(v), 10))
		case int64:
			write(p.Key, strconv.FormatInt(v, 10))
		case uint:
			write(p.Key, strconv.FormatUint(uint64(v), 10))
		case uint8:
			write(p.Key, strconv.FormatUint(uint64(v), 10))
		case uint16:
			write(p.Key, strconv.FormatUint(uint64(v), 10))
		case uint32:
			write(p.Key, strconv.FormatUint(uint64(v), 10))
		case uint64:
			write(p.Key, strconv.FormatUint(v, 10))
		case float32:
			write(p.Key, strconv.FormatFloat(float64(v), 'f', -1, 32))
		case float64:
			write(p.Key, strconv.FormatFloat(v, 'f', -1, 64))
		case []string:
			for _, s := range v {
				write(p.Key, s)
			}
		default:
			return "", &EncodingError{Key: p.Key, Value: p.Value}
		}
	}

	return sb.String(), nil
}

// ParseQuery reads a query string back into ordered params. Every value
// comes back as a string, and a key that appears more than once is collected
// into a []string at the position of its first occurrence. The encoding does
// not carry types, so this only inverts EncodeQuery for string values and for
// slices of two or more elements: a one-element []string comes back as a
// string, an empty []string leaves no key at all, and numbers and bools come
// back in their text form.
func ParseQuery(query string) (Params, error) {
	query = strings.TrimPrefix(query, "?")
	var params Params
	index := make(map[string]int)

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, err
		}

		i, seen := index[key]
		if !seen {
			index[key] = len(params)
			params = append(params, Param{Key: key, Value: value})
			continue
		}
		switch existing := params[i].Value.(type) {
		case string:
			params[i].Value = []string{existing, value}
		case []string:
			params[i].Value = append(existing, value)
		}
	}

	return params, nil
}

// withQuery appends the encoded params to path. An empty query leaves the
// path untouched.
func withQuery(path string, params Params) (string, error) {
	qs, err := EncodeQuery(params)
	if err != nil {
		return "", err
	}
	if qs == "" {
		return path, nil
	}
	return path + "?" + qs, nil
}
