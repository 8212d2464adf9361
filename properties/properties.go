// Package properties parses the PROP1=VALUE1:PROP2=VALUE2 property strings
// used to configure storage sessions.
//
// Keys are case-insensitive and stored upper-cased. Values keep their case;
// booleans accept TRUE|FALSE|YES|NO|ON|OFF in any case.
package properties

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/meshid"
)

// EnvVar is the environment variable read by FromEnv.
const EnvVar = "MESHID_PROPERTIES"

// Error reports a malformed entry or a value of the wrong kind.
type Error struct {
	Key    string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("properties: invalid entry %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("properties: %s=%q: %s", e.Key, e.Value, e.Reason)
}

// Unwrap returns meshid.ErrConfiguration.
func (e *Error) Unwrap() error { return meshid.ErrConfiguration }

// Properties is a set of upper-cased keys and their raw values.
type Properties map[string]string

// Parse parses s. Empty entries are skipped; an entry that is not of the
// form PROPERTY=VALUE is an error.
func Parse(s string) (Properties, error) {
	p := make(Properties)
	for _, entry := range strings.Split(s, ":") {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.Contains(value, "=") {
			return nil, &Error{Value: entry, Reason: "not of the form PROPERTY=VALUE"}
		}
		p.Set(key, strings.TrimSpace(value))
	}
	return p, nil
}

// FromEnv parses the contents of EnvVar. A missing variable yields an
// empty set.
func FromEnv() (Properties, error) {
	s, ok := os.LookupEnv(EnvVar)
	if !ok {
		return make(Properties), nil
	}
	return Parse(s)
}

// Set stores value under the upper-cased key.
func (p Properties) Set(key, value string) {
	p[strings.ToUpper(key)] = value
}

// Get returns the raw value of key.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[strings.ToUpper(key)]
	return v, ok
}

// String returns the value of key or def if it is not set.
func (p Properties) String(key, def string) string {
	if v, ok := p.Get(key); ok {
		return v
	}
	return def
}

// Bool returns the boolean value of key or def if it is not set.
func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p.Get(key)
	if !ok {
		return def, nil
	}

	switch strings.ToUpper(v) {
	case "TRUE", "YES", "ON":
		return true, nil
	case "FALSE", "NO", "OFF":
		return false, nil
	default:
		return def, &Error{Key: strings.ToUpper(key), Value: v, Reason: "not one of TRUE|FALSE|YES|NO|ON|OFF"}
	}
}

// Int returns the integer value of key or def if it is not set.
func (p Properties) Int(key string, def int64) (int64, error) {
	v, ok := p.Get(key)
	if !ok {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, &Error{Key: strings.ToUpper(key), Value: v, Reason: "not an integer"}
	}
	return n, nil
}

// Merge returns a new set holding p overlaid by each of others in turn.
// Later sets win.
func (p Properties) Merge(others ...Properties) Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Keys returns the keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Encode formats p in the form accepted by Parse, keys sorted.
func (p Properties) Encode() string {
	var b strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(p[k])
	}
	return b.String()
}
