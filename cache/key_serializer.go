package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = cacheinfra.KeySeparator

// defaultKeySerializer turns an entity kind plus its scope parameters into a query key.
// Scalars are written verbatim so related keys share readable prefixes
// (products::<store> and products::category::<category>); composite values
// collapse to a short digest.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey builds a query key from the entity kind and its scope arguments.
func (s *defaultKeySerializer) SerializeKey(kind string, args ...any) string {
	if len(args) == 0 {
		return kind
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, kind)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	return strings.Join(parts, KeySeparator)
}

// KeyMatches reports whether key equals prefix or is nested under it.
// "products" matches "products::s1" and "products::category::c1" but not "productsx".
func KeyMatches(key, prefix string) bool {
	return cacheinfra.KeyMatches(key, prefix)
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		return s.serializeSequence("slice", rv)
	case reflect.Array:
		return s.serializeSequence("array", rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return fmt.Sprintf("%v", v)
	}

	return s.digest(v)
}

func (s *defaultKeySerializer) serializeSequence(label string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)
	for i := 0; i < length; i++ {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return fmt.Sprintf("%s[%d]:{%s}", label, length, strings.Join(parts, ","))
}

// serializeMap sorts entries so equal maps always produce the same key.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.serializeValue(iter.Key().Interface())+"="+s.serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// digest hashes the JSON form of structs and other composite values.
func (s *defaultKeySerializer) digest(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("fallback:%s", reflect.TypeOf(v).String())
	}
	return fmt.Sprintf("json:%016x", xxhash.Sum64(data))
}
