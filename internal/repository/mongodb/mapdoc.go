package mongodb

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Documents written by older client versions vary in field presence and
// casing, so reads go through these tolerant accessors instead of struct
// decoding: exact key first, case-insensitive fallback second, safe default
// last.

func docValue(doc bson.M, key string) (any, bool) {
	if v, ok := doc[key]; ok {
		return v, true
	}
	for k, v := range doc {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func docString(doc bson.M, key, fallback string) string {
	v, ok := docValue(doc, key)
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func docInt(doc bson.M, key string, fallback int) int {
	v, ok := docValue(doc, key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

func docBool(doc bson.M, key string, fallback bool) bool {
	v, ok := docValue(doc, key)
	if !ok {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func docTime(doc bson.M, key string, fallback time.Time) time.Time {
	v, ok := docValue(doc, key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	default:
		return fallback
	}
}

func docFloat(doc bson.M, key string, fallback float64) float64 {
	v, ok := docValue(doc, key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return fallback
	}
}
