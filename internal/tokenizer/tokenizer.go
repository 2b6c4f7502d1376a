// Package tokenizer turns decoded JSON values into canonical Token trees.
package tokenizer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mcncl/json2struct/internal/models"
)

// MaxSafeInteger is the largest integer magnitude that survives a round trip
// through an IEEE-754 double.
const MaxSafeInteger = 1<<53 - 1

// Tokenize converts a decoded JSON value into its Token tree. It is a pure
// function of value.
func Tokenize(value models.JSONValue) *models.Token {
	return tokenize(value, "", false)
}

// TokenizeKeyed tokenizes value as the member named key of an enclosing map.
func TokenizeKeyed(value models.JSONValue, key string) *models.Token {
	return tokenize(value, key, true)
}

func tokenize(value models.JSONValue, key string, keyed bool) *models.Token {
	tok := &models.Token{Key: key, Keyed: keyed}

	switch v := value.(type) {
	case nil:
		tok.Type = models.TypeNull
	case bool:
		tok.Type = models.TypeBoolean
	case string:
		tok.Type = models.TypeString
	case json.Number:
		tok.Type = numberType(v)
	case float64:
		tok.Type = floatType(v)
	case float32:
		tok.Type = floatType(float64(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		tok.Type = integerType(v)
	case models.JSONObject:
		tok.Type = models.TypeMap
		tok.Children = tokenizeMap(v)
	case map[string]interface{}:
		tok.Type = models.TypeMap
		tok.Children = tokenizeMap(v)
	case map[interface{}]interface{}:
		obj := make(map[string]interface{}, len(v))
		for k, val := range v {
			obj[fmt.Sprint(k)] = val
		}
		tok.Type = models.TypeMap
		tok.Children = tokenizeMap(obj)
	case models.JSONArray:
		tok.Type = models.TypeArray
		tok.Children = tokenizeArray(v)
	case []interface{}:
		tok.Type = models.TypeArray
		tok.Children = tokenizeArray(v)
	default:
		tok.Type = models.TypeUnknown
	}

	return tok
}

func tokenizeMap[M ~map[string]models.JSONValue](obj M) []*models.Token {
	children := make([]*models.Token, 0, len(obj))
	for k, v := range obj {
		children = append(children, tokenize(v, k, true))
	}
	SortTokens(children)
	return children
}

func tokenizeArray[A ~[]models.JSONValue](arr A) []*models.Token {
	children := make([]*models.Token, 0, len(arr))
	for _, elem := range arr {
		children = append(children, tokenize(elem, "", false))
	}
	children = Unique(children)
	SortTokens(children)
	return children
}

// Unique drops every token whose fingerprint already appeared earlier in
// tokens. The first occurrence wins and order is otherwise kept.
func Unique(tokens []*models.Token) []*models.Token {
	out := tokens[:0]
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		fp := tok.Fingerprint()
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// SortTokens orders siblings by key when both are keyed with different keys,
// and by type otherwise. The sort is stable so ties keep discovery order.
func SortTokens(tokens []*models.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		return Less(tokens[i], tokens[j])
	})
}

// Less is the structural sort comparator.
func Less(a, b *models.Token) bool {
	if a.Keyed && b.Keyed && a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.Type < b.Type
}

func numberType(n json.Number) models.TokenType {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return integerType(i)
	}
	f, err := n.Float64()
	if err != nil {
		return models.TypeFloat
	}
	return floatType(f)
}

func floatType(f float64) models.TokenType {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return models.TypeFloat
	}
	if f == math.Trunc(f) && math.Abs(f) <= MaxSafeInteger {
		return models.TypeInteger
	}
	return models.TypeFloat
}

func integerType(v interface{}) models.TokenType {
	switch n := v.(type) {
	case int:
		return safeInt(int64(n))
	case int8:
		return models.TypeInteger
	case int16:
		return models.TypeInteger
	case int32:
		return models.TypeInteger
	case int64:
		return safeInt(n)
	case uint:
		return safeUint(uint64(n))
	case uint8, uint16, uint32:
		return models.TypeInteger
	case uint64:
		return safeUint(n)
	}
	return models.TypeUnknown
}

func safeInt(n int64) models.TokenType {
	if n > MaxSafeInteger || n < -MaxSafeInteger {
		return models.TypeFloat
	}
	return models.TypeInteger
}

func safeUint(n uint64) models.TokenType {
	if n > MaxSafeInteger {
		return models.TypeFloat
	}
	return models.TypeInteger
}
