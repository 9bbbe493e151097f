package reviews

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrUpstreamStatus = errors.New("reviews resource returned non-success status")
	ErrMalformed      = errors.New("malformed reviews document")
)

const (
	DefaultAuthor = "Anonymous"
	DefaultRating = 5.0
	MinRating     = 1.0
	MaxRating     = 5.0
)

// Review is a cleaned review as served to the site.
type Review struct {
	AuthorName string  `json:"authorName"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	URL        string  `json:"url,omitempty"`
}

// Parse accepts either a bare array of review records or an object holding
// them under "reviews", and returns the cleaned reviews.
func Parse(body []byte) ([]Review, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch v := doc.(type) {
	case []any:
		return Clean(v), nil
	case map[string]any:
		switch list := v["reviews"].(type) {
		case nil:
			return []Review{}, nil
		case []any:
			return Clean(list), nil
		default:
			return nil, fmt.Errorf("%w: \"reviews\" is %T, want array", ErrMalformed, list)
		}
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrMalformed, doc)
	}
}

// Clean drops records without text or rating and coerces the rest.
func Clean(records []any) []Review {
	out := make([]Review, 0, len(records))
	for _, item := range records {
		rec, ok := item.(map[string]any)
		if !ok || !truthy(rec["text"]) || !truthy(rec["rating"]) {
			continue
		}
		text, ok := stringify(rec["text"])
		if !ok {
			continue
		}

		r := Review{
			AuthorName: DefaultAuthor,
			Rating:     clampRating(toNumber(rec["rating"])),
			Text:       text,
		}
		if truthy(rec["authorName"]) {
			if name, ok := stringify(rec["authorName"]); ok {
				r.AuthorName = name
			}
		}
		if truthy(rec["url"]) {
			if u, ok := stringify(rec["url"]); ok {
				r.URL = u
			}
		}
		out = append(out, r)
	}
	return out
}

func clampRating(n float64) float64 {
	if math.IsNaN(n) || n == 0 {
		n = DefaultRating
	}
	return math.Max(MinRating, math.Min(MaxRating, n))
}

// truthy follows JSON-value truthiness: null, false, 0 and "" are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// stringify renders scalar JSON values; objects and arrays are rejected.
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	default:
		return "", false
	}
}

// toNumber returns NaN for values that are not numbers or numeric strings.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}
