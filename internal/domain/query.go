package domain

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Operation names the logical catalog query a cache key belongs to.
type Operation string

const (
	OpListProducts  Operation = "products"
	OpSearch        Operation = "search"
	OpCategory      Operation = "category"
	OpBrand         Operation = "brand"
	OpPriceRange    Operation = "price"
	OpRating        Operation = "rating"
	OpAvailability  Operation = "availability"
	OpMultiFilter   Operation = "multi_filter"
	OpTrending      Operation = "trending"
	OpDiscounted    Operation = "discounted_products"
	OpStats         Operation = "product_stats"
	OpFilterOptions Operation = "filter_options"
)

// QueryKey describes a logical query: the operation and its parameters.
// Key derives the canonical cache key, so two logically identical queries
// always share a key regardless of parameter insertion order.
type QueryKey struct {
	Op     Operation
	params map[string]string
}

// NewQueryKey starts a key for op.
func NewQueryKey(op Operation) QueryKey {
	return QueryKey{Op: op, params: make(map[string]string)}
}

// Text adds a free-text parameter; the value is trimmed and lower-cased.
func (q QueryKey) Text(name, value string) QueryKey {
	q.params[name] = strings.ToLower(strings.TrimSpace(value))
	return q
}

// Int adds an integer parameter.
func (q QueryKey) Int(name string, value int) QueryKey {
	q.params[name] = strconv.Itoa(value)
	return q
}

// Float adds a float parameter in its shortest round-trip form.
func (q QueryKey) Float(name string, value float64) QueryKey {
	q.params[name] = strconv.FormatFloat(value, 'f', -1, 64)
	return q
}

// Raw adds a parameter verbatim.
func (q QueryKey) Raw(name, value string) QueryKey {
	q.params[name] = value
	return q
}

// Key returns "op" or "op:a=1|b=2" with parameter names sorted. Values are
// query-escaped, so no value can imitate another parameter.
func (q QueryKey) Key() string {
	if len(q.params) == 0 {
		return string(q.Op)
	}

	names := make([]string, 0, len(q.params))
	for name := range q.params {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(string(q.Op))
	sb.WriteByte(':')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.params[name]))
	}

	return sb.String()
}

// FilterKey derives the cache key of a multi-criteria filter. Only set fields
// are serialized as "field:value" (query-escaped values, lists joined by
// commas), sorted by field name, joined by "|" and base64 encoded.
func FilterKey(f Filters) string {
	var pairs []string
	add := func(name, value string) {
		pairs = append(pairs, name+":"+url.QueryEscape(value))
	}
	addList := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = url.QueryEscape(v)
		}
		pairs = append(pairs, name+":"+strings.Join(escaped, ","))
	}

	addList("brands", f.Brands)
	if f.PriceRange != nil {
		add("maxPrice", strconv.FormatFloat(f.PriceRange.Max, 'f', -1, 64))
		add("minPrice", strconv.FormatFloat(f.PriceRange.Min, 'f', -1, 64))
	}
	addList("memory", f.Memory)
	addList("storage", f.Storage)
	addList("colors", f.Colors)
	addList("networks", f.Networks)
	addList("conditions", f.Conditions)
	if f.MinRating > 0 {
		add("minRating", strconv.FormatFloat(f.MinRating, 'f', -1, 64))
	}
	if f.InStockOnly {
		add("inStockOnly", "true")
	}
	if f.Category != "" {
		add("category", f.Category)
	}
	if f.Availability != "" {
		add("availability", f.Availability)
	}
	addList("specifications", f.Specifications)

	sort.Strings(pairs)
	encoded := base64.StdEncoding.EncodeToString([]byte(strings.Join(pairs, "|")))

	return string(OpMultiFilter) + ":" + encoded
}
