package domain

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// Media URL template placeholders and the values they are resolved to.
var mediaTemplate = strings.NewReplacer(
	"{@width}", "600",
	"{@height}", "600",
	"{@quality}", "80",
)

// PlaceholderImage is used when a product has no media.
const PlaceholderImage = "/placeholder-product.jpg"

// Listing is the storefront view of a Product.
type Listing struct {
	Brand         string        `json:"brand"`
	Model         string        `json:"model"`
	Price         float64       `json:"price"`
	OriginalPrice *float64      `json:"originalPrice,omitempty"`
	Image         string        `json:"image"`
	Images        []string      `json:"images"`
	Specs         ExtractedSpec `json:"specs"`
	Rating        float64       `json:"rating"`
	RatingCount   int           `json:"ratingCount"`
	ReviewCount   int           `json:"reviewCount"`
	RatingBreakup []int         `json:"ratingBreakup"`
	Discount      float64       `json:"discount"`
	Warranty      string        `json:"warranty"`
	InStock       bool          `json:"inStock"`
	Description   string        `json:"description"`
}

// NewListing builds the storefront view of p.
func NewListing(p *Product) Listing {
	specs := ExtractSpecs(p.Specifications)

	images := make([]string, len(p.Media))
	for i, url := range p.Media {
		images[i] = mediaTemplate.Replace(url)
	}
	image := PlaceholderImage
	if len(images) > 0 {
		image = images[0]
	}

	l := Listing{
		Brand:         p.Brand(),
		Model:         p.Model(),
		Price:         p.CurrentPrice(),
		Image:         image,
		Images:        images,
		Specs:         specs,
		Rating:        p.AverageRating(),
		ReviewCount:   p.ReviewCount(),
		RatingBreakup: []int{},
		Discount:      p.Pricing.TotalDiscount,
		Warranty:      p.WarrantySummary,
		InStock:       p.InStock(),
	}
	if original, ok := p.OriginalPrice(); ok {
		l.OriginalPrice = &original
	}
	if p.Rating != nil {
		l.RatingCount = p.Rating.Count
		if p.Rating.Breakup != nil {
			l.RatingBreakup = p.Rating.Breakup
		}
	}
	if l.Warranty == "" {
		l.Warranty = "No warranty info"
	}

	l.Description = fmt.Sprintf("%s %s with %s RAM, %s storage, %s, %s battery. %s",
		l.Brand, l.Model, specs.RAM, specs.Storage, specs.Processor, specs.Battery, p.WarrantySummary)

	return l
}

// FilterOptions lists the distinct values available for each filter facet
// across a product sample.
type FilterOptions struct {
	Brands     []string   `json:"brands"`
	Memory     []string   `json:"ram"`
	Storage    []string   `json:"storage"`
	Colors     []string   `json:"colors"`
	Networks   []string   `json:"network"`
	Categories []string   `json:"categories"`
	PriceRange [2]float64 `json:"priceRange"`
}

// DeriveFilterOptions collects sorted distinct facet values and the
// [floor(min), ceil(max)] current price range. An empty sample yields [0, 0].
func DeriveFilterOptions(products []*Product) *FilterOptions {
	var brands, memory, storage, colors, networks, categories []string
	minPrice, maxPrice := math.Inf(1), math.Inf(-1)

	for _, p := range products {
		spec := ExtractSpecs(p.Specifications)
		brands = append(brands, p.Brand())
		memory = append(memory, spec.RAM)
		storage = append(storage, spec.Storage)
		colors = append(colors, spec.Color)
		networks = append(networks, spec.Network)
		categories = append(categories, p.Category)

		price := p.CurrentPrice()
		minPrice = math.Min(minPrice, price)
		maxPrice = math.Max(maxPrice, price)
	}

	opts := &FilterOptions{
		Brands:     distinctSorted(brands),
		Memory:     distinctSorted(memory),
		Storage:    distinctSorted(storage),
		Colors:     distinctSorted(colors),
		Networks:   distinctSorted(networks),
		Categories: distinctSorted(categories),
	}
	if len(products) > 0 {
		opts.PriceRange = [2]float64{math.Floor(minPrice), math.Ceil(maxPrice)}
	}

	return opts
}

func distinctSorted(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
