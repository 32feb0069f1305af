package catalogserver

// pageQuery holds the page and limit query parameters.
type pageQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}

type searchQuery struct {
	Query string `query:"q" validate:"required"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=1000"`
}

type priceQuery struct {
	MinPrice *float64 `query:"min_price" validate:"required"`
	MaxPrice *float64 `query:"max_price" validate:"required"`
}

type ratingQuery struct {
	MinRating *float64 `query:"min_rating" validate:"required"`
}

type availabilityQuery struct {
	Status string `query:"status"`
}

type trendingQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

const defaultTrendingLimit = 10
