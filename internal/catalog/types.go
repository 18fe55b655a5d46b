package catalog

import "time"

// Product is a single catalog entry. The zero ID means the product has
// not been persisted yet.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"numReviews"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListQuery filters and paginates catalog reads. Zero values mean
// "not set"; normalize applies the documented defaults so that cache
// keys derived from equivalent queries are identical.
type ListQuery struct {
	Category        string
	Search          string
	Page            int
	Limit           int
	ShowAll         bool
	IncludeInactive bool
	MinPrice        string
	MaxPrice        string
	Sort            string
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	return q
}

// ListResult is a single page of catalog products.
type ListResult struct {
	Products    []Product `json:"products"`
	Total       int64     `json:"total"`
	TotalPages  int64     `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// CategoryStat is one row of the per-category aggregation.
type CategoryStat struct {
	Category   string  `json:"category"`
	Count      int64   `json:"count"`
	AvgPrice   float64 `json:"avgPrice"`
	TotalStock int64   `json:"totalStock"`
}

// Stats summarizes the catalog for the admin dashboard.
type Stats struct {
	ByCategory    []CategoryStat `json:"byCategory"`
	TotalActive   int64          `json:"totalActive"`
	TotalInactive int64          `json:"totalInactive"`
	Total         int64          `json:"total"`
}

// Patch is a partial product update. Nil fields are left untouched.
type Patch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	IsActive    *bool    `json:"isActive"`
}
