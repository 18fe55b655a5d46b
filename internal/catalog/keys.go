package catalog

import (
	"fmt"
	"time"
)

// Cache namespace prefixes. Each namespace lives in its own cache
// instance; coarse invalidation clears all of them.
const (
	listPrefix       = "products_list"
	detailPrefix     = "product_detail"
	countPrefix      = "products_count"
	categoriesPrefix = "categories_list"

	statsKey      = "product_stats"
	categoriesKey = categoriesPrefix
	countKey      = countPrefix
)

// TTLs reflect volatility: stats and categories change rarely,
// list and detail entries change whenever any product mutates.
const (
	listTTL       = 5 * time.Minute
	detailTTL     = 10 * time.Minute
	categoriesTTL = 30 * time.Minute
	statsTTL      = 15 * time.Minute
	countTTL      = 5 * time.Minute
)

// listKey derives a cache key from the normalized query tuple.
// Defaults are applied before concatenation so an omitted page and an
// explicit page=1 produce the same key.
func listKey(q ListQuery) string {
	q = q.normalize()
	return fmt.Sprintf("%s_%s_%s_%d_%d_%t_%t_%s_%s_%s",
		listPrefix,
		q.Category,
		q.Search,
		q.Page,
		q.Limit,
		q.ShowAll,
		q.IncludeInactive,
		q.MinPrice,
		q.MaxPrice,
		q.Sort,
	)
}

func detailKey(id string) string {
	return detailPrefix + "_" + id
}
