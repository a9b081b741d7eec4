package docmodel

import "strings"

// Category routes a document to its listing page and entry variant.
type Category string

const (
	CategoryWork    Category = "works"
	CategoryProject Category = "projects"
	CategoryPost    Category = "posts"
	CategoryPage    Category = "page"
)

// ListingCategories are the categories that get a listing page, in menu order.
var ListingCategories = []Category{CategoryWork, CategoryProject, CategoryPost}

// CategoryFromPath derives the category from the first directory segment of
// a slash-separated content path. Top-level files and unknown directories are
// plain pages.
func CategoryFromPath(path string) Category {
	first, _, found := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !found {
		return CategoryPage
	}
	switch strings.ToLower(first) {
	case string(CategoryWork), "work":
		return CategoryWork
	case string(CategoryProject), "project":
		return CategoryProject
	case string(CategoryPost), "post", "blog":
		return CategoryPost
	default:
		return CategoryPage
	}
}

// Listed reports whether documents of this category appear on a listing page.
func (c Category) Listed() bool {
	return c != CategoryPage
}
