package domain

import "strings"

// CanView reports whether a viewer with role may read item. Users only see
// approved items; admins see everything.
func CanView(role Role, item Item) bool {
	return role == RoleAdmin || item.Status == StatusApproved
}

// VisibleTo returns the items role may see, in their original order. The
// filter only narrows the admin view; users always get the approved set.
// The input slice is never modified.
func VisibleTo(role Role, items []Item, filter StatusFilter) []Item {
	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if !CanView(role, item) {
			continue
		}
		if role == RoleAdmin && !filter.Match(item.Status) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

// Search keeps items whose description, city or country contains query,
// ignoring case. An empty query keeps everything.
func Search(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Description), q) ||
			strings.Contains(strings.ToLower(item.City), q) ||
			strings.Contains(strings.ToLower(item.Country), q) {
			matched = append(matched, item)
		}
	}
	return matched
}

type StatusCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func CountByStatus(items []Item) StatusCounts {
	var c StatusCounts
	for _, item := range items {
		c.All++
		switch item.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c
}
