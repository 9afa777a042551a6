// Package directory evaluates listings against a filter predicate set. The
// filter is a pure in-memory evaluation: the database supplies the candidate
// listings and the filter returns an order-preserving subsequence. Sorting
// and pagination are the caller's concern.
package directory

import (
	"strings"

	"github.com/google/uuid"

	"careconnect/internal/models"
)

// Filter is the predicate set applied to directory listings. Zero values
// match everything; set predicates combine with AND semantics. The saved and
// recently-viewed toggles are mutually exclusive: setting one clears the
// other.
type Filter struct {
	Search string // case-insensitive substring across name, email, city, state

	City  string // case-insensitive substring
	State string // case-insensitive exact match

	Specialization string // facet membership tests
	Stage          string
	Language       string
	Availability   string

	ServiceCategory string // any-of across the listing's services
	ServiceType     string
	PriceRange      string

	SavedOnly          bool
	RecentlyViewedOnly bool
}

// SetSavedOnly toggles the saved-only restriction, clearing the
// recently-viewed toggle when enabled.
func (f *Filter) SetSavedOnly(on bool) {
	f.SavedOnly = on
	if on {
		f.RecentlyViewedOnly = false
	}
}

// SetRecentlyViewedOnly toggles the recently-viewed restriction, clearing
// the saved toggle when enabled.
func (f *Filter) SetRecentlyViewedOnly(on bool) {
	f.RecentlyViewedOnly = on
	if on {
		f.SavedOnly = false
	}
}

// Matches evaluates the listing against every set predicate except the
// affinity toggles, which are applied as a post-filter by Apply.
func (f *Filter) Matches(l *models.Listing) bool {
	if f.Search != "" && !matchesSearch(l, f.Search) {
		return false
	}
	if f.City != "" && !containsFold(l.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(l.State, f.State) {
		return false
	}
	if f.Specialization != "" && !hasFacet(l.Specializations, f.Specialization) {
		return false
	}
	if f.Stage != "" && !hasFacet(l.Stages, f.Stage) {
		return false
	}
	if f.Language != "" && !hasFacet(l.Languages, f.Language) {
		return false
	}
	if f.Availability != "" && !hasFacet(l.Availability, f.Availability) {
		return false
	}
	if f.ServiceCategory != "" && !anyService(l.Services, func(s models.ListingService) bool {
		return strings.EqualFold(s.Category, f.ServiceCategory)
	}) {
		return false
	}
	if f.ServiceType != "" && !anyService(l.Services, func(s models.ListingService) bool {
		return strings.EqualFold(s.Type, f.ServiceType)
	}) {
		return false
	}
	if f.PriceRange != "" && !anyService(l.Services, func(s models.ListingService) bool {
		return strings.EqualFold(s.PriceRange, f.PriceRange)
	}) {
		return false
	}
	return true
}

// Apply filters the listings, preserving input order. The saved set and
// recently-viewed sequence back the affinity toggles; when the corresponding
// toggle is active, a nil or empty set restricts the result to nothing,
// which is exactly the soft-failure behavior for an unavailable affinity
// store.
func Apply(listings []models.Listing, f Filter, saved map[uuid.UUID]bool, recent []uuid.UUID) []models.Listing {
	var recentSet map[uuid.UUID]bool
	if f.RecentlyViewedOnly {
		recentSet = make(map[uuid.UUID]bool, len(recent))
		for _, id := range recent {
			recentSet[id] = true
		}
	}

	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		if !f.Matches(l) {
			continue
		}
		if f.SavedOnly && !saved[l.ID] {
			continue
		}
		if f.RecentlyViewedOnly && !recentSet[l.ID] {
			continue
		}
		out = append(out, *l)
	}
	return out
}

// matchesSearch is an OR across the searchable fields; empty fields do not
// participate.
func matchesSearch(l *models.Listing, q string) bool {
	for _, field := range []string{l.Name, l.Email, l.City, l.State} {
		if field != "" && containsFold(field, q) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// hasFacet is a membership test against a multi-valued facet set, not an
// exact-set comparison.
func hasFacet(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func anyService(services []models.ListingService, pred func(models.ListingService) bool) bool {
	for _, s := range services {
		if pred(s) {
			return true
		}
	}
	return false
}
