package repositories

import (
	"fmt"
	"strings"

	"marketdz/internal/models"
)

// Public search runs under a database role that bypasses row-level security
// (per-row policy checks are too slow at this scale) and has no statement
// timeout. That is only safe because every listing query in this package is
// built through newListingQuery, which injects the status predicate
// unconditionally and selects from a hardcoded column allowlist. There is
// no other way to construct a listing query in this core.

// listingColumns is the allowlist of listing columns visible through
// search. Adding a column to the table never exposes it here; it has to be
// added to this list deliberately.
var listingColumns = []string{
	"l.id",
	"l.title",
	"l.description",
	"l.price",
	"l.category",
	"l.subcategory",
	"l.status",
	"l.user_id",
	"l.location_wilaya",
	"l.location_city",
	"l.photos",
	"l.condition",
	"l.available_from",
	"l.available_to",
	"l.rental_period",
	"l.salary_min",
	"l.salary_max",
	"l.job_type",
	"l.company_name",
	"l.favorites_count",
	"l.views_count",
	"l.created_at",
}

// profileColumns is the allowlist for the joined seller projection.
var profileColumns = []string{
	"p.id",
	"p.first_name",
	"p.last_name",
	"p.avatar_url",
	"p.rating",
}

func listingSelectColumns() string {
	return strings.Join(listingColumns, ", ")
}

func profileSelectColumns() string {
	return strings.Join(profileColumns, ", ")
}

// listingQuery accumulates WHERE conditions with positional parameters.
type listingQuery struct {
	conditions []string
	params     []interface{}
}

// newListingQuery is the single constructor for listing queries. The
// status predicate cannot be overridden or removed by any request
// parameter.
func newListingQuery() *listingQuery {
	q := &listingQuery{}
	q.addCondition("l.status = %s", models.StatusActive)
	return q
}

// addCondition appends a condition. Each %s in format is replaced with the
// next positional placeholder and the matching value is appended to params.
func (q *listingQuery) addCondition(format string, values ...interface{}) {
	placeholders := make([]interface{}, len(values))
	for i, v := range values {
		q.params = append(q.params, v)
		placeholders[i] = fmt.Sprintf("$%d", len(q.params))
	}
	q.conditions = append(q.conditions, fmt.Sprintf(format, placeholders...))
}

// addParam registers a value outside the WHERE clause (LIMIT, OFFSET) and
// returns its placeholder.
func (q *listingQuery) addParam(v interface{}) string {
	q.params = append(q.params, v)
	return fmt.Sprintf("$%d", len(q.params))
}

func (q *listingQuery) whereSQL() string {
	return " WHERE " + strings.Join(q.conditions, " AND ")
}
