package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeFilter(t *testing.T) {
	got := scopeFilter("b.city_id", "sh.branch_id")

	// Unset scope attributes filter nothing.
	assert.Contains(t, got, "$1::uuid IS NULL")
	assert.Contains(t, got, "$2::uuid IS NULL")

	// Rows whose resolved city or branch is NULL stay visible; this is
	// the same nullable-scope rule authz.Context.CanAccess applies on
	// detail fetches.
	assert.Contains(t, got, "b.city_id IS NULL OR b.city_id = $1")
	assert.Contains(t, got, "sh.branch_id IS NULL OR sh.branch_id = $2")
}

func TestScopeFilter_ExpandsCompositeExpressions(t *testing.T) {
	got := scopeFilter("COALESCE(b.city_id, shb.city_id)", "COALESCE(e.branch_id, s.branch_id)")

	assert.Contains(t, got, "COALESCE(b.city_id, shb.city_id) IS NULL")
	assert.Contains(t, got, "COALESCE(b.city_id, shb.city_id) = $1")
	assert.Contains(t, got, "COALESCE(e.branch_id, s.branch_id) IS NULL")
	assert.Contains(t, got, "COALESCE(e.branch_id, s.branch_id) = $2")
}
