package postgresql

import "fmt"

// scopeFilter renders the row filter of an authz.Scope for a list
// query, with $1 bound to the scope's city and $2 to its branch.
// cityExpr and branchExpr are the SQL expressions the row's scope
// resolves through, the same ones the row's ResolveScope query
// returns. A row whose expression is NULL stays visible, exactly as
// authz.Context.CanAccess treats a nil scope attribute, so list and
// detail access never disagree.
func scopeFilter(cityExpr, branchExpr string) string {
	return fmt.Sprintf(`($1::uuid IS NULL OR %[1]s IS NULL OR %[1]s = $1)
		  AND ($2::uuid IS NULL OR %[2]s IS NULL OR %[2]s = $2)`, cityExpr, branchExpr)
}
