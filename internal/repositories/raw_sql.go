package repositories

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	indexedPlaceholder = regexp.MustCompile(`\{(\d+)\}`)
	procedureIdent     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// bindIndexed rewrites `{n}` placeholders into `?` and orders the arguments
// to match. A query without `{n}` placeholders is returned unchanged.
func bindIndexed(query string, params []any) (string, []any, error) {
	matches := indexedPlaceholder.FindAllStringSubmatchIndex(query, -1)
	if len(matches) == 0 {
		return query, params, nil
	}

	var b strings.Builder
	args := make([]any, 0, len(matches))
	last := 0
	for _, m := range matches {
		idx, err := strconv.Atoi(query[m[2]:m[3]])
		if err != nil || idx >= len(params) {
			return "", nil, fmt.Errorf("%w: placeholder %s has no matching parameter", ErrInvalidArgument, query[m[0]:m[1]])
		}
		b.WriteString(query[last:m[0]])
		b.WriteByte('?')
		args = append(args, params[idx])
		last = m[1]
	}
	b.WriteString(query[last:])
	return b.String(), args, nil
}

// buildProcedureCall returns `EXEC name @p0, @p1, ...` together with the
// parameters as named arguments p0..pn.
func buildProcedureCall(name string, params []any) (string, []any, error) {
	if !procedureIdent.MatchString(name) {
		return "", nil, fmt.Errorf("%w: procedure name %q is not a plain identifier", ErrInvalidArgument, name)
	}

	statement := "EXEC " + name
	if len(params) == 0 {
		return statement, nil, nil
	}

	names := make([]string, len(params))
	args := make([]any, len(params))
	for i, p := range params {
		names[i] = "@p" + strconv.Itoa(i)
		args[i] = sql.Named("p"+strconv.Itoa(i), p)
	}
	return statement + " " + strings.Join(names, ", "), args, nil
}
