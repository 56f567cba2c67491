package audit

import "strings"

func selectColumns(includeDetails bool) string {
	cols := "id, actor, action, entity_type, entity_id, request_id, created_at"
	if includeDetails {
		cols += ", before_json, after_json"
	}
	return cols
}

func buildQuery(prefix string, filter Filter, placeholder func(int) string) (string, []any) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(" FROM audit_events WHERE 1=1")
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		b.WriteString(" AND " + column + " = " + placeholder(len(args)))
	}
	add("action", filter.Action)
	add("entity_type", filter.EntityType)
	add("actor", filter.Actor)
	return b.String(), args
}
