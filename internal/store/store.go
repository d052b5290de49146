package store

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	donorTableName        = "bloodlink.donors"
	bloodRequestTableName = "bloodlink.blood_requests"
	donationLogTableName  = "bloodlink.donation_logs"
	settingsTableName     = "bloodlink.app_settings"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "city = EXCLUDED.city, full_name = EXCLUDED.full_name, ..."
func buildUpdateClause(fields map[string]any) string {
	columns := make([]string, 0, len(fields))
	for field := range fields {
		columns = append(columns, field)
	}
	sort.Strings(columns)

	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", column, column)
	}

	return strings.Join(parts, ", ")
}
