package service

import (
	"strconv"
	"strings"
)

// SnapshotRow is one pre-resolved line of a snapshot export
type SnapshotRow struct {
	DiscordID int64
	Address   string
	Points    int64
	Whitelist bool
	Moolalist bool
	FreeMint  bool
}

// FormatSnapshotCSV renders snapshot rows as delimited text. Pure and
// deterministic: rows come out in input order, flags render as Y/N, values are
// joined with commas and never quoted (ids and addresses contain no commas).
func FormatSnapshotCSV(rows []SnapshotRow, includeID bool) string {
	var b strings.Builder

	if includeID {
		b.WriteString("discord_id,address,points,wl_role,ml_role,free_mint_role")
	} else {
		b.WriteString("address,points,wl_role,ml_role,free_mint_role")
	}

	for _, row := range rows {
		b.WriteString("\n")

		fields := make([]string, 0, 6)
		if includeID {
			fields = append(fields, strconv.FormatInt(row.DiscordID, 10))
		}
		fields = append(fields,
			row.Address,
			strconv.FormatInt(row.Points, 10),
			flag(row.Whitelist),
			flag(row.Moolalist),
			flag(row.FreeMint),
		)

		b.WriteString(strings.Join(fields, ","))
	}

	return b.String()
}

func flag(set bool) string {
	if set {
		return "Y"
	}
	return "N"
}
