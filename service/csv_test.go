package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSnapshotCSV_SingleRow(t *testing.T) {
	rows := []SnapshotRow{
		{DiscordID: 1, Address: "0xABC", Points: 10},
	}

	out := FormatSnapshotCSV(rows, true)
	assert.Equal(t, "discord_id,address,points,wl_role,ml_role,free_mint_role\n1,0xABC,10,N,N,N", out)
}

func TestFormatSnapshotCSV_Flags(t *testing.T) {
	rows := []SnapshotRow{
		{DiscordID: 5, Address: "0x1", Points: 700, Whitelist: true, Moolalist: true, FreeMint: true},
		{DiscordID: 6, Address: "0x2", Points: 120, Whitelist: true},
	}

	out := FormatSnapshotCSV(rows, true)
	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{
		"discord_id,address,points,wl_role,ml_role,free_mint_role",
		"5,0x1,700,Y,Y,Y",
		"6,0x2,120,Y,N,N",
	}, lines)
}

func TestFormatSnapshotCSV_WithoutID(t *testing.T) {
	rows := []SnapshotRow{
		{DiscordID: 9, Address: "0xDEAD", Points: 3, Moolalist: true},
	}

	out := FormatSnapshotCSV(rows, false)
	assert.Equal(t, "address,points,wl_role,ml_role,free_mint_role\n0xDEAD,3,N,Y,N", out)
}

func TestFormatSnapshotCSV_EmptyRows(t *testing.T) {
	out := FormatSnapshotCSV(nil, true)
	assert.Equal(t, "discord_id,address,points,wl_role,ml_role,free_mint_role", out)
	assert.False(t, strings.HasSuffix(out, "\n"), "no trailing newline")
}

func TestFormatSnapshotCSV_PreservesInputOrder(t *testing.T) {
	rows := []SnapshotRow{
		{DiscordID: 3, Address: "0xC", Points: 1},
		{DiscordID: 1, Address: "0xA", Points: 2},
		{DiscordID: 2, Address: "0xB", Points: 3},
	}

	out := FormatSnapshotCSV(rows, true)
	lines := strings.Split(out, "\n")[1:]
	assert.Equal(t, "3,0xC,1,N,N,N", lines[0])
	assert.Equal(t, "1,0xA,2,N,N,N", lines[1])
	assert.Equal(t, "2,0xB,3,N,N,N", lines[2])
}
