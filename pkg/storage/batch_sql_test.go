package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/snaprag/snaprag/pkg/types"
)

func TestChunkSize(t *testing.T) {
	tests := []struct {
		name          string
		paramsPerRow  int
		expectAtLeast int
	}{
		{name: "single param per row", paramsPerRow: 1, expectAtLeast: 65535},
		{name: "seven params per row", paramsPerRow: 7, expectAtLeast: 9000},
		{name: "huge params per row floors at one", paramsPerRow: 1_000_000, expectAtLeast: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkSize(tt.paramsPerRow)
			assert.GreaterOrEqual(t, got, 1)
			assert.GreaterOrEqual(t, got, tt.expectAtLeast)
			assert.LessOrEqual(t, got*tt.paramsPerRow, maxBindParams+tt.paramsPerRow)
		})
	}
}

func TestDedupCastsKeepsLastOccurrence(t *testing.T) {
	first := types.Cast{MessageHash: "0xAA", Text: "first"}
	second := types.Cast{MessageHash: "0xAA", Text: "second"}
	other := types.Cast{MessageHash: "0xBB", Text: "other"}

	deduped := dedupCasts([]types.Cast{first, other, second})

	assert.Len(t, deduped, 2)
	byHash := make(map[string]types.Cast, len(deduped))
	for _, c := range deduped {
		byHash[c.MessageHash] = c
	}
	assert.Equal(t, "second", byHash["0xAA"].Text)
	assert.Equal(t, "other", byHash["0xBB"].Text)
}

func TestDedupCastsNoDuplicates(t *testing.T) {
	casts := []types.Cast{
		{MessageHash: "0x1"},
		{MessageHash: "0x2"},
		{MessageHash: "0x3"},
	}
	assert.Equal(t, casts, dedupCasts(casts))
}

func TestChunkUint64(t *testing.T) {
	rows := []uint64{1, 2, 3, 4, 5}
	chunks := chunkUint64(rows, 2)
	assert.Equal(t, [][]uint64{{1, 2}, {3, 4}, {5}}, chunks)
}

func TestChunkUint64Empty(t *testing.T) {
	assert.Nil(t, chunkUint64(nil, 10))
}

func TestProfileColumnFor(t *testing.T) {
	tests := []struct {
		field      string
		wantColumn string
		wantOK     bool
	}{
		{field: "display_name", wantColumn: "display_name", wantOK: true},
		{field: "bio", wantColumn: "bio", wantOK: true},
		{field: "primary_address_ethereum", wantOK: false},
		{field: "profile_token", wantOK: false},
		{field: "unknown_field", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			column, ok := profileColumnFor(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantColumn, column)
			}
		})
	}
}

func TestFlushProfileUpdatesSkipsEmpty(t *testing.T) {
	// flushProfileUpdates must be a no-op against a nil tx when there's
	// nothing to do; this guards the early-return path without needing
	// a live connection.
	err := flushProfileUpdates(nil, nil, nil)
	assert.NoError(t, err)
}

func TestLatestProfileFieldPerFIDTiebreakByHash(t *testing.T) {
	base := time.Unix(1000, 0).UTC()
	rows := []types.ProfileField{
		{FID: 1, FieldName: "display_name", FieldValue: "Bob", Timestamp: base, MessageHash: "0xA"},
		{FID: 1, FieldName: "display_name", FieldValue: "Alice", Timestamp: base, MessageHash: "0xB"},
	}

	latest := make(map[uint64]types.ProfileField, len(rows))
	for _, r := range rows {
		if prev, ok := latest[r.FID]; !ok || r.Timestamp.After(prev.Timestamp) ||
			(r.Timestamp.Equal(prev.Timestamp) && r.MessageHash > prev.MessageHash) {
			latest[r.FID] = r
		}
	}

	assert.Equal(t, "Alice", latest[1].FieldValue)
}
