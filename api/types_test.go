package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDisplayNameFallback(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "only-id"}`), &it))
	assert.Equal(t, "only-id", it.DisplayName(""))
	assert.Equal(t, "only-id", it.DisplayName("nope.path"))
}

func TestItemDisplayNameCustomPath(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(sampleItem), &it))
	assert.Equal(t, "DataHub", it.DisplayName("mappingCategory"))
}

func TestItemWithoutRawMarshalsTypedFields(t *testing.T) {
	it := Item{ID: "x", CommonProperties: CommonProperties{Keyword: []string{"ocean"}}}
	data, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id": "x", "keyword": ["ocean"]}`, string(data))
	assert.Equal(t, "ocean", it.Get("keyword.0").String())
}

func TestItemSetKeepsUnknownFields(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(sampleItem), &it))

	require.NoError(t, it.Set("resourceName.0.name", "Renamed"))
	require.NoError(t, it.SetRaw("keyword", []byte(`["a","b"]`)))

	assert.Equal(t, "Renamed", it.ResourceName[0].Name)
	assert.Equal(t, []string{"a", "b"}, it.Keyword)
	assert.True(t, it.Get("extra.nested").Bool())
}

func TestItemTypedEditsSurviveMarshal(t *testing.T) {
	var it Item
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"1","resourceDescription":"old","keyword":["k"],"extra":{"nested":true}}`), &it))

	it.ResourceDescription = "new"
	it.Keyword = nil
	data, err := json.Marshal(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"1","resourceDescription":"new","extra":{"nested":true}}`, string(data))
	assert.Equal(t, "new", it.Get("resourceDescription").String())
}

func TestItemUntouchedMarshalsRaw(t *testing.T) {
	raw := `{"_id":"1","resourceName":[{"name":"Hub","extraKey":1}]}`
	var it Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))

	data, err := json.Marshal(it)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data))
}

func TestPaginationResultShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
		total int
	}{
		{name: "items", input: `{"items": [{"_id": "a"}], "total": 9}`, count: 1, total: 9},
		{name: "data", input: `{"data": [{"_id": "a"}, {"_id": "b"}]}`, count: 2, total: 2},
		{name: "bare array", input: `[{"_id": "a"}]`, count: 1, total: 1},
		{name: "empty object", input: `{}`, count: 0, total: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PaginationResult
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Len(t, p.Items, tt.count)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}
