package Models

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubTaskStateWire(t *testing.T) {
	tests := []struct {
		state SubTaskState
		json  string
	}{
		{SubTaskOpen, "false"},
		{SubTaskPending, "null"},
		{SubTaskDone, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			b, err := json.Marshal(tt.state)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(b))
			assert.Equal(t, tt.state, StateFromWire(tt.state.Wire()))
		})
	}
}

func TestSubTaskIndexLoadStates(t *testing.T) {
	x := NewSubTaskIndex()
	assert.Equal(t, NotFetched, x.State(1))

	x.Set(1, nil)
	assert.Equal(t, Empty, x.State(1))

	x.Set(2, []SubTask{{ID: 20, TaskID: 2}, {ID: 21, TaskID: 2}})
	list, state := x.Get(2)
	assert.Equal(t, Populated, state)
	assert.Len(t, list, 2)

	assert.ElementsMatch(t, []int64{1, 2}, x.TaskIDs())
}

func TestSubTaskIndexSetState(t *testing.T) {
	x := NewSubTaskIndex()
	x.Set(2, []SubTask{{ID: 20, TaskID: 2}})

	assert.True(t, x.SetState(20, SubTaskPending))
	assert.False(t, x.SetState(99, SubTaskDone))

	s, ok := x.Find(20)
	require.True(t, ok)
	assert.Equal(t, SubTaskPending, s.State)

	// Get hands out copies.
	list, _ := x.Get(2)
	list[0].State = SubTaskDone
	s, _ = x.Find(20)
	assert.Equal(t, SubTaskPending, s.State)
}

func TestMaterialKind(t *testing.T) {
	assert.Equal(t, MaterialImage, Material{ContentType: "image/png"}.Kind())
	assert.Equal(t, MaterialVideo, Material{ContentType: "video/mp4"}.Kind())
	assert.Equal(t, MaterialDocument, Material{ContentType: "application/pdf"}.Kind())
	assert.Empty(t, Material{ContentType: "application/msword"}.Kind())
	assert.Empty(t, Material{ContentType: "text/plain"}.Kind())
}

func TestConnectMigrates(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)

	rec := SessionRecord{AccountID: 7, Email: "kid@example.com", SealedSecret: []byte{1, 2}}
	require.NoError(t, db.Create(&rec).Error)

	var loaded SessionRecord
	require.NoError(t, db.First(&loaded).Error)
	assert.Equal(t, int64(7), loaded.AccountID)
}
