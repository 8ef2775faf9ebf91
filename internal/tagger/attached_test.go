package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/polytag/internal/tag"
)

func TestAttachedSetOperations(t *testing.T) {
	var set attachedSet
	set.Load([]tag.Tag{{ID: "A", Name: "Sales"}, {ID: "B", Name: "Go"}})
	set.Append(tag.Tag{ID: "C", Name: "Rust"})

	assert.True(t, set.Contains("B"))
	assert.False(t, set.Contains(""))
	assert.False(t, set.Contains("Z"))

	set.RemoveByID("B")
	set.RemoveByID("Z")
	assert.Equal(t, []string{"A", "C"}, ids(set.Snapshot()))
}

func TestAttachedSetSnapshotIsCopy(t *testing.T) {
	var set attachedSet
	src := []tag.Tag{{ID: "A", Name: "Sales"}}
	set.Load(src)
	src[0].Name = "changed"

	snap := set.Snapshot()
	snap[0].Name = "also changed"

	got, ok := set.Find("A")
	assert.True(t, ok)
	assert.Equal(t, "Sales", got.Name)
}
