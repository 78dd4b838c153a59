package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quimicadatos/cuadro-search/internal/search"
)

func TestStore_AddKeepsStoredPositions(t *testing.T) {
	store := search.NewStore()
	doc := search.NewDocument("1", "Analgesia", "", "fiebre")

	first := store.Add(doc)
	store.Add(search.NewDocument("2", "Anestesia", "", "fiebre"))
	again := store.Add(doc)

	assert.Equal(t, 0, first.Position())
	assert.Equal(t, 2, again.Position())
	assert.Equal(t, 0, doc.Position())

	docs := store.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{docs[0].Position(), docs[1].Position(), docs[2].Position()})
}

func TestStore_AddToSecondStore(t *testing.T) {
	a, b := search.NewStore(), search.NewStore()
	a.Add(search.NewDocument("0", "Otro", "", "x"))
	doc := search.NewDocument("1", "Analgesia", "", "fiebre")

	inA := a.Add(doc)
	b.Add(doc)

	assert.Equal(t, 1, inA.Position())
	assert.Equal(t, 1, a.Documents()[1].Position())
	assert.Equal(t, 0, b.Documents()[0].Position())
}

func TestStore_Reset(t *testing.T) {
	store := search.NewStore()
	store.Add(search.NewDocument("1", "Analgesia", "", "fiebre"))
	store.Reset()

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Add(search.NewDocument("2", "Anestesia", "", "dosis")).Position())
}
