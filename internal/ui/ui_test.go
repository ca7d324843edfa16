package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	got, err := readLine("Share text", strings.NewReader("  see https://v.example.com/x/ \nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "see https://v.example.com/x/", got)
}

func TestReadLineEmpty(t *testing.T) {
	_, err := readLine("Share text", strings.NewReader("\n"))
	assert.Error(t, err)
}

func TestBatchModelCounts(t *testing.T) {
	bm := NewBatchModel(3)
	for i, e := range []error{nil, errors.New("boom"), nil} {
		next, _ := bm.Update(ItemDoneMsg{Index: i, Label: "item", Err: e})
		bm = next.(BatchModel)
	}

	done, failed := bm.Done()
	assert.Equal(t, 3, done)
	assert.Equal(t, 1, failed)

	view := bm.View()
	assert.Contains(t, view, "3/3")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "boom")
}

func TestBatchModelKeepsRecentOnly(t *testing.T) {
	m := NewBatchModel(10)
	for i := 0; i < 10; i++ {
		next, _ := m.Update(ItemDoneMsg{Index: i, Label: "item"})
		m = next.(BatchModel)
	}
	assert.Len(t, m.recent, maxRecent)
}

func TestBatchModelQuitsOnDone(t *testing.T) {
	_, cmd := NewBatchModel(1).Update(BatchDoneMsg{})
	require.NotNil(t, cmd)
}
