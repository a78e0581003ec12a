package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskProgressEmptyChecklist(t *testing.T) {
	task := Task{ID: "t1"}
	assert.Equal(t, 0, task.Progress())
}

func TestTaskProgressRounds(t *testing.T) {
	task := Task{Items: []ChecklistItem{
		{ID: "i1", Done: true},
		{ID: "i2"},
		{ID: "i3"},
	}}
	assert.Equal(t, 33, task.Progress())

	task.Items[1].Done = true
	assert.Equal(t, 67, task.Progress())
}

func TestTaskProgressBounds(t *testing.T) {
	task := Task{Items: []ChecklistItem{
		{ID: "i1", Done: true},
		{ID: "i2", Done: true},
		{ID: "i3"},
		{ID: "i4"},
	}}
	assert.Equal(t, 50, task.Progress())

	task.Items[2].Done = true
	task.Items[3].Done = true
	assert.Equal(t, 100, task.Progress())

	for i := range task.Items {
		task.Items[i].Done = false
	}
	assert.Equal(t, 0, task.Progress())
}
