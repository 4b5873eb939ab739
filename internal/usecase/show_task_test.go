package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/smart-tasks/internal/domain"
)

func TestShowTask_Execute_Success(t *testing.T) {
	store, _ := newTestStore(t)
	yesterday := domain.NewDate(2024, 3, 4)
	_, err := store.Add(context.Background(), "pay rent", domain.PriorityHigh, &yesterday)
	require.NoError(t, err)
	uc := NewShowTask(store)

	out, err := uc.Execute(context.Background(), ShowTaskInput{Ref: "t1"})

	require.NoError(t, err)
	assert.Equal(t, "pay rent", out.Task.Text)
	assert.True(t, out.Overdue)
	assert.False(t, out.DueToday)
}

func TestShowTask_Execute_DueToday(t *testing.T) {
	store, _ := newTestStore(t)
	today := domain.NewDate(2024, 3, 5)
	_, err := store.Add(context.Background(), "dentist", "", &today)
	require.NoError(t, err)
	uc := NewShowTask(store)

	out, err := uc.Execute(context.Background(), ShowTaskInput{Ref: "t1"})

	require.NoError(t, err)
	assert.False(t, out.Overdue)
	assert.True(t, out.DueToday)
}

func TestShowTask_Execute_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	uc := NewShowTask(store)

	_, err := uc.Execute(context.Background(), ShowTaskInput{Ref: "nope"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowTask_Execute_AmbiguousPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	seed(t, store, "a", "b")
	uc := NewShowTask(store)

	_, err := uc.Execute(context.Background(), ShowTaskInput{Ref: "t"})

	assert.ErrorIs(t, err, domain.ErrAmbiguousRef)
}
