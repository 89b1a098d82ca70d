package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/keyword"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCards struct {
	cards    map[uuid.UUID]*domain.KnowledgeCard
	getErr   error
	fillErr  error
	afterGet func(id uuid.UUID)
	updated  map[uuid.UUID][]string
}

func newFakeCards(cards ...*domain.KnowledgeCard) *fakeCards {
	f := &fakeCards{
		cards:   make(map[uuid.UUID]*domain.KnowledgeCard),
		updated: make(map[uuid.UUID][]string),
	}
	for _, c := range cards {
		f.cards[c.ID] = c
	}
	return f
}

func (f *fakeCards) GetByID(_ context.Context, id uuid.UUID) (*domain.KnowledgeCard, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.cards[id]
	if !ok {
		return nil, store.ErrKnowledgeCardNotFound
	}
	snapshot := *c
	snapshot.Keywords = append([]string{}, c.Keywords...)
	if f.afterGet != nil {
		f.afterGet(id)
	}
	return &snapshot, nil
}

func (f *fakeCards) FillKeywords(_ context.Context, id uuid.UUID, kws []string) (bool, error) {
	if f.fillErr != nil {
		return false, f.fillErr
	}
	c, ok := f.cards[id]
	if !ok {
		return false, store.ErrKnowledgeCardNotFound
	}
	if len(c.Keywords) > 0 {
		return false, nil
	}
	c.Keywords = kws
	f.updated[id] = kws
	return true, nil
}

func newTestFactory(t *testing.T, cards CardRepository) *KeywordIndexFactory {
	t.Helper()
	f, err := NewKeywordIndexFactory(cards, keyword.NewDefault(), 5, discardLogger())
	require.NoError(t, err)
	return f
}

func TestNewKeywordIndexFactory_Validation(t *testing.T) {
	extractor := keyword.NewDefault()
	cards := newFakeCards()

	tests := []struct {
		name  string
		cards CardRepository
		ext   KeywordExtractor
		limit int
		field string
	}{
		{"nil cards", nil, extractor, 5, "cards"},
		{"nil extractor", cards, nil, 5, "extractor"},
		{"zero limit", cards, extractor, 0, "limit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewKeywordIndexFactory(tc.cards, tc.ext, tc.limit, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestKeywordIndexTask_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("stores extracted keywords", func(t *testing.T) {
		card, err := domain.NewKnowledgeCard("Python 数据分析", "用Python做数据分析和机器学习", nil)
		require.NoError(t, err)
		cards := newFakeCards(card)

		task, err := newTestFactory(t, cards).CreateTask(card.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, task.Status())

		require.NoError(t, task.Execute(ctx))
		assert.Equal(t, StatusCompleted, task.Status())

		kws := cards.updated[card.ID]
		assert.LessOrEqual(t, len(kws), 5)
		assert.Contains(t, kws, "Python")
		assert.Contains(t, kws, "数据分析")
	})

	t.Run("missing card completes", func(t *testing.T) {
		cards := newFakeCards()
		task, err := newTestFactory(t, cards).CreateTask(uuid.New())
		require.NoError(t, err)

		require.NoError(t, task.Execute(ctx))
		assert.Equal(t, StatusCompleted, task.Status())
		assert.Empty(t, cards.updated)
	})

	t.Run("load failure", func(t *testing.T) {
		cards := newFakeCards()
		cards.getErr = errors.New("connection reset")
		task, err := newTestFactory(t, cards).CreateTask(uuid.New())
		require.NoError(t, err)

		err = task.Execute(ctx)
		assert.ErrorContains(t, err, "connection reset")
		assert.Equal(t, StatusFailed, task.Status())
	})

	t.Run("save failure", func(t *testing.T) {
		card, err := domain.NewKnowledgeCard("Go", "channels and goroutines", nil)
		require.NoError(t, err)
		cards := newFakeCards(card)
		cards.fillErr = fmt.Errorf("%w: gone", store.ErrUpdateFailed)

		task, err := newTestFactory(t, cards).CreateTask(card.ID)
		require.NoError(t, err)

		err = task.Execute(ctx)
		assert.ErrorIs(t, err, store.ErrUpdateFailed)
		assert.Equal(t, StatusFailed, task.Status())
	})

	t.Run("card keyed before the task runs", func(t *testing.T) {
		card, err := domain.NewKnowledgeCard("Go", "channels and goroutines", nil)
		require.NoError(t, err)
		cards := newFakeCards(card)

		task, err := newTestFactory(t, cards).CreateTask(card.ID)
		require.NoError(t, err)

		require.NoError(t, card.Update(card.Title, card.Content, []string{"并发"}))

		require.NoError(t, task.Execute(ctx))
		assert.Equal(t, StatusCompleted, task.Status())
		assert.Equal(t, []string{"并发"}, cards.cards[card.ID].Keywords)
		assert.Empty(t, cards.updated)
	})

	t.Run("card keyed while extracting", func(t *testing.T) {
		card, err := domain.NewKnowledgeCard("Go", "channels and goroutines", nil)
		require.NoError(t, err)
		cards := newFakeCards(card)
		cards.afterGet = func(id uuid.UUID) {
			cards.cards[id].Keywords = []string{"并发"}
		}

		task, err := newTestFactory(t, cards).CreateTask(card.ID)
		require.NoError(t, err)

		require.NoError(t, task.Execute(ctx))
		assert.Equal(t, StatusCompleted, task.Status())
		assert.Equal(t, []string{"并发"}, cards.cards[card.ID].Keywords)
		assert.Empty(t, cards.updated)
	})

	t.Run("card deleted while extracting", func(t *testing.T) {
		card, err := domain.NewKnowledgeCard("Go", "channels and goroutines", nil)
		require.NoError(t, err)
		cards := newFakeCards(card)
		cards.afterGet = func(id uuid.UUID) { delete(cards.cards, id) }

		task, err := newTestFactory(t, cards).CreateTask(card.ID)
		require.NoError(t, err)

		require.NoError(t, task.Execute(ctx))
		assert.Equal(t, StatusCompleted, task.Status())
	})
}

func TestKeywordIndexFactory_CreateTask_NilCard(t *testing.T) {
	_, err := newTestFactory(t, newFakeCards()).CreateTask(uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrCardIDEmpty)
}

func TestRegistry_Rebuild(t *testing.T) {
	factory := newTestFactory(t, newFakeCards())
	registry := NewRegistry()
	factory.Register(registry)

	original, err := factory.CreateTask(uuid.New())
	require.NoError(t, err)

	rebuilt, err := registry.Rebuild(original.ID(), TypeKeywordIndex, original.Payload(), StatusProcessing)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, TypeKeywordIndex, rebuilt.Type())
	assert.Equal(t, StatusProcessing, rebuilt.Status())
	assert.Equal(t, original.CardID(), rebuilt.(*KeywordIndexTask).CardID())

	t.Run("unknown type", func(t *testing.T) {
		_, err := registry.Rebuild(uuid.New(), "memo_generation", nil, StatusPending)
		assert.ErrorIs(t, err, ErrUnknownTaskType)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		_, err := registry.Rebuild(uuid.New(), TypeKeywordIndex, []byte("{"), StatusPending)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "payload"))
	})
}
