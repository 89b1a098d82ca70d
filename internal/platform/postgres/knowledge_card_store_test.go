package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/metanav/internal/domain"
	"github.com/phrazzld/metanav/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardRowColumns = []string{"id", "title", "content", "keywords", "created_at", "updated_at"}

func TestPostgresKnowledgeCardStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresKnowledgeCardStore(db, testLogger())

	card, err := domain.NewKnowledgeCard("Go", "goroutines", []string{"go", "concurrency"})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO knowledge_cards`).
		WithArgs(card.ID, "Go", "goroutines", `["go","concurrency"]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), card))
}

func TestPostgresKnowledgeCardStore_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectQuery(`FROM knowledge_cards WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(cardRowColumns).
				AddRow(id.String(), "Go", "goroutines", []byte(`["go"]`), now, now))

		card, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, card.Keywords)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())

		mock.ExpectQuery(`FROM knowledge_cards`).WillReturnRows(sqlmock.NewRows(cardRowColumns))

		_, err := s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrKnowledgeCardNotFound)
	})
}

func TestPostgresKnowledgeCardStore_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("update of a missing card", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		card, err := domain.NewKnowledgeCard("Go", "goroutines", nil)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE knowledge_cards`).
			WithArgs("Go", "goroutines", `[]`, sqlmock.AnyArg(), card.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(ctx, card), store.ErrKnowledgeCardNotFound)
	})

	t.Run("fill keywords", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectExec(`UPDATE knowledge_cards SET keywords = \$1, updated_at = \$2\s+WHERE id = \$3 AND keywords = '\[\]'::jsonb`).
			WithArgs(`["Python","数据分析"]`, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		filled, err := s.FillKeywords(ctx, id, []string{"Python", "数据分析"})
		require.NoError(t, err)
		assert.True(t, filled)
	})

	t.Run("fill keywords on a keyed card", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectExec(`UPDATE knowledge_cards SET keywords`).
			WithArgs(`["Python"]`, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		filled, err := s.FillKeywords(ctx, id, []string{"Python"})
		require.NoError(t, err)
		assert.False(t, filled)
	})

	t.Run("fill keywords on a missing card", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectExec(`UPDATE knowledge_cards SET keywords`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := s.FillKeywords(ctx, id, []string{"Python"})
		assert.ErrorIs(t, err, store.ErrKnowledgeCardNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectExec(`DELETE FROM knowledge_cards`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(ctx, id), store.ErrKnowledgeCardNotFound)
	})
}

func TestPostgresKnowledgeCardStore_Search(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("escapes LIKE wildcards", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())

		mock.ExpectQuery(`ILIKE \$1`).
			WithArgs(`%100\%\_go%`, 5).
			WillReturnRows(sqlmock.NewRows(cardRowColumns))

		cards, err := s.Search(ctx, "100%_go", 5)
		require.NoError(t, err)
		assert.NotNil(t, cards)
		assert.Empty(t, cards)
	})

	t.Run("by keywords", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())
		id := uuid.New()

		mock.ExpectQuery(`jsonb_array_elements_text`).
			WithArgs(`["go"]`, 10).
			WillReturnRows(sqlmock.NewRows(cardRowColumns).
				AddRow(id.String(), "Go", "goroutines", []byte(`["go","channels"]`), now, now))

		cards, err := s.SearchByKeywords(ctx, []string{"go"}, 10)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, id, cards[0].ID)
	})

	t.Run("no keywords means no query", func(t *testing.T) {
		db, _ := newMock(t)
		s := NewPostgresKnowledgeCardStore(db, testLogger())

		cards, err := s.SearchByKeywords(ctx, nil, 10)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}
