package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Knowledge card validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardTitleEmpty is returned when a card has no title.
	ErrCardTitleEmpty = errors.New("card title cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")
)

// KnowledgeCard is a note the learner keeps alongside sessions. Keywords are
// either supplied by the learner or extracted from title and content.
type KnowledgeCard struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewKnowledgeCard creates a card with a fresh ID and timestamps.
// A nil keyword slice is stored as empty.
func NewKnowledgeCard(title, content string, keywords []string) (*KnowledgeCard, error) {
	now := time.Now().UTC()
	card := &KnowledgeCard{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		Keywords:  normalizeKeywords(keywords),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the KnowledgeCard has valid data.
func (c *KnowledgeCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Title == "" {
		return ErrCardTitleEmpty
	}

	if strings.TrimSpace(c.Content) == "" {
		return ErrCardContentEmpty
	}

	return nil
}

// Update replaces title, content and keywords. A nil or blank keyword list
// leaves the card without keywords. The card is left unchanged if the result
// would be invalid.
func (c *KnowledgeCard) Update(title, content string, keywords []string) error {
	orig := *c
	c.Title = strings.TrimSpace(title)
	c.Content = content
	c.Keywords = normalizeKeywords(keywords)

	if err := c.Validate(); err != nil {
		*c = orig
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// IndexText is the text keyword extraction runs over.
func (c *KnowledgeCard) IndexText() string {
	return c.Title + " " + c.Content
}

// normalizeKeywords trims entries and drops blanks and repeats. Repeats are
// matched ignoring case and the first spelling wins.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	return out
}
