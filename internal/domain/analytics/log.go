package analytics

import (
	"strings"
	"time"

	"github.com/vetcollars/storefront/internal/domain/shared"
	"golang.org/x/text/cases"
)

// EventType identifies a user log entry
type EventType string

const (
	EventView   EventType = "view"
	EventSearch EventType = "search"
)

// IsValid checks if the event type is known
func (t EventType) IsValid() bool {
	return t == EventView || t == EventSearch
}

// SourceDirectLink marks a product view opened by URL
const SourceDirectLink = "direct_link"

// MaxQueryLength bounds stored search queries
const MaxQueryLength = 200

// UserLog is one append-only analytics event
type UserLog struct {
	ID        int64
	EventType EventType
	SessionID string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewViewLog creates a product view event
func NewViewLog(sessionID string, productID int64, productName, source string) *UserLog {
	if source == "" {
		source = SourceDirectLink
	}
	return &UserLog{
		EventType: EventView,
		SessionID: sessionID,
		Payload: map[string]any{
			"product_id":   productID,
			"product_name": productName,
			"source":       source,
		},
		CreatedAt: time.Now(),
	}
}

// NewSearchLog creates a search event. It returns an error for a query that
// is empty after normalization.
func NewSearchLog(sessionID, query string, results int) (*UserLog, error) {
	q := strings.Join(strings.Fields(query), " ")
	if q == "" {
		return nil, shared.NewDomainError("EMPTY_QUERY", "Search query cannot be empty")
	}
	if r := []rune(q); len(r) > MaxQueryLength {
		q = string(r[:MaxQueryLength])
	}
	return &UserLog{
		EventType: EventSearch,
		SessionID: sessionID,
		Payload: map[string]any{
			"query":   q,
			"results": results,
		},
		CreatedAt: time.Now(),
	}, nil
}

// NormalizeQuery folds a search query for grouping: whitespace collapsed
// and case folded, so "Ошейник  КОЖА" and "ошейник кожа" count together.
// The result is cut to MaxQueryLength runes.
func NormalizeQuery(q string) string {
	folded := cases.Fold().String(strings.Join(strings.Fields(q), " "))
	if r := []rune(folded); len(r) > MaxQueryLength {
		folded = string(r[:MaxQueryLength])
	}
	return folded
}
