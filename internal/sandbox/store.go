package sandbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rezonia/szamlazz-go/internal/model"
)

// Document is an invoice or receipt the sandbox has issued
type Document struct {
	ID        string
	Type      model.DocumentType
	Prefix    string
	Number    string
	OrderNo   string
	CallID    string
	IssueDate time.Time
	Currency  model.Currency

	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal

	// Structured records the response version the document was issued with
	Structured bool
	// Reversed is set on a document once its reversal has been issued
	Reversed bool
	// ReversalOf names the document a reversal cancels
	ReversalOf string
}

// Store keeps issued documents in memory
type Store struct {
	mu        sync.Mutex
	documents map[string]*Document
	sequences map[string]int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		documents: make(map[string]*Document),
		sequences: make(map[string]int),
	}
}

// Issue assigns the next number of prefix in the document's year and stores a
// copy of doc. A receipt whose call id was seen before returns the stored
// receipt instead.
func (s *Store) Issue(doc Document, prefix string) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Type == model.DocumentTypeReceipt && doc.CallID != "" {
		for _, d := range s.documents {
			if d.Type == model.DocumentTypeReceipt && d.CallID == doc.CallID {
				return *d
			}
		}
	}

	key := fmt.Sprintf("%s-%d", prefix, doc.IssueDate.Year())
	s.sequences[key]++
	doc.Prefix = prefix
	doc.Number = fmt.Sprintf("%s-%d", key, s.sequences[key])
	doc.ID = uuid.NewString()

	stored := doc
	s.documents[doc.Number] = &stored
	return stored
}

// Get finds a document of type t by number
func (s *Store) Get(t model.DocumentType, number string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[number]
	if !ok || d.Type != t {
		return Document{}, false
	}
	return *d, true
}

// FindByOrder finds the first invoice carrying order number orderNo
func (s *Store) FindByOrder(orderNo string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *Document
	for _, d := range s.documents {
		if d.Type != model.DocumentTypeInvoice || d.OrderNo != orderNo {
			continue
		}
		if found == nil || d.Number < found.Number {
			found = d
		}
	}
	if found == nil {
		return Document{}, false
	}
	return *found, true
}

// MarkReversed flags an invoice as reversed. It reports false when the
// invoice is unknown or already reversed.
func (s *Store) MarkReversed(number string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.documents[number]
	if !ok || d.Type != model.DocumentTypeInvoice || d.Reversed || d.ReversalOf != "" {
		return false
	}
	d.Reversed = true
	return true
}

// Len returns the number of stored documents
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.documents)
}
