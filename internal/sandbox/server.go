// Package sandbox is a local stand-in for the Számlázz.hu agent endpoint. It
// accepts the same multipart requests, issues numbered documents into memory
// and answers in the reply formats the client reconciles.
package sandbox

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rezonia/szamlazz-go/internal/logger"
	"github.com/rezonia/szamlazz-go/internal/model"
	"github.com/rezonia/szamlazz-go/internal/wire"
)

// AgentPath is where the sandbox serves the agent
const AgentPath = "/szamla/"

// SessionCookie is the name of the session cookie the sandbox issues
const SessionCookie = "JSESSIONID"

// Error codes the sandbox reports
const (
	CodeAuthFailed      = "3"
	CodeUnknownDocument = "7"
	CodeInvalidRequest  = "57"
	CodeAlreadyReversed = "338"
)

// Server is the fake agent HTTP server
type Server struct {
	config Config
	router *gin.Engine
	store  *Store
	log    *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]struct{}
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server's logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the clock that dates documents without keltDatum
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStore shares an existing document store
func WithStore(st *Store) Option {
	return func(s *Server) {
		if st != nil {
			s.store = st
		}
	}
}

// NewServer creates a new sandbox server
func NewServer(config Config, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.InvoicePrefix == "" {
		config.InvoicePrefix = DefaultInvoicePrefix
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config:   config,
		router:   router,
		store:    NewStore(),
		log:      logger.Log,
		now:      time.Now,
		sessions: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST(AgentPath, s.handleAgent)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info("sandbox agent listening", zap.String("address", s.config.Address), zap.String("path", AgentPath))
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the server's document store
func (s *Server) Store() *Store {
	return s.store
}

// Sessions returns the number of sessions issued so far
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"documents": s.store.Len(),
		"time":      s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAgent(c *gin.Context) {
	s.session(c)

	sub, err := readSubmission(c)
	if err != nil {
		s.failHeader(c, wire.Envelope{}, false, CodeInvalidRequest, err.Error())
		return
	}
	log := s.log.With(zap.String("operation", sub.env.Name))

	structured := s.structured(sub)
	if !s.authorized(sub) {
		log.Warn("login failed")
		s.failHeader(c, sub.env, structured, CodeAuthFailed, "Sikertelen bejelentkezés.")
		return
	}

	switch sub.env.Name {
	case wire.GetInvoiceData.Name:
		s.getInvoiceData(c, sub)
	case wire.ReverseInvoice.Name:
		s.reverseInvoice(c, sub, structured, log)
	case wire.IssueInvoice.Name:
		s.issueInvoice(c, sub, structured, log)
	case wire.GetReceiptData.Name:
		s.getReceiptData(c, sub)
	case wire.IssueReceipt.Name:
		s.issueReceipt(c, sub, log)
	}
}

// session issues a session cookie unless the request carries a known one
func (s *Server) session(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, err := c.Cookie(SessionCookie); err == nil {
		if _, ok := s.sessions[id]; ok {
			return
		}
	}
	id := uuid.NewString()
	s.sessions[id] = struct{}{}
	c.SetCookie(SessionCookie, id, 0, AgentPath, "", false, true)
}

func (s *Server) authorized(sub *submission) bool {
	if key := value(sub.root, ".//"+wire.AgentKey); key != "" {
		return s.config.APIKey != "" && key == s.config.APIKey
	}
	user := value(sub.root, ".//"+wire.User)
	password := value(sub.root, ".//"+wire.Password)
	return s.config.User != "" && user == s.config.User && password == s.config.Password
}

// structured decides whether the reply to sub is an XML document. Reversal
// requests carry no response version, so they answer the way the reversed
// invoice was issued.
func (s *Server) structured(sub *submission) bool {
	switch sub.env.Name {
	case wire.IssueInvoice.Name:
		return value(sub.settings(), wire.ReplyVersion) == "2"
	case wire.ReverseInvoice.Name:
		orig, ok := s.store.Get(model.DocumentTypeInvoice, value(sub.header(), wire.InvoiceNumber))
		return ok && orig.Structured
	}
	return true
}

func (s *Server) issueInvoice(c *gin.Context, sub *submission, structured bool, log *zap.Logger) {
	totals, err := sub.totals(invoiceLine)
	if err != nil {
		s.failHeader(c, sub.env, structured, CodeInvalidRequest, err.Error())
		return
	}
	issued, err := sub.date(s.now())
	if err != nil {
		s.failHeader(c, sub.env, structured, CodeInvalidRequest, err.Error())
		return
	}
	prefix := value(sub.header(), wire.InvoicePrefix)
	if prefix == "" {
		prefix = s.config.InvoicePrefix
	}

	doc := s.store.Issue(Document{
		Type:       model.DocumentTypeInvoice,
		OrderNo:    value(sub.header(), wire.OrderNumber),
		IssueDate:  issued,
		Currency:   sub.currency(),
		Net:        totals.NetValue,
		Tax:        totals.TaxValue,
		Gross:      totals.GrossValue,
		Structured: structured,
	}, prefix)
	log.Info("invoice issued", zap.String("number", doc.Number), zap.String("gross", doc.Gross.String()))

	s.replyInvoice(c, sub.env, doc, structured, flag(sub.settings(), wire.Download))
}

func (s *Server) reverseInvoice(c *gin.Context, sub *submission, structured bool, log *zap.Logger) {
	number := value(sub.header(), wire.InvoiceNumber)
	orig, ok := s.store.Get(model.DocumentTypeInvoice, number)
	if !ok {
		s.failHeader(c, sub.env, structured, CodeUnknownDocument, "Nincs ilyen számla: "+number)
		return
	}
	issued, err := sub.date(s.now())
	if err != nil {
		s.failHeader(c, sub.env, structured, CodeInvalidRequest, err.Error())
		return
	}
	if !s.store.MarkReversed(number) {
		s.failHeader(c, sub.env, structured, CodeAlreadyReversed, "A számla már sztornózva van: "+number)
		return
	}

	doc := s.store.Issue(Document{
		Type:       model.DocumentTypeInvoice,
		IssueDate:  issued,
		Currency:   orig.Currency,
		Net:        orig.Net.Neg(),
		Tax:        orig.Tax.Neg(),
		Gross:      orig.Gross.Neg(),
		Structured: orig.Structured,
		ReversalOf: number,
	}, orig.Prefix)
	log.Info("invoice reversed", zap.String("number", number), zap.String("reversal", doc.Number))

	s.replyInvoice(c, sub.env, doc, structured, flag(sub.settings(), wire.Download))
}

func (s *Server) getInvoiceData(c *gin.Context, sub *submission) {
	var (
		doc Document
		ok  bool
	)
	if number := value(sub.root, wire.InvoiceNumber); number != "" {
		doc, ok = s.store.Get(model.DocumentTypeInvoice, number)
	} else if order := value(sub.root, wire.OrderNumber); order != "" {
		doc, ok = s.store.FindByOrder(order)
	}
	if !ok {
		s.failBody(c, sub.env, CodeUnknownDocument, "Nincs ilyen számla.")
		return
	}
	s.replyInvoiceData(c, doc, flag(sub.root, wire.PDFFlag))
}

func (s *Server) issueReceipt(c *gin.Context, sub *submission, log *zap.Logger) {
	prefix := value(sub.header(), wire.ReceiptPrefix)
	if prefix == "" {
		s.failHeader(c, sub.env, true, CodeInvalidRequest, "missing "+wire.ReceiptPrefix)
		return
	}
	totals, err := sub.totals(receiptLine)
	if err != nil {
		s.failHeader(c, sub.env, true, CodeInvalidRequest, err.Error())
		return
	}

	doc := s.store.Issue(Document{
		Type:       model.DocumentTypeReceipt,
		CallID:     value(sub.header(), wire.CallID),
		IssueDate:  s.now(),
		Currency:   sub.currency(),
		Net:        totals.NetValue,
		Tax:        totals.TaxValue,
		Gross:      totals.GrossValue,
		Structured: true,
	}, prefix)
	log.Info("receipt issued", zap.String("number", doc.Number), zap.String("gross", doc.Gross.String()))

	s.replyReceipt(c, sub.env, doc, flag(sub.settings(), wire.PDFDownload))
}

func (s *Server) getReceiptData(c *gin.Context, sub *submission) {
	number := value(sub.header(), wire.ReceiptNumber)
	doc, ok := s.store.Get(model.DocumentTypeReceipt, number)
	if !ok {
		s.failBody(c, sub.env, CodeUnknownDocument, "Nincs ilyen nyugta: "+number)
		return
	}
	s.replyReceipt(c, sub.env, doc, flag(sub.settings(), wire.PDFDownload))
}
