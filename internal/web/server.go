package web

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/billed-app/billed/internal/store"
)

// Server renders the employee portal and owns the per-session draft state
type Server struct {
	store          *store.HTTPStore
	sessions       *SessionManager
	router         *Router
	defaultSession Session
	acceptedTypes  map[string]bool
	mux            *http.ServeMux

	mu     sync.Mutex
	drafts map[string]Draft
}

// Config wires the portal's collaborators
type Config struct {
	// Store is the remote bill store client; nil runs the portal in
	// offline/demo mode with an empty bill list.
	Store *store.HTTPStore

	// Sessions signs and reads the session cookie.
	Sessions *SessionManager

	// DefaultSession is issued when a request carries no valid session,
	// since login is handled outside this portal.
	DefaultSession Session

	// AcceptedFileTypes overrides the receipt upload whitelist; nil keeps
	// the png/jpeg default.
	AcceptedFileTypes map[string]bool
}

// NewServer creates a portal server with a default mux
func NewServer(cfg Config) *Server {
	return NewServerWithMux(cfg, http.NewServeMux())
}

// NewServerWithMux creates a portal server with a custom mux for testing
func NewServerWithMux(cfg Config, mux *http.ServeMux) *Server {
	s := &Server{
		store:          cfg.Store,
		sessions:       cfg.Sessions,
		router:         NewRouter(),
		defaultSession: cfg.DefaultSession,
		acceptedTypes:  cfg.AcceptedFileTypes,
		mux:            mux,
		drafts:         make(map[string]Draft),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers the portal routes, most specific first
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /bills/actions/new-bill", s.withSession(s.handleClickNewBill))
	s.mux.HandleFunc("GET /bills/new", s.withSession(s.handleNewBillForm))
	s.mux.HandleFunc("POST /bills/new/file", s.withSession(s.handleChangeFile))
	s.mux.HandleFunc("GET /bills/{id}/preview", s.withSession(s.handlePreview))
	s.mux.HandleFunc("GET /bills", s.withSession(s.handleBills))
	s.mux.HandleFunc("POST /bills", s.withSession(s.handleSubmit))
	s.mux.HandleFunc("GET /", s.withSession(s.handleHome))
}

// withSession resolves the employee session, issuing the default identity
// when the request has none. The pipelines only ever read the session.
func (s *Server) withSession(next func(w http.ResponseWriter, r *http.Request, sess Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Read(r)
		if err != nil {
			sess = s.defaultSession
			if err := s.sessions.Issue(w, sess); err != nil {
				slog.Error("Failed to issue session cookie", "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}
		next(w, r, sess)
	}
}

// navigator builds the per-request navigation dispatcher: a route token
// becomes a redirect to the view's path.
func (s *Server) navigator(w http.ResponseWriter, r *http.Request) Navigator {
	return func(token string) {
		http.Redirect(w, r, s.router.Path(token), http.StatusSeeOther)
	}
}

// scopedStore narrows the store client to the session's bills. Keeps the
// nil-store demo mode as a true nil interface.
func (s *Server) scopedStore(sess Session) store.Store {
	if s.store == nil {
		return nil
	}
	return s.store.Scoped(sess.Email)
}

// draftFor returns the session's pending draft
func (s *Server) draftFor(sess Session) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts[sess.Email]
}

// setDraft stores the session's pending draft
func (s *Server) setDraft(sess Session, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sess.Email] = d
}

// clearDraft drops the session's pending draft
func (s *Server) clearDraft(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sess.Email)
}

// Start starts the portal HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting employee portal", "address", addr)
	return http.ListenAndServe(addr, s.mux)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
