// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apitest is an in-process fake of the Tripora REST API.

It implements every endpoint the client consumes with the same paths,
request fields and response shapes, backed by an in-memory user table,
bcrypt password hashes and HS256 bearer tokens. Tests (and the `dev-api`
CLI command) drive it to observe the client end to end.

Architecture:

  - Router: chi, with the platform middleware chain (request ID, structured
    logging, panic recovery) in front of every route.
  - Faults: [Server.FailNext] and [Server.SetDelay] inject server errors and
    latency; [Server.RevokeTokens] makes every issued token stale (401).
  - Inspection: [Server.Requests] records what the client actually sent.
*/
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/middleware"
	"github.com/taibuivan/tripora/internal/platform/sec"
)

// # Definitions

// DefaultOTP is the code every verification and reset flow expects unless
// a test overrides it with [Server.SetOTP].
const DefaultOTP = "123456"

// tokenTTL is the lifetime of issued bearer tokens.
const tokenTTL = time.Hour

// Account is a user known to the fake.
type Account struct {
	ID       int
	Username string
	Email    string
	Password string
	Verified bool
	Profile  map[string]any
}

// Recorded is one request as received by the fake.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

type fault struct {
	status  int
	message string
}

// Server is the fake API. All methods are safe for concurrent use.
type Server struct {
	mu sync.Mutex

	accounts    map[int]*account
	nextID      int
	otps        map[string]string
	credentials map[string]string // provider:credential -> email
	faults      map[string]fault
	requests    []Recorded
	delay       time.Duration
	bareProfile bool
	generation  int

	issuer *sec.TokenIssuer
	logger zerolog.Logger
	router chi.Router
	http   *httptest.Server
}

// account is the stored form of [Account].
type account struct {
	id           int
	username     string
	email        string
	passwordHash string
	verified     bool
	profile      map[string]any
}

// # Lifecycle

// New builds the fake without starting a listener. Use [Server.Handler] to
// serve it yourself or [Start] for an httptest server.
func New(logger zerolog.Logger) *Server {
	server := &Server{
		accounts:    make(map[int]*account),
		nextID:      1,
		otps:        make(map[string]string),
		credentials: make(map[string]string),
		faults:      make(map[string]fault),
		logger:      logger.With().Str("component", "apitest").Logger(),
	}
	server.rotateSecret()
	server.router = server.routes()
	return server
}

// Start builds the fake and serves it on a loopback httptest listener.
func Start(logger zerolog.Logger) *Server {
	server := New(logger)
	server.http = httptest.NewServer(server.router)
	return server
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.http == nil {
		return ""
	}
	return s.http.URL
}

// Close stops a started server.
func (s *Server) Close() {
	if s.http != nil {
		s.http.Close()
	}
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes registers every endpoint of the remote contract.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(s.logger))
	r.Use(middleware.PanicRecovery())
	r.Use(chimw.CleanPath)
	r.Use(s.record)
	r.Use(s.inject)

	r.Post(constants.RouteLogin, s.login)
	r.Post(constants.RouteGoogleVerify, s.verifyProvider("google"))
	r.Post(constants.RouteFacebookVerify, s.verifyProvider("facebook"))
	r.Post(constants.RouteMicrosoftVerify, s.verifyProvider("microsoft"))
	r.Post(constants.RouteRegister, s.register)
	r.Post(constants.RouteVerifyEmail, s.verifyEmail)
	r.Post(constants.RouteResendOTP, s.resendOTP)
	r.Post(constants.RouteForgotPassword, s.forgotPassword)
	r.Post(constants.RouteResetPassword, s.resetPassword)

	// Protected endpoints
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireBearer(s))
		protected.Get(constants.RouteProfile, s.profile)
		protected.Put(constants.RouteUsers+"/{id}", s.updateUser)
	})

	return r
}

// # Seeding

// AddAccount stores a user and returns its assigned ID. The password is
// hashed; an empty Profile is derived from the other fields.
func (s *Server) AddAccount(a Account) int {
	hash, err := sec.HashPassword(a.Password)
	if err != nil {
		panic("apitest: " + err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &account{
		id:           s.nextID,
		username:     a.Username,
		email:        a.Email,
		passwordHash: hash,
		verified:     a.Verified,
		profile:      map[string]any{},
	}
	for key, value := range a.Profile {
		stored.profile[key] = value
	}
	s.accounts[stored.id] = stored
	s.nextID++

	return stored.id
}

// AddProviderCredential makes credential from provider resolve to email.
// Unknown emails are created as verified accounts on first use.
func (s *Server) AddProviderCredential(provider, credential, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[provider+":"+credential] = email
}

// SetOTP overrides the code expected for email.
func (s *Server) SetOTP(email, otp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[email] = otp
}

// # Fault Injection

// FailNext makes the next request to path fail with status and message.
// An empty message produces a body without a message field.
func (s *Server) FailNext(path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[path] = fault{status: status, message: message}
}

// SetDelay delays every response by d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetBareProfile switches profile responses from {user:{...}} to a bare object.
func (s *Server) SetBareProfile(bare bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bareProfile = bare
}

// RevokeTokens invalidates every token issued so far.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotateSecret()
}

// # Inspection

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Hits counts requests received for path.
func (s *Server) Hits(path string) int {
	count := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			count++
		}
	}
	return count
}

// LastRequest returns the most recent request to path.
func (s *Server) LastRequest(path string) (Recorded, bool) {
	requests := s.Requests()
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].Path == path {
			return requests[i], true
		}
	}
	return Recorded{}, false
}

// IssueToken signs a token for an existing account ID.
func (s *Server) IssueToken(id int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[id]
	if !ok {
		return "", errAccountNotFound
	}
	return s.issuer.Issue(strconv.Itoa(stored.id), stored.email, tokenTTL)
}

// Verify implements [middleware.TokenVerifier] against the current secret.
func (s *Server) Verify(tokenString string) (*sec.AuthClaims, error) {
	s.mu.Lock()
	issuer := s.issuer
	s.mu.Unlock()
	return issuer.Verify(tokenString)
}

// rotateSecret replaces the signing key. Callers hold s.mu.
func (s *Server) rotateSecret() {
	s.generation++
	secret := []byte("apitest-secret-" + strconv.Itoa(s.generation))
	s.issuer = sec.NewTokenIssuer(secret, "tripora-apitest")
}
