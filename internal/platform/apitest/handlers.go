// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apitest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/request"
	"github.com/taibuivan/tripora/internal/platform/respond"
	"github.com/taibuivan/tripora/internal/platform/sec"
	"github.com/taibuivan/tripora/internal/platform/validate"
)

var errAccountNotFound = errors.New("apitest: account not found")

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type providerRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// # Middleware

// record keeps a copy of every request for later inspection.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(raw))

		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: req.Method,
			Path:   req.URL.Path,
			Header: req.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(writer, req)
	})
}

// inject applies configured latency and one-shot faults.
func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		delay := s.delay
		injected, failing := s.faults[req.URL.Path]
		delete(s.faults, req.URL.Path)
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return
			}
		}

		if failing {
			body := map[string]any{}
			if injected.message != "" {
				body["message"] = injected.message
			}
			respond.JSON(writer, injected.status, body)
			return
		}

		next.ServeHTTP(writer, req)
	})
}

// # Authentication Handlers

/*
login handles POST /auth/login.

Request: {email|username, password}
Response: 200 {token, user} | 401 invalid credentials | 403 unverified
*/
func (s *Server) login(writer http.ResponseWriter, req *http.Request) {
	var input loginRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	identifier := input.Email
	if identifier == "" {
		identifier = input.Username
	}

	validator := &validate.Validator{}
	validator.Required("identifier", identifier).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	s.mu.Lock()
	found := s.findLocked(func(a *account) bool {
		if input.Email != "" {
			return strings.EqualFold(a.email, input.Email)
		}
		return a.username == input.Username
	})
	var hash string
	var verified bool
	if found != nil {
		hash, verified = found.passwordHash, found.verified
	}
	s.mu.Unlock()

	if found == nil || !sec.PasswordMatches(hash, input.Password) {
		respond.Error(writer, req, apperr.Unauthorized("Invalid credentials"))
		return
	}
	if !verified {
		respond.Error(writer, req, apperr.Business(http.StatusForbidden, "Please verify your email first"))
		return
	}

	s.respondSession(writer, req, found)
}

// verifyProvider handles POST /auth/{provider}/verify-token.
func (s *Server) verifyProvider(provider string) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		var input providerRequest
		if err := request.DecodeJSON(req, &input); err != nil {
			respond.Error(writer, req, err)
			return
		}

		s.mu.Lock()
		email, known := s.credentials[provider+":"+input.Token]
		var found *account
		if known {
			found = s.findLocked(func(a *account) bool { return strings.EqualFold(a.email, email) })
			if found == nil {
				found = &account{id: s.nextID, email: email, verified: true, profile: map[string]any{}}
				s.accounts[found.id] = found
				s.nextID++
			}
		}
		s.mu.Unlock()

		if !known {
			respond.Error(writer, req, apperr.Unauthorized("Invalid "+provider+" token"))
			return
		}

		s.respondSession(writer, req, found)
	}
}

/*
register handles POST /auth/register.

Request: arbitrary profile fields, email and password required
Response: 201 {message, email} | 400 | 409 duplicate email
*/
func (s *Server) register(writer http.ResponseWriter, req *http.Request) {
	var input map[string]any
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	email, _ := input["email"].(string)
	password, _ := input["password"].(string)

	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email).Password("password", password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, req, err)
		return
	}

	s.mu.Lock()
	duplicate := s.findLocked(func(a *account) bool { return strings.EqualFold(a.email, email) }) != nil
	s.mu.Unlock()

	if duplicate {
		respond.Error(writer, req, apperr.Conflict("Email already registered"))
		return
	}

	profile := maps.Clone(input)
	delete(profile, "password")
	username, _ := input["username"].(string)

	s.AddAccount(Account{Username: username, Email: email, Password: password, Profile: profile})

	respond.Created(writer, map[string]any{
		"message": "Registration successful. Please verify your email with the OTP we sent.",
		"email":   email,
	})
}

// verifyEmail handles POST /auth/verify-email.
func (s *Server) verifyEmail(writer http.ResponseWriter, req *http.Request) {
	var input verifyRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	s.mu.Lock()
	found := s.findLocked(func(a *account) bool { return strings.EqualFold(a.email, input.Email) })
	valid := found != nil && input.OTP == s.otpLocked(input.Email)
	if valid {
		found.verified = true
	}
	s.mu.Unlock()

	if !valid {
		respond.Error(writer, req, apperr.ValidationError("Invalid or expired OTP"))
		return
	}

	s.respondSession(writer, req, found)
}

// resendOTP handles POST /auth/resend-otp.
func (s *Server) resendOTP(writer http.ResponseWriter, req *http.Request) {
	s.acknowledgeEmail(writer, req, "A new OTP has been sent to your email")
}

// # Password Recovery Handlers

// forgotPassword handles POST /auth/forgot-password.
func (s *Server) forgotPassword(writer http.ResponseWriter, req *http.Request) {
	s.acknowledgeEmail(writer, req, "Password reset OTP has been sent to your email")
}

// resetPassword handles POST /auth/reset-password.
func (s *Server) resetPassword(writer http.ResponseWriter, req *http.Request) {
	var input resetRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	hash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	s.mu.Lock()
	found := s.findLocked(func(a *account) bool { return strings.EqualFold(a.email, input.Email) })
	valid := found != nil && input.OTP == s.otpLocked(input.Email)
	if valid {
		found.passwordHash = hash
	}
	s.mu.Unlock()

	if !valid {
		respond.Error(writer, req, apperr.ValidationError("Invalid or expired OTP"))
		return
	}

	respond.OK(writer, map[string]any{"message": "Password has been reset"})
}

// acknowledgeEmail answers the email-only flows: 404 for unknown addresses.
func (s *Server) acknowledgeEmail(writer http.ResponseWriter, req *http.Request, message string) {
	var input emailRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	s.mu.Lock()
	found := s.findLocked(func(a *account) bool { return strings.EqualFold(a.email, input.Email) })
	s.mu.Unlock()

	if found == nil {
		respond.Error(writer, req, apperr.NotFound("Account"))
		return
	}

	respond.OK(writer, map[string]any{"message": message})
}

// # Profile Handlers

// profile handles GET /auth/profile.
func (s *Server) profile(writer http.ResponseWriter, req *http.Request) {
	id, _ := strconv.Atoi(request.UserID(req))

	s.mu.Lock()
	found, ok := s.accounts[id]
	var user map[string]any
	if ok {
		user = found.view()
	}
	bare := s.bareProfile
	s.mu.Unlock()

	if !ok {
		respond.Error(writer, req, apperr.Unauthorized("Account no longer exists"))
		return
	}

	s.respondUser(writer, user, bare)
}

// updateUser handles PUT /users/{id}. Only the owner may update.
func (s *Server) updateUser(writer http.ResponseWriter, req *http.Request) {
	if request.Param(req, "id") != request.UserID(req) {
		respond.Error(writer, req, apperr.Unauthorized("You can only update your own profile"))
		return
	}

	var fields map[string]any
	if err := request.DecodeJSON(req, &fields); err != nil {
		respond.Error(writer, req, err)
		return
	}

	id, _ := strconv.Atoi(request.UserID(req))

	s.mu.Lock()
	found, ok := s.accounts[id]
	var user map[string]any
	if ok {
		for key, value := range fields {
			switch key {
			case "id", "email", "password":
				// immutable through this endpoint
			default:
				found.profile[key] = value
			}
		}
		user = found.view()
	}
	bare := s.bareProfile
	s.mu.Unlock()

	if !ok {
		respond.Error(writer, req, apperr.NotFound("User"))
		return
	}

	s.respondUser(writer, user, bare)
}

// # Helpers

// respondSession issues a token for a and writes {token, user}.
func (s *Server) respondSession(writer http.ResponseWriter, req *http.Request, a *account) {
	s.mu.Lock()
	token, err := s.issuer.Issue(strconv.Itoa(a.id), a.email, tokenTTL)
	user := a.view()
	s.mu.Unlock()

	if err != nil {
		respond.Error(writer, req, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]any{"token": token, "user": user})
}

func (s *Server) respondUser(writer http.ResponseWriter, user map[string]any, bare bool) {
	if bare {
		respond.OK(writer, user)
		return
	}
	respond.OK(writer, map[string]any{"user": user})
}

// findLocked returns the first account matching. Callers hold s.mu.
func (s *Server) findLocked(match func(*account) bool) *account {
	for _, a := range s.accounts {
		if match(a) {
			return a
		}
	}
	return nil
}

// otpLocked returns the expected OTP for email. Callers hold s.mu.
func (s *Server) otpLocked(email string) string {
	if otp, ok := s.otps[email]; ok {
		return otp
	}
	return DefaultOTP
}

// view renders the public profile of a. Callers hold s.mu.
func (a *account) view() map[string]any {
	user := maps.Clone(a.profile)
	if user == nil {
		user = map[string]any{}
	}
	user["id"] = a.id
	user["email"] = a.email
	if a.username != "" {
		user["username"] = a.username
	}
	return user
}
