// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"strings"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/outcome"
	"github.com/taibuivan/tripora/internal/platform/validate"
	"github.com/taibuivan/tripora/internal/provider"
	"github.com/taibuivan/tripora/internal/remote"
)

// notLoggedIn is returned by operations that need a bearer token.
var notLoggedIn = outcome.Fail(apperr.CodeUnauthorized, "You are not logged in")

// # Sign In

// Login authenticates with an email (identifier contains "@") or a username.
func (m *Manager) Login(ctx context.Context, identifier, password string) outcome.Result {
	identifier = strings.TrimSpace(identifier)

	validator := &validate.Validator{}
	validator.Identifier("identifier", identifier).Required("password", password)
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Login failed")
	}

	response, err := m.api.Login(ctx, loginField(identifier), identifier, password)
	if err != nil {
		return m.failed("login", err, "Login failed")
	}

	return m.establish(ctx, "login", response, "Login failed")
}

// LoginWithProvider exchanges a third-party credential for a session.
func (m *Manager) LoginWithProvider(ctx context.Context, providerToken string, kind provider.Kind) outcome.Result {
	parsed, kindErr := provider.ParseKind(string(kind))

	validator := &validate.Validator{}
	validator.Required("provider_token", providerToken).
		Check("provider", kindErr == nil, "Unsupported sign-in provider")
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Login failed")
	}

	response, err := m.api.VerifyProviderToken(ctx, string(parsed), providerToken)
	if err != nil {
		return m.failed("login_with_provider", err, "Login failed")
	}

	return m.establish(ctx, "login_with_provider", response, "Login failed")
}

// SignInWith runs the provider's sign-in and exchanges its credential.
func (m *Manager) SignInWith(ctx context.Context, p provider.AuthProvider) outcome.Result {
	credential, err := p.SignIn(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Str("provider", string(p.Name())).Msg("provider sign-in failed")
		return outcome.From(err, "Sign-in was not completed")
	}

	return m.LoginWithProvider(ctx, credential.Token, p.Name())
}

// # Registration

// Register submits the registration form. It does not authenticate; the
// returned data normally asks the user to verify by OTP.
func (m *Manager) Register(ctx context.Context, userData map[string]any) outcome.Result {
	email, _ := userData["email"].(string)
	password, _ := userData["password"].(string)

	validator := &validate.Validator{}
	validator.Required("email", email).
		Email("email", email).
		Password("password", password)
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Registration failed")
	}

	payload, err := m.api.Register(ctx, userData)
	if err != nil {
		return m.failed("register", err, "Registration failed")
	}

	m.logger.Info().Msg("registration submitted")
	return outcome.WithData(payload)
}

// VerifyOTP completes email verification and authenticates.
func (m *Manager) VerifyOTP(ctx context.Context, email, otp string) outcome.Result {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)

	validator := &validate.Validator{}
	validator.Email("email", email).OTP("otp", otp)
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Verification failed")
	}

	response, err := m.api.VerifyEmail(ctx, email, otp)
	if err != nil {
		return m.failed("verify_otp", err, "Verification failed")
	}

	return m.establish(ctx, "verify_otp", response, "Verification failed")
}

// ResendOTP asks for a new verification code.
func (m *Manager) ResendOTP(ctx context.Context, email string) outcome.Result {
	return m.emailOnly(ctx, "resend_otp", email, m.api.ResendOTP, "Failed to resend code")
}

// # Password Recovery

// ForgotPassword starts password recovery. The session is not touched.
func (m *Manager) ForgotPassword(ctx context.Context, email string) outcome.Result {
	return m.emailOnly(ctx, "forgot_password", email, m.api.ForgotPassword, "Failed to send reset code")
}

// ResetPassword sets a new password with the emailed code. The session is not touched.
func (m *Manager) ResetPassword(ctx context.Context, email, otp, newPassword string) outcome.Result {
	email = strings.TrimSpace(email)
	otp = strings.TrimSpace(otp)

	validator := &validate.Validator{}
	validator.Email("email", email).
		OTP("otp", otp).
		Password("new_password", newPassword)
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Password reset failed")
	}

	payload, err := m.api.ResetPassword(ctx, email, otp, newPassword)
	if err != nil {
		return m.failed("reset_password", err, "Password reset failed")
	}

	return outcome.WithData(payload)
}

// # Profile

// RefreshUserInfo re-fetches the profile for the held token and replaces
// the user. If the server rejects the token, the session is logged out.
func (m *Manager) RefreshUserInfo(ctx context.Context) outcome.Result {
	current := m.Current()
	if !current.Authenticated() {
		return notLoggedIn
	}

	profile, err := m.api.Profile(ctx, current.Token)
	if err != nil {
		if apperr.IsUnauthorized(err) {
			m.forceLogout(ctx, current.Token)
			return outcome.From(err, "Your session has expired. Please log in again.")
		}
		return m.failed("refresh_user_info", err, "Failed to refresh profile")
	}

	if _, err := m.commitUser(ctx, current.Token, profile); err != nil {
		return m.failed("refresh_user_info", err, "Failed to refresh profile")
	}

	m.notify()
	return outcome.OK()
}

// UpdateProfile submits a partial update and replaces the user with the
// server's answer.
func (m *Manager) UpdateProfile(ctx context.Context, userID string, fields map[string]any) outcome.Result {
	current := m.Current()
	if !current.Authenticated() {
		return notLoggedIn
	}

	validator := &validate.Validator{}
	validator.Required("user_id", userID).
		Check("fields", len(fields) > 0, "Nothing to update")
	if err := validator.Err(); err != nil {
		return outcome.From(err, "Profile update failed")
	}

	updated, err := m.api.UpdateUser(ctx, current.Token, userID, fields)
	if err != nil {
		return m.failed("update_profile", err, "Profile update failed")
	}

	snapshot, err := m.commitUser(ctx, current.Token, updated)
	if err != nil {
		return m.failed("update_profile", err, "Profile update failed")
	}

	m.notify()
	m.logger.Info().Str("user_id", snapshot.User.ID()).Msg("profile updated")
	return outcome.OK()
}

// # Sign Out

// Logout clears the session in memory and storage. It always succeeds; a
// storage failure is logged and retried by the next Initialize cleanup.
func (m *Manager) Logout(ctx context.Context) outcome.Result {
	m.mu.Lock()
	m.clearLocked(ctx)
	m.mu.Unlock()

	m.notify()
	m.logger.Info().Msg("logged out")
	return outcome.OK()
}

// forceLogout logs out only if the rejected token is still the held one.
func (m *Manager) forceLogout(ctx context.Context, rejected string) {
	m.mu.Lock()
	if m.state.Load().Token != rejected {
		m.mu.Unlock()
		return
	}
	m.clearLocked(ctx)
	m.mu.Unlock()

	m.notify()
	m.logger.Warn().Msg("token rejected by server, logged out")
}

// clearLocked removes the pair and publishes the logged-out state. Callers hold m.mu.
func (m *Manager) clearLocked(ctx context.Context) {
	// Removal must happen even if the caller is already canceled.
	if err := m.store.MultiRemove(context.WithoutCancel(ctx), constants.StorageKeyToken, constants.StorageKeyUser); err != nil {
		m.logger.Error().Err(err).Msg("persisted session not removed")
	}
	m.publish(&Session{Status: StatusUnauthenticated})
}

// # Helpers

// establish commits an authenticating response.
func (m *Manager) establish(ctx context.Context, op string, response remote.AuthResponse, fallback string) outcome.Result {
	snapshot, err := m.commitPair(ctx, response.Token, response.User)
	if err != nil {
		m.logger.Error().Err(err).Str("op", op).Msg("session not persisted")
		return outcome.From(err, fallback)
	}

	m.notify()
	m.logger.Info().Str("op", op).Str("user_id", snapshot.User.ID()).Msg("authenticated")
	return outcome.OK()
}

// emailOnly runs the flows whose only input is an email address.
func (m *Manager) emailOnly(
	ctx context.Context,
	op, email string,
	call func(context.Context, string) (map[string]any, error),
	fallback string,
) outcome.Result {
	email = strings.TrimSpace(email)

	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email)
	if err := validator.Err(); err != nil {
		return outcome.From(err, fallback)
	}

	payload, err := call(ctx, email)
	if err != nil {
		return m.failed(op, err, fallback)
	}
	return outcome.WithData(payload)
}

// failed logs a remote failure and converts it.
func (m *Manager) failed(op string, err error, fallback string) outcome.Result {
	event := m.logger.Warn()
	if ae := apperr.As(err); ae == nil || ae.Code == apperr.CodeInternal || ae.Code == apperr.CodeContract {
		event = m.logger.Error()
	}
	event.Err(err).Str("op", op).Msg("operation failed")
	return outcome.From(err, fallback)
}
