// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/constants"
)

// # Payloads

// AuthResponse is the body of every flow that authenticates: a first-party
// bearer token and the user profile it belongs to.
type AuthResponse struct {
	Token string
	User  map[string]any
}

// Login field names. The API accepts either, never both.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
)

// providerRoutes maps a provider name to its verification endpoint.
var providerRoutes = map[string]string{
	"google":    constants.RouteGoogleVerify,
	"facebook":  constants.RouteFacebookVerify,
	"microsoft": constants.RouteMicrosoftVerify,
}

// # Authentication Flows

// Login exchanges credentials for a session. 'field' is [FieldEmail] or [FieldUsername].
func (c *Client) Login(ctx context.Context, field, identifier, password string) (AuthResponse, error) {
	body, err := c.call(ctx, http.MethodPost, constants.RouteLogin, "", map[string]string{
		field:      identifier,
		"password": password,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return authFrom(body)
}

// VerifyProviderToken exchanges a third-party credential for a session.
func (c *Client) VerifyProviderToken(ctx context.Context, provider, credential string) (AuthResponse, error) {
	route, ok := providerRoutes[provider]
	if !ok {
		return AuthResponse{}, apperr.ValidationError(fmt.Sprintf("Unsupported sign-in provider %q", provider))
	}

	body, err := c.call(ctx, http.MethodPost, route, "", map[string]string{
		constants.FieldToken: credential,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return authFrom(body)
}

// Register submits the registration form. It does not authenticate.
func (c *Client) Register(ctx context.Context, userData map[string]any) (map[string]any, error) {
	return c.call(ctx, http.MethodPost, constants.RouteRegister, "", userData)
}

// VerifyEmail completes registration with the emailed OTP and authenticates.
func (c *Client) VerifyEmail(ctx context.Context, email, otp string) (AuthResponse, error) {
	body, err := c.call(ctx, http.MethodPost, constants.RouteVerifyEmail, "", map[string]string{
		"email": email,
		"otp":   otp,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	return authFrom(body)
}

// ResendOTP asks the server to email a fresh verification code.
func (c *Client) ResendOTP(ctx context.Context, email string) (map[string]any, error) {
	return c.call(ctx, http.MethodPost, constants.RouteResendOTP, "", map[string]string{"email": email})
}

// # Password Recovery

// ForgotPassword starts password recovery for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (map[string]any, error) {
	return c.call(ctx, http.MethodPost, constants.RouteForgotPassword, "", map[string]string{"email": email})
}

// ResetPassword sets a new password using the emailed OTP.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (map[string]any, error) {
	return c.call(ctx, http.MethodPost, constants.RouteResetPassword, "", map[string]string{
		"email":        email,
		"otp":          otp,
		"new_password": newPassword,
	})
}

// # Profile

// Profile fetches the profile of the token's owner.
func (c *Client) Profile(ctx context.Context, token string) (map[string]any, error) {
	body, err := c.call(ctx, http.MethodGet, constants.RouteProfile, token, nil)
	if err != nil {
		return nil, err
	}
	return userFrom(body)
}

// UpdateUser submits a partial profile update and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, token, userID string, fields map[string]any) (map[string]any, error) {
	path := constants.RouteUsers + "/" + url.PathEscape(userID)
	body, err := c.call(ctx, http.MethodPut, path, token, fields)
	if err != nil {
		return nil, err
	}
	return userFrom(body)
}

// # Contract Checks

var (
	errMissingToken = errors.New("remote: auth response has no token")
	errMissingUser  = errors.New("remote: response has no user object")
)

// authFrom enforces the {token, user} contract of authenticating flows.
func authFrom(body map[string]any) (AuthResponse, error) {
	token, _ := body[constants.FieldToken].(string)
	if token == "" {
		return AuthResponse{}, apperr.Contract(errMissingToken)
	}

	user, ok := body[constants.FieldUser].(map[string]any)
	if !ok || len(user) == 0 {
		return AuthResponse{}, apperr.Contract(errMissingUser)
	}

	return AuthResponse{Token: token, User: user}, nil
}

// userFrom accepts both {user:{...}} and a bare user object.
func userFrom(body map[string]any) (map[string]any, error) {
	if user, ok := body[constants.FieldUser].(map[string]any); ok && len(user) > 0 {
		return user, nil
	}
	if _, wrapped := body[constants.FieldUser]; wrapped || len(body) == 0 {
		return nil, apperr.Contract(errMissingUser)
	}
	return body, nil
}
