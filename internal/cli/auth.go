// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/provider"
)

// # Sign In

func (r *runner) loginCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Sign in with an email address or username",
		Long: `Sign in with an email address (anything containing "@") or a username.
The password is read from --password or, if omitted, from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			pass, err := secret(cmd, password, "password")
			if err != nil {
				return err
			}

			result := app.Session.Login(cmd.Context(), args[0], pass)
			return r.report(cmd, result, r.welcome(app, args[0]))
		}),
	}

	cmd.Flags().StringVar(&password, "password", "", "account password (default: read from stdin)")
	return cmd
}

func (r *runner) loginWithCommand() *cobra.Command {
	var credential string

	cmd := &cobra.Command{
		Use:   "login-with <google|facebook|microsoft>",
		Short: "Sign in through a third-party provider",
		Long: `Sign in through Google, Facebook or Microsoft.

Without --credential the provider's device flow runs: a URL and a code are
printed, and the command waits until the sign-in is approved in a browser.
With --credential an identity token obtained elsewhere is exchanged directly.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(provider.Google), string(provider.Facebook), string(provider.Microsoft)},
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			kind, err := provider.ParseKind(args[0])
			if err != nil {
				return err
			}

			if credential != "" {
				result := app.Session.LoginWithProvider(cmd.Context(), credential, kind)
				return r.report(cmd, result, r.welcome(app, string(kind)))
			}

			signIn, err := app.Providers.Lookup(kind)
			if err != nil {
				return err
			}

			result := app.Session.SignInWith(cmd.Context(), signIn)
			return r.report(cmd, result, r.welcome(app, string(kind)))
		}),
	}

	cmd.Flags().StringVar(&credential, "credential", "", "provider identity token to exchange")
	return cmd
}

// welcome greets the signed-in user in the current language.
func (r *runner) welcome(app *App, fallback string) string {
	name := app.Session.Current().User.Name()
	if name == "" {
		name = fallback
	}
	return app.Translator.Tf("login_success", name)
}

// # Registration

func (r *runner) registerCommand() *cobra.Command {
	var (
		email, password, username string
		firstName, lastName       string
		phoneNumber, phoneCode    string
		extra                     map[string]string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a verification code is emailed",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			pass, err := secret(cmd, password, "password")
			if err != nil {
				return err
			}

			userData := map[string]any{"email": email, "password": pass}
			for key, value := range extra {
				userData[key] = value
			}
			for key, value := range map[string]string{
				"username":     username,
				"first_name":   firstName,
				"last_name":    lastName,
				"phone_number": phoneNumber,
				"phone_code":   phoneCode,
			} {
				if value != "" {
					userData[key] = value
				}
			}

			result := app.Session.Register(cmd.Context(), userData)
			return r.report(cmd, result, serverMessage(result.Data, app.Translator.Tf("otp_sent", email)))
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (default: read from stdin)")
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&phoneNumber, "phone-number", "", "phone number without country code")
	cmd.Flags().StringVar(&phoneCode, "phone-code", "", "phone country code, e.g. +62")
	cmd.Flags().StringToStringVar(&extra, "field", nil, "additional profile field as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (r *runner) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <email> <otp>",
		Short: "Verify an email address with the emailed code and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			result := app.Session.VerifyOTP(cmd.Context(), args[0], args[1])
			return r.report(cmd, result, r.welcome(app, args[0]))
		}),
	}
}

func (r *runner) resendOTPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-otp <email>",
		Short: "Send a new verification code",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			result := app.Session.ResendOTP(cmd.Context(), args[0])
			return r.report(cmd, result, serverMessage(result.Data, app.Translator.Tf("otp_sent", args[0])))
		}),
	}
}

// # Password Recovery

func (r *runner) forgotPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Email a password reset code",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			result := app.Session.ForgotPassword(cmd.Context(), args[0])
			return r.report(cmd, result, serverMessage(result.Data, app.Translator.Tf("otp_sent", args[0])))
		}),
	}
}

func (r *runner) resetPasswordCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <email> <otp>",
		Short: "Set a new password with the emailed reset code",
		Args:  cobra.ExactArgs(2),
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			pass, err := secret(cmd, password, "password")
			if err != nil {
				return err
			}

			result := app.Session.ResetPassword(cmd.Context(), args[0], args[1], pass)
			return r.report(cmd, result, serverMessage(result.Data, "Password has been reset"))
		}),
	}

	cmd.Flags().StringVar(&password, "password", "", "new password (default: read from stdin)")
	return cmd
}

// # Sign Out

func (r *runner) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			return r.report(cmd, app.Session.Logout(cmd.Context()), app.Translator.T("logout"))
		}),
	}
}
