// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tripora/internal/cli"
	"github.com/taibuivan/tripora/internal/platform/apitest"
	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/config"
	"github.com/taibuivan/tripora/internal/platform/constants"
)

// harness runs commands against one on-disk store and one fake API, so
// state carries across invocations the way it does across app launches.
type harness struct {
	t   *testing.T
	api *apitest.Server
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := apitest.Start(zerolog.Nop())
	t.Cleanup(api.Close)
	api.AddAccount(apitest.Account{
		Email:    "ayu@example.com",
		Password: "secret-pass",
		Verified: true,
		Profile:  map[string]any{"first_name": "Ayu"},
	})

	return &harness{
		t:   t,
		api: api,
		cfg: &config.Config{
			Environment:      "test",
			APIBaseURL:       api.URL(),
			APITimeout:       5 * time.Second,
			APIRateLimit:     100,
			APIRateBurst:     100,
			StorageDriver:    config.DriverLevelDB,
			StoragePath:      t.TempDir(),
			StorageNamespace: "default",
		},
	}
}

// run executes one invocation and returns stdout and the command error.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()

	root := cli.NewRootCommand(func() (*config.Config, error) {
		cfg := *h.cfg
		return &cfg, nil
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

/*
TestLoginWhoamiLogout walks a session across separate invocations.
*/
func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("secret-pass\n", "login", "ayu@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Selamat datang kembali, Ayu")

	out, err = h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ayu@example.com")
	assert.Contains(t, out, "token expires")

	out, err = h.run("", "--json", "whoami")
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "authenticated", view["status"])
	assert.NotContains(t, out, "token\"")

	_, err = h.run("", "logout")
	require.NoError(t, err)

	_, err = h.run("", "whoami")
	var failed *cli.ResultError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, apperr.CodeUnauthorized, failed.Result.Code)
}

/*
TestLogin_Failure exits with the server's message.
*/
func TestLogin_Failure(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "login", "ayu@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out, err := h.run("", "--json", "login", "ayu@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, out, `"success": false`)
}

/*
TestLogin_MissingPassword refuses before any request.
*/
func TestLogin_MissingPassword(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "login", "ayu@example.com")
	require.Error(t, err)
	assert.Equal(t, 0, h.api.Hits(constants.RouteLogin))
}

/*
TestRegisterVerify signs in through registration.
*/
func TestRegisterVerify(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "register", "--email", "budi@example.com", "--password", "longenough",
		"--first-name", "Budi", "--field", "citizenship=ID")
	require.NoError(t, err)
	assert.Contains(t, out, "OTP")

	last, _ := h.api.LastRequest(constants.RouteRegister)
	assert.Equal(t, "Budi", last.Body["first_name"])
	assert.Equal(t, "ID", last.Body["citizenship"])

	_, err = h.run("", "verify", "budi@example.com", apitest.DefaultOTP)
	require.NoError(t, err)

	out, err = h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "budi@example.com")
}

/*
TestLoginWith_Credential exchanges a pasted provider token.
*/
func TestLoginWith_Credential(t *testing.T) {
	h := newHarness(t)
	h.api.AddProviderCredential("microsoft", "ms-cred", "ayu@example.com")

	_, err := h.run("", "login-with", "microsoft", "--credential", "ms-cred")
	require.NoError(t, err)

	_, err = h.run("", "login-with", "myspace", "--credential", "x")
	assert.Error(t, err)

	// No client IDs are configured, so the device flow is unavailable.
	_, err = h.run("", "login-with", "google")
	assert.Error(t, err)
}

/*
TestUpdateProfileRefresh updates and re-fetches the profile.
*/
func TestUpdateProfileRefresh(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "login", "ayu@example.com", "--password", "secret-pass")
	require.NoError(t, err)

	_, err = h.run("", "update-profile", "--set", "phone_number=81234", "--set", "phone_code=+62")
	require.NoError(t, err)

	out, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "81234")

	h.api.RevokeTokens()
	_, err = h.run("", "refresh")
	require.Error(t, err)

	_, err = h.run("", "whoami")
	assert.Error(t, err)
}

/*
TestPasswordReset resets and signs in with the new password.
*/
func TestPasswordReset(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "forgot-password", "ayu@example.com")
	require.NoError(t, err)

	_, err = h.run("brandnewpass\n", "reset-password", "ayu@example.com", apitest.DefaultOTP)
	require.NoError(t, err)

	_, err = h.run("", "login", "ayu@example.com", "--password", "brandnewpass")
	assert.NoError(t, err)
}

/*
TestSettings persists country and language across invocations.
*/
func TestSettings(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "--json", "settings", "show")
	require.NoError(t, err)
	assert.JSONEq(t, `{"country":"Indonesia","currency":"IDR","lang":"ID"}`, out)

	_, err = h.run("", "settings", "country", "singapore")
	require.NoError(t, err)

	out, err = h.run("", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Singapore")
	assert.Contains(t, out, "English (EN)")

	_, err = h.run("", "settings", "country", "Atlantis")
	assert.Error(t, err)

	_, err = h.run("", "settings", "language", "id")
	require.NoError(t, err)

	out, err = h.run("", "translate", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Keluar\n", out)
}

/*
TestTranslate formats templates and falls back to the key.
*/
func TestTranslate(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "translate", "otp_sent", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "Kami telah mengirim kode verifikasi ke a@b.co\n", out)

	out, err = h.run("", "translate", "privacy_policy")
	require.NoError(t, err)
	assert.Equal(t, "privacy_policy\n", out)

	out, err = h.run("", "translate", "privacy_policy", "extra")
	require.NoError(t, err)
	assert.Equal(t, "privacy_policy\n", out)
}

/*
TestI18nGaps reports the asymmetric keys without opening storage.
*/
func TestI18nGaps(t *testing.T) {
	root := cli.NewRootCommand(func() (*config.Config, error) {
		return nil, errors.New("config must not be loaded")
	})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--json", "i18n", "gaps"})
	require.NoError(t, root.Execute())

	var gaps map[string][]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &gaps))
	assert.Contains(t, gaps["ID"], "privacy_policy")
	assert.Contains(t, gaps["EN"], "promo_banner")
}

/*
TestConfigError surfaces loader failures.
*/
func TestConfigError(t *testing.T) {
	root := cli.NewRootCommand(func() (*config.Config, error) {
		return nil, errors.New("config: unknown storage driver")
	})
	root.SetOut(io.Discard)
	root.SetArgs([]string{"whoami"})

	assert.EqualError(t, root.Execute(), "config: unknown storage driver")
}
