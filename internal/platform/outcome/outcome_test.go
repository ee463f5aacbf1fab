// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package outcome_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tripora/internal/platform/apperr"
	"github.com/taibuivan/tripora/internal/platform/outcome"
)

/*
TestFrom maps each error flavor to the expected failure message.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{"plain_error", errors.New("disk full"), apperr.CodeInternal, "Login failed"},
		{"internal", apperr.Internal(errors.New("x")), apperr.CodeInternal, "Login failed"},
		{"business", apperr.Business(500, "Wrong password"), apperr.CodeBusiness, "Wrong password"},
		{"contract", apperr.Contract(nil), apperr.CodeContract, "Unexpected response from server"},
		{"unauthorized_empty", &apperr.AppError{Code: apperr.CodeUnauthorized}, apperr.CodeUnauthorized, "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := outcome.From(tt.err, "Login failed")
			assert.False(t, result.Success)
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestOK(t *testing.T) {
	assert.True(t, outcome.OK().Success)

	result := outcome.WithData(map[string]any{"message": "check your inbox"})
	assert.True(t, result.Success)
	assert.Equal(t, "check your inbox", result.Data["message"])
}
