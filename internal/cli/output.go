// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/tripora/internal/platform/outcome"
)

// ResultError is a failed result surfaced as the command's error.
type ResultError struct {
	Result outcome.Result
}

// Error returns the user-facing message.
func (e *ResultError) Error() string {
	if e.Result.Message == "" {
		return "operation failed"
	}
	return e.Result.Message
}

// report prints result and converts a failure into a [ResultError].
// message is printed on success in text mode; an empty one prints nothing.
func (r *runner) report(cmd *cobra.Command, result outcome.Result, message string) error {
	if r.jsonOutput {
		if err := r.printJSON(cmd, result); err != nil {
			return err
		}
	} else if result.Success && message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), message)
	}

	if !result.Success {
		return &ResultError{Result: result}
	}
	return nil
}

// printJSON writes v indented to stdout.
func (r *runner) printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// secret returns the flag value or, when empty, the first line of stdin.
func secret(cmd *cobra.Command, flagValue, name string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("%s: pass --%s or pipe it on stdin", name, name)
		}
		return "", errors.New(name + " is empty")
	}
	return line, nil
}

// serverMessage extracts the message a server payload carries, if any.
func serverMessage(data map[string]any, fallback string) string {
	if message, ok := data["message"].(string); ok && message != "" {
		return message
	}
	return fallback
}
