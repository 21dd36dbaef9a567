package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantMigrate string
		wantErr     bool
	}{
		{name: "no flags serves", args: nil},
		{name: "migrate up", args: []string{"-migrate", "up"}, wantMigrate: "up"},
		{name: "migrate status", args: []string{"-migrate=status"}, wantMigrate: "status"},
		{name: "migrate version", args: []string{"--migrate", "version"}, wantMigrate: "version"},
		{name: "unknown migrate command", args: []string{"-migrate", "sideways"}, wantErr: true},
		{name: "unknown flag", args: []string{"-port", "80"}, wantErr: true},
		{name: "stray argument", args: []string{"serve"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := parseFlags(tc.args, io.Discard)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMigrate, opts.migrate)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	_, err := parseFlags([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestRun_RejectsBadFlagsBeforeLoadingConfig(t *testing.T) {
	err := run([]string{"-migrate", "sideways"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migrate command")
}
