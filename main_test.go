package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"beamhealth/config"
	recordsRepo "beamhealth/database/repository/records"
	"beamhealth/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const activeFixture = `[
	{"id": 1, "status": "booked", "start": "2025-12-12T09:00:00", "slot_duration": 30, "patient_id": 7, "room": "3B"},
	{"id": 2, "status": "available", "start": "2025-12-12T09:30:00", "slot_duration": 30, "patient_id": null}
]`

func runActive(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, recordsRepo.AppointmentsFile), []byte(activeFixture), 0o644))

	prevCfg, prevLogger := config.AppConfig, utils.Logger
	t.Cleanup(func() { config.AppConfig, utils.Logger = prevCfg, prevLogger })
	config.AppConfig = config.Config{RecordSource: "file", DataDir: dir, LocalUTCOffsetHours: -5}
	utils.Logger = zap.NewNop()

	var out bytes.Buffer
	cmd := activeCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestActiveCommand(t *testing.T) {
	t.Run("InProgress", func(t *testing.T) {
		// 14:10 UTC is 09:10 at UTC-5
		out, err := runActive(t, "--at", "2025-12-12T14:10:00Z")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1,"status":"booked","start":"2025-12-12T09:00:00","slot_duration":30,"patient_id":7,"room":"3B"}`, out)
	})

	t.Run("OffsetInput", func(t *testing.T) {
		out, err := runActive(t, "--at", "2025-12-12T09:29:59-05:00")
		require.NoError(t, err)
		assert.Contains(t, out, `"id": 1`)
	})

	t.Run("NothingActive", func(t *testing.T) {
		// end of the window is exclusive
		out, err := runActive(t, "--at", "2025-12-12T14:30:00Z")
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, out)
	})

	t.Run("InvalidAt", func(t *testing.T) {
		_, err := runActive(t, "--at", "2025-12-12 09:10")
		assert.ErrorContains(t, err, "invalid --at value")
	})
}
