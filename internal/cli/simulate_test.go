package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-picker/internal/model"
	"github.com/iliyamo/cinema-seat-picker/internal/utils"
)

func execute(t *testing.T, store runStore, args ...string) (string, error) {
	t.Helper()
	cmd := newSimulateCommand(store)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func noStore(context.Context, *model.SimulationRun) error {
	return errors.New("store not expected")
}

func TestSimulate_DefaultSequence(t *testing.T) {
	out, err := execute(t, noStore)
	require.NoError(t, err)
	assert.Contains(t, out, "CINEMA SEAT PICKER A/B SIMULATION")
	assert.Contains(t, out, "Total groups: 36")
	assert.Contains(t, out, "=== anti-fragmentation ===\nGroups placed: 33\nGroups rejected: 3\nTotal seats occupied: 99")
	assert.NotContains(t, out, "Trials:")
}

func TestSimulate_TrialsAndSequence(t *testing.T) {
	out, err := execute(t, noStore, "--sequence", "3, 2,4", "--rows", "1", "--trials", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Group sequence: [3 2 4]")
	assert.Contains(t, out, "Trials: 4")
}

func TestSimulate_Store(t *testing.T) {
	var stored *model.SimulationRun
	store := func(_ context.Context, run *model.SimulationRun) error {
		run.ID = 42
		stored = run
		return nil
	}
	out, err := execute(t, store, "--random", "10", "--seed", "5", "--store")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(5), stored.Seed)
	assert.Len(t, strings.Split(stored.Sequence, ","), 10)
	assert.Contains(t, out, "Stored as simulation run #42")
}

func TestSimulate_BadFlags(t *testing.T) {
	_, err := execute(t, noStore, "--sequence", "3,x")
	assert.ErrorContains(t, err, "invalid party size")

	_, err = execute(t, noStore, "--sequence", "3", "--random", "4")
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = execute(t, noStore, "--rows", "0")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	out, err := execute(t, noStore, "hash-password", "--cost", "4", "popcorn")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(strings.TrimSpace(out), "popcorn"))

	_, err = execute(t, noStore, "hash-password", "--cost", "99", "popcorn")
	assert.Error(t, err)
}
