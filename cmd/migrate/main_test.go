package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr   error
	steps   int
	forced  int
	version uint
	verErr  error
}

func (f *fakeMigrator) Up() error         { return f.upErr }
func (f *fakeMigrator) Down() error       { return nil }
func (f *fakeMigrator) Steps(n int) error { f.steps = n; return nil }
func (f *fakeMigrator) Force(v int) error { f.forced = v; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, false, f.verErr
}

func TestRun_Commands(t *testing.T) {
	m := &fakeMigrator{upErr: migrate.ErrNoChange, verErr: migrate.ErrNilVersion}

	assert.NoError(t, run(m, "up", nil))
	assert.NoError(t, run(m, "version", nil))

	require.NoError(t, run(m, "steps", []string{"-1"}))
	assert.Equal(t, -1, m.steps)

	require.NoError(t, run(m, "force", []string{"1"}))
	assert.Equal(t, 1, m.forced)

	assert.Error(t, run(m, "force", nil))
	assert.Error(t, run(m, "steps", []string{"two"}))
	assert.ErrorContains(t, run(m, "redo", nil), "unknown command")
}

func TestRun_PropagatesFailures(t *testing.T) {
	m := &fakeMigrator{upErr: errors.New("dirty database"), verErr: errors.New("no connection")}
	assert.ErrorContains(t, run(m, "up", nil), "dirty database")
	assert.ErrorContains(t, run(m, "version", nil), "no connection")
}

func TestMaskDatabaseURL(t *testing.T) {
	masked := maskDatabaseURL("postgres://bot:hunter2@db:5432/cafe?sslmode=disable")
	assert.NotContains(t, masked, "hunter2")
	assert.Contains(t, masked, "bot:")
	assert.Contains(t, masked, "@db:5432/cafe")

	assert.Equal(t, "***", maskDatabaseURL("short"))
}
