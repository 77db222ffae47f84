package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, versions)
}

func TestEveryMigrationHasDown(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	versions, err := Versions()
	require.NoError(t, err)

	for _, v := range versions {
		up, upName, err := src.ReadUp(v)
		require.NoError(t, err, "version %d up", v)
		upSQL, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)

		down, downName, err := src.ReadDown(v)
		require.NoError(t, err, "version %d down", v)
		downSQL, err := io.ReadAll(down)
		down.Close()
		require.NoError(t, err)

		assert.Equal(t, upName, downName)
		assert.Contains(t, string(upSQL), "CREATE INDEX IF NOT EXISTS")
		assert.Equal(t,
			strings.Count(string(upSQL), "CREATE INDEX"),
			strings.Count(string(downSQL), "DROP INDEX"),
			"version %d should drop what it creates", v)
	}
}

func TestDownRejectsNonPositiveSteps(t *testing.T) {
	_, err := Down("postgres://unused", 0)
	assert.EqualError(t, err, "steps must be positive")
}
