package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRecords(t *testing.T) *BoltRecords {
	t.Helper()
	records, err := OpenBoltRecords(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })
	return records
}

func TestBoltRecords(t *testing.T) {
	t.Run("empty database loads nothing", func(t *testing.T) {
		records := openTestRecords(t)

		token, user, err := records.Load()
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Nil(t, user)
	})

	t.Run("save then load round-trips both values", func(t *testing.T) {
		records := openTestRecords(t)

		require.NoError(t, records.Save("tok-123", []byte(`{"id":1}`)))

		token, user, err := records.Load()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
		assert.JSONEq(t, `{"id":1}`, string(user))
	})

	t.Run("clear removes both values together", func(t *testing.T) {
		records := openTestRecords(t)

		require.NoError(t, records.Save("tok-123", []byte(`{"id":1}`)))
		require.NoError(t, records.Clear())

		token, user, err := records.Load()
		require.NoError(t, err)
		assert.Empty(t, token)
		assert.Nil(t, user)

		// Idempotent.
		require.NoError(t, records.Clear())
	})

	t.Run("record survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.db")

		records, err := OpenBoltRecords(path)
		require.NoError(t, err)
		require.NoError(t, records.Save("tok-456", []byte(`{"id":2}`)))
		require.NoError(t, records.Close())

		reopened, err := OpenBoltRecords(path)
		require.NoError(t, err)
		defer reopened.Close()

		token, user, err := reopened.Load()
		require.NoError(t, err)
		assert.Equal(t, "tok-456", token)
		assert.JSONEq(t, `{"id":2}`, string(user))
	})
}
