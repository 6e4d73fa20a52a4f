package badger

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/storage"
	"github.com/onflow/mint-node/utils/unittest"
)

func TestDKGKeys(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := NewDKGKeys(db)
		nodeID := unittest.IdentityFixture()

		_, err := store.RetrieveKeyMaterial(nodeID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		expected := &dkg.KeyMaterial{
			Threshold:       2,
			Participants:    unittest.IdentityListFixture(3),
			Index:           2,
			GroupPublicKey:  unittest.RandomBytes(32),
			PublicKeyShares: [][]byte{unittest.RandomBytes(32), unittest.RandomBytes(32), unittest.RandomBytes(32)},
			SecretKeyShare:  unittest.RandomBytes(32),
		}
		require.NoError(t, store.InsertKeyMaterial(nodeID, expected))

		actual, err := store.RetrieveKeyMaterial(nodeID)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		err = store.InsertKeyMaterial(nodeID, expected)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestInitSecretsDB(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		db, err := InitSecretsDB(unittest.Logger(), "")
		require.NoError(t, err)
		assert.True(t, db.Opts().InMemory)
		require.NoError(t, db.Close())
	})

	t.Run("on disk", func(t *testing.T) {
		unittest.RunWithTempDir(t, func(dir string) {
			db, err := InitSecretsDB(unittest.Logger(), dir)
			require.NoError(t, err)
			assert.False(t, db.Opts().InMemory)
			require.NoError(t, db.Close())
		})
	})
}
