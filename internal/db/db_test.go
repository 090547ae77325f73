package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTestingIsIsolated(t *testing.T) {
	a, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	b, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, b.Close()) })

	_, err = a.Exec(`INSERT INTO memos (id, date, category, content) VALUES (1, '', '기타 비고', 'x')`)
	require.NoError(t, err)

	var n int
	require.NoError(t, b.QueryRow(`SELECT COUNT(*) FROM memos`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrationsApply(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	for _, table := range []string{"inventory", "inbound_logs", "logs", "players", "staff", "memos", "id_sequences"} {
		var name string
		err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestInventoryConstraints(t *testing.T) {
	d, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	_, err = d.Exec(`INSERT INTO inventory (id, category, item_name, size, quantity) VALUES (1, '양말', 'Sock', 'M', -1)`)
	assert.Error(t, err, "negative quantity must be rejected")

	_, err = d.Exec(`INSERT INTO inventory (id, category, item_name, size, quantity) VALUES (1, '양말', 'Sock', 'M', 3)`)
	require.NoError(t, err)
	_, err = d.Exec(`INSERT INTO inventory (id, category, item_name, size, quantity) VALUES (2, '양말', 'Sock', 'M', 1)`)
	assert.Error(t, err, "duplicate stock key must be rejected")
}

func TestOpenFileReopensWithoutReapplying(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitroom.db")

	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO memos (id, date, category, content) VALUES (1, '', '기타 비고', 'kept')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, second.Close()) })

	var content string
	require.NoError(t, second.QueryRow(`SELECT content FROM memos WHERE id = 1`).Scan(&content))
	assert.Equal(t, "kept", content)
}
