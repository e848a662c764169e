package commitlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openLog(t *testing.T) *Log {
	log, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func append3(t *testing.T, log *Log) {
	tx, err := log.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Append("c1", "contract_info", "addr1"))
	require.NoError(t, tx.Append("c2", "storage_change", ""))
	require.NoError(t, tx.Append("c3", "storage_change", ""))
	require.NoError(t, tx.Commit())
}

func TestLog_FindReturnsAppendedRow(t *testing.T) {
	log := openLog(t)
	append3(t, log)

	info, err := log.Find("c1")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "c1", info.CommitID)
	require.Equal(t, "contract_info", info.ChangeType)
	require.Equal(t, "addr1", info.ContractID)
	require.Positive(t, info.Seq)
}

func TestLog_FindReturnsNilForUnknownCommit(t *testing.T) {
	log := openLog(t)
	info, err := log.Find("missing")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestLog_TipReturnsHighestSequence(t *testing.T) {
	log := openLog(t)

	tip, err := log.Tip()
	require.NoError(t, err)
	require.Nil(t, tip)

	append3(t, log)
	tip, err = log.Tip()
	require.NoError(t, err)
	require.NotNil(t, tip)
	require.Equal(t, "c3", tip.CommitID)
}

func TestLog_AfterReturnsNewerRowsInReverseOrder(t *testing.T) {
	log := openLog(t)
	append3(t, log)

	first, err := log.Find("c1")
	require.NoError(t, err)

	tx, err := log.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	newer, err := tx.After(first.Seq)
	require.NoError(t, err)
	require.Len(t, newer, 2)
	require.Equal(t, "c3", newer[0].CommitID)
	require.Equal(t, "c2", newer[1].CommitID)

	all, err := tx.After(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "c3", all[0].CommitID)
	require.Equal(t, "c1", all[2].CommitID)
}

func TestLog_DeleteRemovesRow(t *testing.T) {
	log := openLog(t)
	append3(t, log)

	tx, err := log.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Delete("c2"))
	require.NoError(t, tx.Commit())

	info, err := log.Find("c2")
	require.NoError(t, err)
	require.Nil(t, info)

	tip, err := log.Tip()
	require.NoError(t, err)
	require.Equal(t, "c3", tip.CommitID)
}

func TestLog_RolledBackTransactionLeavesNoTrace(t *testing.T) {
	log := openLog(t)

	tx, err := log.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Append("c1", "contract_info", "addr1"))
	require.NoError(t, tx.Rollback())

	info, err := log.Find("c1")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestLog_SequenceKeepsGrowingAfterDelete(t *testing.T) {
	log := openLog(t)
	append3(t, log)

	tx, err := log.Begin()
	require.NoError(t, err)
	require.NoError(t, tx.Delete("c3"))
	require.NoError(t, tx.Append("c4", "storage_change", ""))
	require.NoError(t, tx.Commit())

	tip, err := log.Tip()
	require.NoError(t, err)
	require.Equal(t, "c4", tip.CommitID)

	second, err := log.Find("c2")
	require.NoError(t, err)
	require.Greater(t, tip.Seq, second.Seq)
}

func TestLog_ClearRemovesAllRows(t *testing.T) {
	log := openLog(t)
	append3(t, log)

	require.NoError(t, log.Clear())
	tip, err := log.Tip()
	require.NoError(t, err)
	require.Nil(t, tip)
}

func TestLog_CanKeepDataPersistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commits.db")

	log, err := Open(path)
	require.NoError(t, err)
	append3(t, log)
	require.NoError(t, log.Close())

	log, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = log.Close() }()

	tip, err := log.Tip()
	require.NoError(t, err)
	require.Equal(t, "c3", tip.CommitID)
}
