package kvstore

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/uvmlabs/contractstore/common"
)

func TestRestore_RewritesPresentKeysAndDeletesAbsentOnes(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	snapshot := NewMockSnapshot(ctrl)

	snapshot.EXPECT().Get([]byte("present")).Return([]byte("old"), nil)
	store.EXPECT().Put([]byte("present"), []byte("old")).Return(nil)
	snapshot.EXPECT().Get([]byte("absent")).Return(nil, ErrNotFound)
	store.EXPECT().Delete([]byte("absent")).Return(nil)

	err := Restore(store, snapshot, [][]byte{[]byte("present"), []byte("absent")})
	require.NoError(t, err)
}

func TestRestore_PropagatesSnapshotFailures(t *testing.T) {
	const failure = common.ConstError("disk gone")

	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	snapshot := NewMockSnapshot(ctrl)

	snapshot.EXPECT().Get([]byte("key")).Return(nil, failure)

	err := Restore(store, snapshot, [][]byte{[]byte("key")})
	require.ErrorIs(t, err, failure)
}

func TestRestore_PropagatesWriteFailures(t *testing.T) {
	const failure = common.ConstError("write failed")

	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	snapshot := NewMockSnapshot(ctrl)

	snapshot.EXPECT().Get([]byte("key")).Return([]byte("value"), nil)
	store.EXPECT().Put([]byte("key"), []byte("value")).Return(failure)

	err := Restore(store, snapshot, [][]byte{[]byte("key")})
	require.ErrorIs(t, err, failure)
}
