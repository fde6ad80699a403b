package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-node/internal/identity"
)

// fakeIndicator 记录指示灯状态
type fakeIndicator struct {
	on bool
}

func (f *fakeIndicator) Set(on bool) { f.on = on }

func TestStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	store := identity.NewStore(path, zap.NewNop())

	saved := &identity.TrackedIdentity{Address: "11:22:33:44:55:66", Name: "Pixel 7"}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Address, loaded.Address)
	assert.Equal(t, saved.Name, loaded.Name)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := identity.NewStore(filepath.Join(t.TempDir(), "missing.yaml"), zap.NewNop())

	// 文件不存在不是错误：尚未学习过任何身份
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	store := identity.NewStore(path, zap.NewNop())

	require.NoError(t, store.Save(&identity.TrackedIdentity{Address: "11:22:33:44:55:66"}))
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// 重复清除不报错
	require.NoError(t, store.Clear())
}

func TestLearner_ToggleClearsIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	store := identity.NewStore(path, zap.NewNop())
	require.NoError(t, store.Save(&identity.TrackedIdentity{Address: "11:22:33:44:55:66"}))

	ind := &fakeIndicator{}
	learner := identity.NewLearner(store, ind, zap.NewNop())

	require.NoError(t, learner.Toggle())
	assert.True(t, learner.Active())
	assert.True(t, ind.on)

	// 进入学习模式清除已保存身份
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// 再次按钮手动退出
	require.NoError(t, learner.Toggle())
	assert.False(t, learner.Active())
	assert.False(t, ind.on)
}

func TestLearner_CaptureExitsLearning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	store := identity.NewStore(path, zap.NewNop())
	ind := &fakeIndicator{}
	learner := identity.NewLearner(store, ind, zap.NewNop())

	require.NoError(t, learner.Toggle())
	require.True(t, learner.Active())

	id, err := learner.Capture("11:22:33:44:55:66", "Pixel 7")
	require.NoError(t, err)
	assert.Equal(t, "11:22:33:44:55:66", id.Address)

	// 捕获成功后自动退出学习模式并持久化
	assert.False(t, learner.Active())
	assert.False(t, ind.on)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Pixel 7", loaded.Name)
}
