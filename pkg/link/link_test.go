package link_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectborealis/pbget/pkg/link"
)

func makePayload(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name, "Binaries")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "module.dll"), []byte(name), 0644))
	return dir
}

func readThrough(t *testing.T, dest string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dest, "module.dll"))
	require.NoError(t, err)
	return string(data)
}

func TestReplaceLink(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root, dest string)
	}{
		{
			name:  "nothing at destination",
			setup: func(t *testing.T, root, dest string) {},
		},
		{
			name: "existing link",
			setup: func(t *testing.T, root, dest string) {
				old := makePayload(t, root, "Old.1.0.0")
				require.NoError(t, link.New(nil).ReplaceLink(old, dest))
			},
		},
		{
			name: "populated real directory",
			setup: func(t *testing.T, root, dest string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dest, "sub"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dest, "sub", "stale.dll"), []byte("x"), 0644))
			},
		},
		{
			name: "regular file",
			setup: func(t *testing.T, root, dest string) {
				require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
				require.NoError(t, os.WriteFile(dest, []byte("x"), 0644))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dest := filepath.Join(root, "Plugin", "Binaries")
			target := makePayload(t, root, "New.2.0.0")
			tt.setup(t, root, dest)

			m := link.New(nil)
			require.NoError(t, m.ReplaceLink(target, dest))

			ok, err := m.Resolves(dest, target)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "New.2.0.0", readThrough(t, dest))
			assert.NoFileExists(t, filepath.Join(dest, "sub", "stale.dll"))
		})
	}
}

func TestReplaceLinkKeepsOldTargetContents(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "Plugin", "Binaries")
	old := makePayload(t, root, "Old.1.0.0")
	target := makePayload(t, root, "New.2.0.0")

	m := link.New(nil)
	require.NoError(t, m.ReplaceLink(old, dest))
	require.NoError(t, m.ReplaceLink(target, dest))

	assert.FileExists(t, filepath.Join(old, "module.dll"))
}

func TestReplaceLinkMissingTarget(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "Binaries")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "keep.dll"), []byte("x"), 0644))

	err := link.New(nil).ReplaceLink(filepath.Join(root, "missing"), dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.FileExists(t, filepath.Join(dest, "keep.dll"))
}

func TestRemoveLink(t *testing.T) {
	t.Run("link keeps target", func(t *testing.T) {
		root := t.TempDir()
		dest := filepath.Join(root, "Binaries")
		target := makePayload(t, root, "Pkg.1.0.0")
		m := link.New(nil)
		require.NoError(t, m.ReplaceLink(target, dest))

		require.NoError(t, m.RemoveLink(dest))
		assert.NoDirExists(t, dest)
		assert.FileExists(t, filepath.Join(target, "module.dll"))
	})

	t.Run("real directory is purged", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "Binaries")
		require.NoError(t, os.MkdirAll(dest, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dest, "a.dll"), []byte("x"), 0644))

		require.NoError(t, link.New(nil).RemoveLink(dest))
		assert.NoDirExists(t, dest)
	})

	t.Run("missing is a no-op", func(t *testing.T) {
		assert.NoError(t, link.New(nil).RemoveLink(filepath.Join(t.TempDir(), "Binaries")))
	})
}

func TestRemoveDanglingLink(t *testing.T) {
	t.Run("removes link", func(t *testing.T) {
		root := t.TempDir()
		dest := filepath.Join(root, "Binaries")
		target := makePayload(t, root, "Pkg.1.0.0")
		m := link.New(nil)
		require.NoError(t, m.ReplaceLink(target, dest))
		require.NoError(t, os.RemoveAll(filepath.Join(root, "Pkg.1.0.0")))

		require.NoError(t, m.RemoveDanglingLink(dest))
		_, err := os.Lstat(dest)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("never touches real data", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "Binaries")
		require.NoError(t, os.MkdirAll(dest, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dest, "a.dll"), []byte("x"), 0644))

		require.NoError(t, link.New(nil).RemoveDanglingLink(dest))
		assert.FileExists(t, filepath.Join(dest, "a.dll"))
	})
}

func TestResolves(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "Binaries")
	a := makePayload(t, root, "Pkg.1.0.0")
	b := makePayload(t, root, "Pkg.2.0.0")
	m := link.New(nil)

	ok, err := m.Resolves(dest, a)
	require.NoError(t, err)
	assert.False(t, ok, "missing destination")

	require.NoError(t, m.ReplaceLink(a, dest))

	ok, err = m.Resolves(dest, a)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Resolves(dest, b)
	require.NoError(t, err)
	assert.False(t, ok, "points elsewhere")

	require.NoError(t, os.RemoveAll(filepath.Join(root, "Pkg.1.0.0")))
	ok, err = m.Resolves(dest, a)
	require.NoError(t, err)
	assert.False(t, ok, "dangling")
}
