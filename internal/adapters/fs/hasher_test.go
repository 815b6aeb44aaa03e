package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rulerbuild.com/ruler/internal/adapters/fs"
	"rulerbuild.com/ruler/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHasher_FileDigest(t *testing.T) {
	dir := t.TempDir()
	h := fs.NewHasher()

	a := writeFile(t, dir, "a.txt", "hello")
	b := writeFile(t, dir, "b.txt", "hello")
	c := writeFile(t, dir, "c.txt", "world")

	da, err := h.FileDigest(a)
	require.NoError(t, err)
	db, err := h.FileDigest(b)
	require.NoError(t, err)
	dc, err := h.FileDigest(c)
	require.NoError(t, err)

	assert.Equal(t, da, db, "identical content must digest identically")
	assert.NotEqual(t, da, dc, "different content must digest differently")

	_, err = h.FileDigest(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestHasher_RuleFingerprint(t *testing.T) {
	dir := t.TempDir()
	h := fs.NewHasher()

	src := writeFile(t, dir, "a.c", "int main() {}")
	target := domain.NewInternedString(filepath.Join(dir, "out"))

	base := &domain.Rule{
		Targets: []domain.InternedString{target},
		Sources: []domain.InternedString{domain.NewInternedString(src)},
		Command: []string{"cc", src, "-o", "out"},
	}

	fp1, err := h.RuleFingerprint(base, target)
	require.NoError(t, err)
	fp2, err := h.RuleFingerprint(base, target)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2, "fingerprint must be deterministic")
	assert.Len(t, fp1.String(), 16)

	t.Run("sensitive to command", func(t *testing.T) {
		changed := *base
		changed.Command = []string{"cc", "-O2", src, "-o", "out"}
		fp, err := h.RuleFingerprint(&changed, target)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp)
	})

	t.Run("sensitive to target identity", func(t *testing.T) {
		other := domain.NewInternedString(filepath.Join(dir, "other"))
		fp, err := h.RuleFingerprint(base, other)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp)
	})

	t.Run("sensitive to source content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(src, []byte("int main() { return 1; }"), 0o644))
		fp, err := h.RuleFingerprint(base, target)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp)

		// Reverting the content restores the original fingerprint.
		require.NoError(t, os.WriteFile(src, []byte("int main() {}"), 0o644))
		fp, err = h.RuleFingerprint(base, target)
		require.NoError(t, err)
		assert.Equal(t, fp1, fp)
	})

	t.Run("missing source", func(t *testing.T) {
		broken := *base
		broken.Sources = []domain.InternedString{domain.NewInternedString(filepath.Join(dir, "gone.c"))}
		_, err := h.RuleFingerprint(&broken, target)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingSource)
	})
}
