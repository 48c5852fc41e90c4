package bundle

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for i := range 20 {
		p := filepath.Join(dir, fmt.Sprintf("f%02d.vue", i))
		require.NoError(t, os.WriteFile(p, []byte(fmt.Sprintf("<p>%d</p>", i)), 0o644))
		paths = append(paths, p)
	}

	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			results := ReadAll(context.Background(), paths, workers)
			require.Len(t, results, len(paths))
			for i, r := range results {
				require.NoError(t, r.Err)
				assert.Equal(t, paths[i], r.Path)
				assert.Equal(t, fmt.Sprintf("<p>%d</p>", i), string(r.Data))
			}
		})
	}
}

func TestReadAll_FailureIsPerFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.vue")
	missing := filepath.Join(dir, "missing.vue")
	require.NoError(t, os.WriteFile(good, []byte("<div/>"), 0o644))

	results := ReadAll(context.Background(), []string{missing, good}, 2)
	require.Len(t, results, 2)

	require.Error(t, results[0].Err)
	assert.ErrorIs(t, results[0].Err, fs.ErrNotExist)
	assert.Contains(t, results[0].Err.Error(), "read "+missing)
	assert.Nil(t, results[0].Data)

	require.NoError(t, results[1].Err)
	assert.Equal(t, "<div/>", string(results[1].Data))
}

func TestReadAll_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.vue")
	require.NoError(t, os.WriteFile(p, []byte("<a/>"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ReadAll(ctx, []string{p}, 1)
	require.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestMatch(t *testing.T) {
	setupTree(t, map[string]string{
		"a/x.vue":     "",
		"a/b/y.vue":   "",
		"a/b/z.txt":   "",
		"a/dir.vue/w": "",
	})

	files, err := Match("a/**/*.vue")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join("a", "x.vue"),
		filepath.Join("a", "b", "y.vue"),
	}, files, "directories named *.vue are not matched")

	_, err = Match("nothing/*.vue")
	require.ErrorIs(t, err, ErrNoMatches)
}
