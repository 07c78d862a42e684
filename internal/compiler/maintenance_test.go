package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaintainCompilesMultipleSchemasConcurrently(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, id := range []string{"schema_a", "schema_b", "schema_c"} {
		path := filepath.Join(dir, id+".dict.yaml")
		require.NoError(t, os.WriteFile(path, []byte(pinyinDictYAML), 0o644))
		jobs = append(jobs, Job{SchemaID: id, DictFiles: []string{path}, OutputDir: filepath.Join(dir, "build")})
	}

	results, err := Maintain(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, id := range []string{"schema_a", "schema_b", "schema_c"} {
		require.NotNil(t, results[id])
	}
}

func TestMaintainPropagatesFirstError(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		{SchemaID: "missing", DictFiles: []string{filepath.Join(dir, "nope.dict.yaml")}, OutputDir: dir},
	}
	_, err := Maintain(context.Background(), jobs)
	require.Error(t, err)
}
