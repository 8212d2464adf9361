package properties

import (
	"testing"

	"github.com/hupe1980/meshid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("storage=s3:Bucket=Meshes::id_width = 32")
	require.NoError(t, err)

	assert.Equal(t, []string{"BUCKET", "ID_WIDTH", "STORAGE"}, p.Keys())
	assert.Equal(t, "s3", p.String("STORAGE", ""))
	assert.Equal(t, "Meshes", p.String("bucket", ""))
	assert.Equal(t, "32", p.String("Id_Width", ""))
	assert.Equal(t, "memory", p.String("PREFIX_MISSING", "memory"))
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, p)
}

func TestParse_Malformed(t *testing.T) {
	tests := []string{
		"STORAGE",
		"STORAGE=memory:SECURE",
		"=memory",
		"A=B=C",
	}

	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			_, err := Parse(tt)
			require.Error(t, err)
			assert.ErrorIs(t, err, meshid.ErrConfiguration)

			var pe *Error
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestBool(t *testing.T) {
	p, err := Parse("A=true:B=No:C=ON:D=off:E=maybe")
	require.NoError(t, err)

	for key, want := range map[string]bool{"A": true, "B": false, "C": true, "D": false} {
		got, err := p.Bool(key, !want)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	got, err := p.Bool("MISSING", true)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = p.Bool("E", false)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "E", pe.Key)
	assert.Equal(t, "maybe", pe.Value)
}

func TestInt(t *testing.T) {
	p, err := Parse("MAX_WORKERS=8:IO_LIMIT_BYTES=lots")
	require.NoError(t, err)

	n, err := p.Int("max_workers", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	n, err = p.Int("MEMORY_LIMIT_BYTES", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = p.Int("IO_LIMIT_BYTES", 0)
	assert.ErrorIs(t, err, meshid.ErrConfiguration)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "STORAGE=local:ROOT=/tmp/meshid")

	p, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "local", p.String("STORAGE", ""))
	assert.Equal(t, "/tmp/meshid", p.String("ROOT", ""))

	t.Setenv(EnvVar, "broken")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	env := Properties{"STORAGE": "s3", "BUCKET": "env"}
	explicit := Properties{"BUCKET": "explicit"}

	merged := env.Merge(explicit)
	assert.Equal(t, "s3", merged.String("STORAGE", ""))
	assert.Equal(t, "explicit", merged.String("BUCKET", ""))
	assert.Equal(t, "env", env.String("BUCKET", ""))
}

func TestEncode(t *testing.T) {
	p := make(Properties)
	p.Set("storage", "minio")
	p.Set("secure", "off")

	assert.Equal(t, "SECURE=off:STORAGE=minio", p.Encode())

	back, err := Parse(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
