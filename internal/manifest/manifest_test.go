package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "uicheck.yaml", `
name: soundboard-ui
dir: src/components/ui
preset: shadcn
files:
  - sound-card.tsx
remote:
  endpoint: minio.local:9000
  bucket: builds
  prefix: ui/
  secure: false
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "soundboard-ui", m.Name)
	assert.Equal(t, filepath.Join(dir, "src/components/ui"), m.Dir)
	require.NotNil(t, m.Remote)
	assert.Equal(t, "builds", m.Remote.Bucket)
	assert.False(t, m.Remote.UseTLS())

	files, err := m.Expected()
	require.NoError(t, err)
	assert.Len(t, files, 50)
	assert.Equal(t, "accordion.tsx", files[0])
	assert.Equal(t, "sound-card.tsx", files[49])

	require.NoError(t, m.Validate(false))
	require.NoError(t, m.Validate(true))
}

func TestLoadAbsoluteDirKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "ui")
	path := writeFile(t, t.TempDir(), "m.yaml", "dir: "+abs+"\n")

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, m.Dir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "bad.yaml", "files: [unterminated\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		remote  bool
		wantErr bool
	}{
		{name: "ok", m: Manifest{Dir: "ui", Files: []string{"a.tsx"}}},
		{name: "no dir", m: Manifest{Files: []string{"a.tsx"}}, wantErr: true},
		{name: "nested name", m: Manifest{Dir: "ui", Files: []string{"ui/a.tsx"}}, wantErr: true},
		{name: "windows nested name", m: Manifest{Dir: "ui", Files: []string{`ui\a.tsx`}}, wantErr: true},
		{name: "dot dot", m: Manifest{Dir: "ui", Files: []string{".."}}, wantErr: true},
		{name: "empty name", m: Manifest{Dir: "ui", Files: []string{""}}, wantErr: true},
		{name: "unknown preset", m: Manifest{Dir: "ui", Preset: "material"}, wantErr: true},
		{name: "remote without section", m: Manifest{Dir: "ui"}, remote: true, wantErr: true},
		{name: "remote without bucket", m: Manifest{Remote: &Remote{Endpoint: "e"}}, remote: true, wantErr: true},
		{name: "remote ok without dir", m: Manifest{Remote: &Remote{Endpoint: "e", Bucket: "b"}}, remote: true},
		{name: "empty list allowed", m: Manifest{Dir: "ui"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate(tt.remote)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "expected.txt", "# components\nbutton.tsx\n\n  card.tsx  \n#dialog.tsx\nuse-toast.ts\n")

	names, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"button.tsx", "card.tsx", "use-toast.ts"}, names)
}

func TestReadListCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "expected.csv", "file,owner\nbutton.tsx,design\ncard.tsx\n")

	names, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"button.tsx", "card.tsx"}, names)
}

func TestReadListMissing(t *testing.T) {
	_, err := ReadList(filepath.Join(t.TempDir(), "none.txt"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"shadcn"}, PresetNames())

	files, ok := Preset(DefaultPreset)
	require.True(t, ok)
	assert.Len(t, files, 49)
	files[0] = "changed"
	again, _ := Preset(DefaultPreset)
	assert.Equal(t, "accordion.tsx", again[0])

	_, ok = Preset("unknown")
	assert.False(t, ok)
}
