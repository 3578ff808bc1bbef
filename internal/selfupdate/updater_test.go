package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var linux = Platform{OS: "linux", Arch: "amd64"}

func TestPlatformAsset(t *testing.T) {
	tests := []struct {
		p       Platform
		want    string
		wantErr bool
	}{
		{Platform{"linux", "amd64"}, "careerfit_1.4.0_linux_amd64.tar.gz", false},
		{Platform{"linux", "arm64"}, "careerfit_1.4.0_linux_arm64.tar.gz", false},
		{Platform{"darwin", "arm64"}, "careerfit_1.4.0_darwin_all.tar.gz", false},
		{Platform{"darwin", "amd64"}, "careerfit_1.4.0_darwin_all.tar.gz", false},
		{Platform{"windows", "amd64"}, "careerfit_1.4.0_windows_amd64.zip", false},
		{Platform{"linux", "386"}, "", true},
		{Platform{"freebsd", "amd64"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.p.OS+"/"+tt.p.Arch, func(t *testing.T) {
			got, err := tt.p.Asset("v1.4.0")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUsesRepositoryAndChecksumPattern(t *testing.T) {
	c := NewChecker(
		WithRepository("acme/careerfit-fork"),
		WithDownloadBaseURL("https://mirror.example.com/"),
		WithChecksums("SHA256SUMS-{version}"),
		withPlatform(linux),
	)

	rel, err := c.Resolve(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "1.4.0"})
	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", rel.Tag)
	assert.Equal(t, "https://mirror.example.com/acme/careerfit-fork/releases/download/v1.4.0/careerfit_1.4.0_linux_amd64.tar.gz", rel.ArchiveURL)
	assert.Equal(t, "https://mirror.example.com/acme/careerfit-fork/releases/download/v1.4.0/SHA256SUMS-1.4.0", rel.ChecksumsURL)
}

func TestWithRepositoryIgnoresMalformed(t *testing.T) {
	c := NewChecker(WithRepository("careerfit"))
	assert.Equal(t, "abhisek", c.owner)
	assert.Equal(t, "careerfit", c.repo)
}

func TestParseChecksums(t *testing.T) {
	input := "ABC123  careerfit_1.4.0_linux_amd64.tar.gz\n" +
		"def456 *careerfit_1.4.0_windows_amd64.zip\n" +
		"garbage\n\n" +
		"a b c\n"
	assert.Equal(t, map[string]string{
		"careerfit_1.4.0_linux_amd64.tar.gz": "abc123",
		"careerfit_1.4.0_windows_amd64.zip":  "def456",
	}, parseChecksums([]byte(input)))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("careerfit")
	sum := sha256.Sum256(data)
	hexSum := hex.EncodeToString(sum[:])

	assert.NoError(t, verifyChecksum(data, hexSum))
	assert.NoError(t, verifyChecksum(data, upper(hexSum)))
	assert.ErrorIs(t, verifyChecksum(data, "00"), ErrChecksum)
}

func TestUnpack(t *testing.T) {
	bin := []byte("#!/bin/sh\necho careerfit")

	got, err := unpack(tarGz(t, "careerfit_1.4.0_linux_amd64/careerfit", bin), "x.tar.gz", "careerfit")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	got, err = unpack(zipped(t, "careerfit.exe", bin), "x.zip", "careerfit.exe")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = unpack(tarGz(t, "README.md", bin), "x.tar.gz", "careerfit")
	assert.ErrorContains(t, err, "careerfit not found")
}

func TestInstallKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "careerfit")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o750))

	require.NoError(t, install([]byte("new"), target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(target), ".careerfit-update-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

// releaseHost serves one careerfit release: latest tag, archive, checksums.
func releaseHost(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/abhisek/careerfit/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.com/` + tag + `"}`))
	})
	for name, data := range files {
		body := data
		mux.HandleFunc("/abhisek/careerfit/releases/download/"+tag+"/"+name, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdate(t *testing.T) {
	bin := []byte("careerfit 1.4.0")
	archive := tarGz(t, "careerfit", bin)
	sum := sha256.Sum256(archive)
	asset := "careerfit_1.4.0_linux_amd64.tar.gz"
	sums := []byte(hex.EncodeToString(sum[:]) + "  " + asset + "\n")

	newChecker := func(srv *httptest.Server, exe string, opts ...Option) *Checker {
		return NewChecker(append([]Option{
			WithBaseURL(srv.URL),
			WithDownloadBaseURL(srv.URL),
			withPlatform(linux),
			withExecPath(func() (string, error) { return exe, nil }),
		}, opts...)...)
	}

	t.Run("installs and logs each stage", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", map[string][]byte{
			asset:                           archive,
			"careerfit_1.4.0_checksums.txt": sums,
		})
		exe := filepath.Join(t.TempDir(), "careerfit")
		require.NoError(t, os.WriteFile(exe, []byte("careerfit 1.3.0"), 0o755))

		core, logs := observer.New(zapcore.DebugLevel)
		var stages []Stage
		err := newChecker(srv, exe, WithLogger(zap.New(core))).Update(context.Background(),
			&UpdateInput{CurrentVersion: "v1.3.0"},
			func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageInstall, StageDone}, stages)
		assert.Equal(t, len(stages), logs.FilterMessage("self-update").Len())
	})

	t.Run("development build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", nil)
		err := newChecker(srv, "unused").Update(context.Background(), &UpdateInput{CurrentVersion: "1.4.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("tampered archive", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", map[string][]byte{
			asset:                           append([]byte{}, archive[:len(archive)-1]...),
			"careerfit_1.4.0_checksums.txt": sums,
		})
		exe := filepath.Join(t.TempDir(), "careerfit")
		require.NoError(t, os.WriteFile(exe, []byte("careerfit 1.3.0"), 0o755))

		err := newChecker(srv, exe).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.3.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
		got, _ := os.ReadFile(exe)
		assert.Equal(t, "careerfit 1.3.0", string(got))
	})

	t.Run("asset missing from checksums", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", map[string][]byte{
			asset:                           archive,
			"careerfit_1.4.0_checksums.txt": []byte("abc  careerfit_1.4.0_darwin_all.tar.gz\n"),
		})
		err := newChecker(srv, "unused").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.3.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
		assert.ErrorContains(t, err, "no entry for "+asset)
	})

	t.Run("archive not published", func(t *testing.T) {
		srv := releaseHost(t, "v1.4.0", nil)
		err := newChecker(srv, "unused").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.3.0"}, nil)
		assert.ErrorContains(t, err, "download archive")
	})
}

func upper(s string) string {
	return string(bytes.ToUpper([]byte(s)))
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
