package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// binaryName is the executable inside release archives.
const binaryName = "careerfit"

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrUnsupported   = errors.New("no release build for this platform")
)

// Stage names a step of Update, in the order they run.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageInstall  Stage = "install"
	StageDone     Stage = "done"
)

type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

type UpdateProgress struct {
	Stage   Stage
	Message string
}

// Platform is an OS/architecture pair in Go's naming.
type Platform struct {
	OS   string
	Arch string
}

// archiveExt returns the release archive extension for the OS.
func (p Platform) archiveExt() string {
	if p.OS == "windows" {
		return ".zip"
	}
	return ".tar.gz"
}

// exe returns the executable name inside the archive.
func (p Platform) exe() string {
	if p.OS == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// Asset returns the archive name published for version, e.g.
// careerfit_1.4.0_linux_amd64.tar.gz. macOS ships one universal build.
func (p Platform) Asset(version string) (string, error) {
	arch := p.Arch
	switch p.OS {
	case "darwin":
		arch = "all"
	case "linux", "windows":
		if arch != "amd64" && arch != "arm64" {
			return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, p.OS, p.Arch)
		}
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, p.OS, p.Arch)
	}
	return fmt.Sprintf("%s_%s_%s_%s%s", binaryName, strings.TrimPrefix(version, "v"), p.OS, arch, p.archiveExt()), nil
}

// Release is a resolved download for one platform.
type Release struct {
	Tag          string
	Asset        string
	ArchiveURL   string
	ChecksumsURL string
	ChecksumFile string
}

// Resolve picks the release tag (the latest one unless input names one) and
// the asset URLs for the checker's platform.
func (c *Checker) Resolve(ctx context.Context, input *UpdateInput) (*Release, error) {
	tag := input.TargetVersion
	if tag == "" {
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return nil, fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return nil, ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}
	tag = canonical(tag)

	asset, err := c.platform.Asset(tag)
	if err != nil {
		return nil, err
	}
	sums := strings.ReplaceAll(c.checksums, "{version}", strings.TrimPrefix(tag, "v"))
	return &Release{
		Tag:          tag,
		Asset:        asset,
		ArchiveURL:   c.downloadURL(tag, asset),
		ChecksumsURL: c.downloadURL(tag, sums),
		ChecksumFile: sums,
	}, nil
}

func (c *Checker) downloadURL(tag, file string) string {
	base := strings.TrimRight(c.downloadBaseURL, "/")
	return base + "/" + path.Join(c.owner, c.repo, "releases", "download", tag, file)
}

// Update installs a newer careerfit over the running executable. The archive
// must match its entry in the release checksums.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	report := func(s Stage, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		c.log.Debug("self-update", zap.String("stage", string(s)), zap.String("detail", msg))
		if progress != nil {
			progress(UpdateProgress{Stage: s, Message: msg})
		}
	}
	if input.CurrentVersion == devVersion || input.CurrentVersion == "" {
		return ErrDevBuild
	}

	report(StageCheck, "Looking for a newer careerfit release...")
	rel, err := c.Resolve(ctx, input)
	if err != nil {
		return err
	}

	report(StageDownload, "Downloading %s (%s)...", rel.Tag, rel.Asset)
	archive, err := c.fetch(ctx, rel.ArchiveURL)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	sumsData, err := c.fetch(ctx, rel.ChecksumsURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", rel.ChecksumFile, err)
	}

	report(StageVerify, "Verifying %s...", rel.Asset)
	want, ok := parseChecksums(sumsData)[rel.Asset]
	if !ok {
		return fmt.Errorf("%w: %s lists no entry for %s", ErrChecksum, rel.ChecksumFile, rel.Asset)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	report(StageExtract, "Unpacking %s...", c.platform.exe())
	bin, err := unpack(archive, rel.Asset, c.platform.exe())
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	report(StageInstall, "Installing to %s...", target)
	if err := install(bin, target); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	report(StageDone, "careerfit is now %s", rel.Tag)
	return nil
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("fetched release file", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

// parseChecksums reads sha256sum output. A leading "*" on the file name
// (binary mode) is dropped.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(data []byte, want string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != strings.ToLower(want) {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, want, got)
	}
	return nil
}

// unpack returns the regular file named exe from a .tar.gz or .zip archive.
func unpack(archive []byte, asset, exe string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		for _, f := range zr.File {
			if path.Base(f.Name) != exe || f.FileInfo().IsDir() {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
		return nil, fmt.Errorf("%s not found in %s", exe, asset)
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s not found in %s", exe, asset)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == exe {
			return io.ReadAll(tr)
		}
	}
}

// install replaces target with bin, keeping target's permissions. The new
// file is written next to target, re-read and checked, then renamed over it.
func install(bin []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(bin) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
