// Package reliability provides local backup and restore tooling for the
// data directory.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/storage"
)

// BackupService archives the data directory into timestamped tar.gz files.
type BackupService struct {
	dataDir   string
	backupDir string
	retain    int
	log       zerolog.Logger
}

// BackupMetadata describes the contents of one archive.
type BackupMetadata struct {
	Timestamp time.Time      `json:"timestamp"`
	Files     []FileMetadata `json:"files"`
}

// FileMetadata describes a single data file inside an archive.
type FileMetadata struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo summarizes an archive on disk.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// NewBackupService creates a backup service. retain is the number of
// archives kept after rotation; older ones are pruned.
func NewBackupService(dataDir, backupDir string, retain int, log zerolog.Logger) *BackupService {
	return &BackupService{
		dataDir:   dataDir,
		backupDir: backupDir,
		retain:    retain,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

const archivePrefix = "dugout-backup-"

// CreateBackup archives every data file present in the data directory plus
// a checksum manifest. Missing files are skipped: a store that has never
// persisted bets simply has no bets.json yet.
func (s *BackupService) CreateBackup() (string, error) {
	s.log.Info().Msg("Starting backup")
	startTime := time.Now()

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	metadata := BackupMetadata{Timestamp: time.Now().UTC()}
	var present []string

	for _, name := range storage.DataFiles() {
		path := filepath.Join(s.dataDir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to stat %s: %w", name, err)
		}

		checksum, err := checksumFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to checksum %s: %w", name, err)
		}

		present = append(present, name)
		metadata.Files = append(metadata.Files, FileMetadata{
			Filename:  name,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		})
	}

	if len(present) == 0 {
		return "", fmt.Errorf("no data files to back up in %s", s.dataDir)
	}

	archiveName := archivePrefix + time.Now().Format("2006-01-02-150405") + ".tar.gz"
	archivePath := filepath.Join(s.backupDir, archiveName)

	if err := s.writeArchive(archivePath, present, metadata); err != nil {
		os.Remove(archivePath)
		return "", err
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("size_bytes", info.Size()).
		Int("files", len(present)).
		Msg("Backup completed")

	return archivePath, nil
}

// ListBackups returns the archives in the backup directory, newest first.
func (s *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	now := time.Now()

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, ".tar.gz") {
			continue
		}

		stampStr := strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), ".tar.gz")
		stamp, err := time.Parse("2006-01-02-150405", stampStr)
		if err != nil {
			s.log.Warn().Str("filename", name).Msg("Failed to parse timestamp from filename")
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		backups = append(backups, BackupInfo{
			Filename:  name,
			Timestamp: stamp,
			SizeBytes: size,
			AgeHours:  int64(now.Sub(stamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// RotateOldBackups prunes archives beyond the retention count, newest kept.
func (s *BackupService) RotateOldBackups() error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}

	if s.retain <= 0 || len(backups) <= s.retain {
		return nil
	}

	deleted := 0
	for _, backup := range backups[s.retain:] {
		if err := os.Remove(filepath.Join(s.backupDir, backup.Filename)); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		s.log.Info().Str("filename", backup.Filename).Msg("Deleted old backup")
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Backup rotation completed")

	return nil
}

// RestoreBackup extracts an archive's data files into the data directory,
// overwriting what is there. Each file is verified against the manifest
// checksum before anything is written; a bad archive restores nothing.
func (s *BackupService) RestoreBackup(archiveName string) error {
	archivePath := filepath.Join(s.backupDir, archiveName)
	contents, err := readArchiveContents(archivePath)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	manifestData, ok := contents["backup-metadata.json"]
	if !ok {
		return fmt.Errorf("archive %s has no manifest", archiveName)
	}

	var metadata BackupMetadata
	if err := json.Unmarshal(manifestData, &metadata); err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	for _, fm := range metadata.Files {
		data, ok := contents[fm.Filename]
		if !ok {
			return fmt.Errorf("archive is missing %s", fm.Filename)
		}
		if sum := fmt.Sprintf("sha256:%x", sha256.Sum256(data)); sum != fm.Checksum {
			return fmt.Errorf("checksum mismatch for %s", fm.Filename)
		}
	}

	for _, fm := range metadata.Files {
		path := filepath.Join(s.dataDir, fm.Filename)
		if err := os.WriteFile(path, contents[fm.Filename], 0644); err != nil {
			return fmt.Errorf("failed to restore %s: %w", fm.Filename, err)
		}
	}

	s.log.Info().
		Str("archive", archiveName).
		Int("files", len(metadata.Files)).
		Msg("Backup restored")

	return nil
}

func readArchiveContents(archivePath string) (map[string][]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	contents := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		contents[filepath.Base(header.Name)] = data
	}
	return contents, nil
}

func (s *BackupService) writeArchive(archivePath string, files []string, metadata BackupMetadata) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	manifest, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := writeTarBytes(tarWriter, "backup-metadata.json", manifest, metadata.Timestamp); err != nil {
		return fmt.Errorf("failed to add manifest to archive: %w", err)
	}

	for _, name := range files {
		if err := addFileToArchive(tarWriter, filepath.Join(s.dataDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	return nil
}

func writeTarBytes(tw *tar.Writer, name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Size:    int64(len(data)),
		Mode:    0644,
		ModTime: modTime,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

func addFileToArchive(tw *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tw, file)
	return err
}

func checksumFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
