package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/reliability"
)

// BackupJob archives the data directory and prunes old archives.
type BackupJob struct {
	backups *reliability.BackupService
	log     zerolog.Logger
}

func NewBackupJob(backups *reliability.BackupService, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backups: backups,
		log:     log.With().Str("job", "backup").Logger(),
	}
}

func (j *BackupJob) Name() string {
	return "backup"
}

func (j *BackupJob) Run() error {
	if _, err := j.backups.CreateBackup(); err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	if err := j.backups.RotateOldBackups(); err != nil {
		return fmt.Errorf("rotating backups: %w", err)
	}
	return nil
}
