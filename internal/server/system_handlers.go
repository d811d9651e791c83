package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dugoutapp/dugout/internal/ledger"
	"github.com/dugoutapp/dugout/internal/reliability"
)

// SystemHandlers handles system monitoring and maintenance endpoints.
type SystemHandlers struct {
	log     zerolog.Logger
	dataDir string
	backups *reliability.BackupService
	ledger  *ledger.Service
}

func NewSystemHandlers(log zerolog.Logger, dataDir string, backups *reliability.BackupService, svc *ledger.Service) *SystemHandlers {
	return &SystemHandlers{
		log:     log.With().Str("handler", "system").Logger(),
		dataDir: dataDir,
		backups: backups,
		ledger:  svc,
	}
}

// SystemStatusResponse is the body of GET /api/system/status.
type SystemStatusResponse struct {
	Status          string  `json:"status"`
	CPUPercent      float64 `json:"cpuPercent"`
	MemoryPercent   float64 `json:"memoryPercent"`
	Games           int     `json:"games"`
	Recommendations int     `json:"recommendations"`
	Bets            int     `json:"bets"`
	BankrollSet     bool    `json:"bankrollSet"`
}

// HandleSystemStatus returns process health and collection counts.
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := h.getSystemStats()
	_, bankrollSet := h.ledger.GetBankroll()

	resp := SystemStatusResponse{
		Status:          "ok",
		CPUPercent:      cpuPct,
		MemoryPercent:   memPct,
		Games:           len(h.ledger.ListGames()),
		Recommendations: len(h.ledger.ListRecommendations()),
		Bets:            len(h.ledger.ListBets()),
		BankrollSet:     bankrollSet,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode status response")
	}
}

// DiskUsageResponse is the body of GET /api/system/disk.
type DiskUsageResponse struct {
	DataDirMB      float64 `json:"dataDirMb"`
	PartitionTotal uint64  `json:"partitionTotalBytes"`
	PartitionFree  uint64  `json:"partitionFreeBytes"`
	PartitionUsed  float64 `json:"partitionUsedPercent"`
}

// HandleDiskUsage returns the size of the data directory and usage of the
// partition it lives on.
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	resp := DiskUsageResponse{
		DataDirMB: h.getDirSize(h.dataDir),
	}

	if usage, err := disk.Usage(h.dataDir); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get partition usage")
	} else {
		resp.PartitionTotal = usage.Total
		resp.PartitionFree = usage.Free
		resp.PartitionUsed = usage.UsedPercent
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode disk usage response")
	}
}

// HandleListBackups returns the archives on disk, newest first.
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Backups are not configured", http.StatusServiceUnavailable)
		return
	}

	backups, err := h.backups.ListBackups()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		http.Error(w, "Failed to list backups", http.StatusInternalServerError)
		return
	}
	if backups == nil {
		backups = []reliability.BackupInfo{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(backups); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode backups response")
	}
}

// HandleTriggerBackup runs a backup in the background.
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Backups are not configured", http.StatusServiceUnavailable)
		return
	}

	go func() {
		if _, err := h.backups.CreateBackup(); err != nil {
			h.log.Error().Err(err).Msg("Manual backup failed")
			return
		}
		if err := h.backups.RotateOldBackups(); err != nil {
			h.log.Error().Err(err).Msg("Backup rotation failed")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "backup started"}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode backup response")
	}
}

// HandleRestoreBackup overwrites the data files from a named archive and
// reloads the ledger. Synchronous: the caller needs to know whether the
// restore took effect before issuing further writes.
func (h *SystemHandlers) HandleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Backups are not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Archive string `json:"archive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Archive == "" {
		http.Error(w, "Request body must name an archive", http.StatusBadRequest)
		return
	}
	// Archive names come from ListBackups; reject anything path-like.
	if filepath.Base(req.Archive) != req.Archive {
		http.Error(w, "Invalid archive name", http.StatusBadRequest)
		return
	}

	if err := h.backups.RestoreBackup(req.Archive); err != nil {
		h.log.Error().Err(err).Str("archive", req.Archive).Msg("Restore failed")
		http.Error(w, "Restore failed", http.StatusUnprocessableEntity)
		return
	}

	if err := h.ledger.Reload(); err != nil {
		h.log.Error().Err(err).Msg("Reload after restore failed")
		http.Error(w, "Restore applied but reload failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "restore complete"}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode restore response")
	}
}

// getSystemStats samples CPU over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	return cpuPercent[0], memStat.UsedPercent
}

// getDirSize returns the total size of a directory in MB.
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}
