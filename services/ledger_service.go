package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const (
	successLedgerFile = "successful_applications.json"
	failedLedgerFile  = "failed_applications.json"
	descriptionsFile  = "job_descriptions_applied.json"
)

// LedgerService owns the on-disk application ledgers: an append-only,
// id-deduplicated list of successful job ids, the same for failed ids,
// and a write-once job-description archive keyed by id.
type LedgerService struct {
	dataDir string
	mu      sync.Mutex
}

func NewLedgerService(dataDir string) (*LedgerService, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &LedgerService{dataDir: dataDir}, nil
}

// RecordOutcome appends the job id to the ledger matching the outcome
// status. A given id is stored at most once per ledger regardless of how
// many times it is reported.
func (l *LedgerService) RecordOutcome(out models.ApplicationOutcome) error {
	if out.Job == nil || out.Job.ID == "" {
		return fmt.Errorf("outcome has no job id")
	}

	file := failedLedgerFile
	if out.Status == models.StatusSuccess {
		file = successLedgerFile
	}
	return l.appendID(filepath.Join(l.dataDir, file), out.Job.ID)
}

// AlreadyRecorded reports whether the job id appears in either ledger.
func (l *LedgerService) AlreadyRecorded(jobID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, file := range []string{successLedgerFile, failedLedgerFile} {
		ids := readIDList(filepath.Join(l.dataDir, file))
		for _, id := range ids {
			if id == jobID {
				return true
			}
		}
	}
	return false
}

func (l *LedgerService) appendID(path, jobID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	flk := flock.New(path + ".lock")
	if err := flk.Lock(); err != nil {
		return fmt.Errorf("lock ledger %s: %w", path, err)
	}
	defer func() { _ = flk.Unlock() }()

	ids := readIDList(path)
	for _, id := range ids {
		if id == jobID {
			utils.Log.Infof("Job %s already in %s", jobID, filepath.Base(path))
			return nil
		}
	}
	ids = append(ids, jobID)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger %s: %w", path, err)
	}
	utils.Log.Infof("Recorded job %s in %s (total: %d)", jobID, filepath.Base(path), len(ids))
	return nil
}

type jobDescriptionEntry struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// SaveJobDescription archives the description of an applied-to job.
// Write-once: an id already present is left untouched.
func (l *LedgerService) SaveJobDescription(job *models.JobContext) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job has no id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.dataDir, descriptionsFile)
	flk := flock.New(path + ".lock")
	if err := flk.Lock(); err != nil {
		return fmt.Errorf("lock descriptions file: %w", err)
	}
	defer func() { _ = flk.Unlock() }()

	var entries []jobDescriptionEntry
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			utils.Log.Warnf("Descriptions file %s is corrupt, starting over: %v", path, err)
			entries = nil
		}
	}

	for _, e := range entries {
		if e.JobID == job.ID {
			return nil
		}
	}

	entries = append(entries, jobDescriptionEntry{
		JobID:       job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Description: job.Description,
		Timestamp:   time.Now().Format(time.RFC3339),
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode descriptions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write descriptions file: %w", err)
	}
	utils.Log.Infof("Archived job description for %s at %s (id %s)", job.Title, job.Company, job.ID)
	return nil
}

func readIDList(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		utils.Log.Warnf("Ledger %s is corrupt, starting over: %v", path, err)
		return nil
	}
	return ids
}
