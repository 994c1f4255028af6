package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seebrasse345/linkedin-auto-apply/models"
)

func TestLedger_RecordOutcomeDeduplicates(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedgerService(dir)
	require.NoError(t, err)

	out := models.ApplicationOutcome{Status: models.StatusSuccess, Job: testJob("42")}
	require.NoError(t, ledger.RecordOutcome(out))
	require.NoError(t, ledger.RecordOutcome(out))

	data, err := os.ReadFile(filepath.Join(dir, "successful_applications.json"))
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal(data, &ids))
	assert.Equal(t, []string{"42"}, ids)
}

func TestLedger_OutcomeRouting(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedgerService(dir)
	require.NoError(t, err)

	require.NoError(t, ledger.RecordOutcome(models.ApplicationOutcome{
		Status: models.StatusSuccess, Job: testJob("s1"),
	}))
	require.NoError(t, ledger.RecordOutcome(models.ApplicationOutcome{
		Status: models.StatusFailure, Job: testJob("f1"),
	}))

	assert.True(t, ledger.AlreadyRecorded("s1"))
	assert.True(t, ledger.AlreadyRecorded("f1"))
	assert.False(t, ledger.AlreadyRecorded("unknown"))

	_, err = os.Stat(filepath.Join(dir, "failed_applications.json"))
	assert.NoError(t, err)
}

func TestLedger_RejectsOutcomeWithoutJobID(t *testing.T) {
	ledger, err := NewLedgerService(t.TempDir())
	require.NoError(t, err)

	err = ledger.RecordOutcome(models.ApplicationOutcome{Status: models.StatusFailure})
	assert.Error(t, err)
}

func TestLedger_SaveJobDescriptionWriteOnce(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedgerService(dir)
	require.NoError(t, err)

	job := testJob("77")
	job.Description = "First captured description"
	require.NoError(t, ledger.SaveJobDescription(job))

	job.Description = "Changed later"
	require.NoError(t, ledger.SaveJobDescription(job))

	data, err := os.ReadFile(filepath.Join(dir, "job_descriptions_applied.json"))
	require.NoError(t, err)

	var entries []map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "First captured description", entries[0]["description"])
}

func TestLedger_CorruptFileStartsOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "successful_applications.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	ledger, err := NewLedgerService(dir)
	require.NoError(t, err)

	assert.False(t, ledger.AlreadyRecorded("1"))
	require.NoError(t, ledger.RecordOutcome(models.ApplicationOutcome{
		Status: models.StatusSuccess, Job: testJob("1"),
	}))
	assert.True(t, ledger.AlreadyRecorded("1"))
}
