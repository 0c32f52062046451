package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sellbot/internal/model"
	"github.com/roach88/sellbot/internal/store"
	"github.com/roach88/sellbot/internal/vault"
)

func writeDataFile(t *testing.T) string {
	t.Helper()
	v, err := vault.FromEncodedKey(testKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.json")
	doc := model.NewDocument()
	doc.Products["p1"] = &model.Product{
		Price: "10", Username: "alice", Password: "hunter2", Secret: "S3CR3T",
		Name: "Gold", Buyers: []int64{42, 7},
	}
	doc.Products["p2"] = &model.Product{Price: "5", Username: "bob", Password: "pw", Buyers: []int64{}}
	doc.Pending = append(doc.Pending, model.PurchaseRequest{
		ID: "01HQ", UserID: 9, ProductID: "p2", ProofRef: "file-1",
		SubmittedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	doc.Languages["42"] = "fa"
	require.NoError(t, store.New(path, v).Save(context.Background(), doc))
	return path
}

func dumpOptions() *RootOptions {
	return &RootOptions{Lookup: envLookup(map[string]string{"ENCRYPTION_KEY": testKey})}
}

func TestDump_TextMasksCredentials(t *testing.T) {
	path := writeDataFile(t)

	out, _, err := execute(t, dumpOptions(), "dump", "--data-file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Data file: "+path)
	assert.Contains(t, out, "PRODUCT")
	assert.Contains(t, out, "Gold")
	assert.Contains(t, out, "42,7")
	assert.Contains(t, out, "****")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "S3CR3T")
	assert.Contains(t, out, "Pending requests: 1")
	assert.Contains(t, out, "2024-03-01 12:00")
	assert.Contains(t, out, "Language preferences: 1")
}

func TestDump_Reveal(t *testing.T) {
	path := writeDataFile(t)

	out, _, err := execute(t, dumpOptions(), "dump", "--data-file", path, "--reveal")
	require.NoError(t, err)

	assert.Contains(t, out, "hunter2")
	assert.Contains(t, out, "S3CR3T")
}

func TestDump_JSON(t *testing.T) {
	path := writeDataFile(t)

	out, _, err := execute(t, dumpOptions(), "--format", "json", "dump", "--data-file", path)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   DumpResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Contains(t, resp.Data.Document.Products, "p1")
	assert.Equal(t, "hunter2", resp.Data.Document.Products["p1"].Password)
	assert.Equal(t, []int64{42, 7}, resp.Data.Document.Products["p1"].Buyers)
}

func TestDump_Errors(t *testing.T) {
	path := writeDataFile(t)

	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		wantCode string
	}{
		{
			name:     "missing key",
			env:      map[string]string{},
			args:     []string{"dump", "--data-file", path},
			wantCode: "E_CONFIG",
		},
		{
			name:     "missing file",
			env:      map[string]string{"ENCRYPTION_KEY": testKey},
			args:     []string{"dump", "--data-file", filepath.Join(t.TempDir(), "nope.json")},
			wantCode: "E_STORAGE",
		},
		{
			name:     "bad config file",
			env:      map[string]string{"ENCRYPTION_KEY": testKey},
			args:     []string{"dump", "--config", filepath.Join(t.TempDir(), "nope.yaml")},
			wantCode: "E_CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, &RootOptions{Lookup: envLookup(tt.env)}, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}
