package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactStore keeps finished videos on local disk, one file per job id
// under a configured directory. The directory is created on demand.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// VideoPath returns the canonical artifact path for a job.
func (s *ArtifactStore) VideoPath(jobID string) string {
	return filepath.Join(s.dir, jobID+".mp4")
}

// WriteVideo persists artifact bytes and returns the final path. An empty
// byte slice is allowed; the mock backend writes placeholder files.
func (s *ArtifactStore) WriteVideo(jobID string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create videos dir: %w", err)
	}
	path := s.VideoPath(jobID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write video %s: %w", jobID, err)
	}
	return path, nil
}

// Touch creates an empty placeholder artifact and returns its path.
func (s *ArtifactStore) Touch(jobID string) (string, error) {
	return s.WriteVideo(jobID, nil)
}

// PruneOlderThan removes artifacts whose modification time is older than
// maxAge and reports how many were deleted. A missing directory is not an
// error.
func (s *ArtifactStore) PruneOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read videos dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	pruned := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp4" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				return pruned, fmt.Errorf("remove artifact %s: %w", entry.Name(), err)
			}
			pruned++
		}
	}
	return pruned, nil
}
