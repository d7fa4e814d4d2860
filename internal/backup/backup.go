// Package backup keeps timestamped copies of the sqlite database next to it,
// taken before destructive maintenance such as a forced init or a migration.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dosely/internal/logger"
)

const (
	// Keep is how many snapshots survive rotation.
	Keep = 10

	dirName    = "backups"
	filePrefix = "dosely-"
	fileSuffix = ".db"
	stampFmt   = "20060102-150405"
)

type Snapshot struct {
	Path  string
	Taken time.Time
	Size  int64
}

type Manager struct {
	dbPath string
	dir    string
	now    func() time.Time
}

// NewManager stores snapshots of dbPath in a backups directory beside it.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), dirName),
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create snapshots the database with VACUUM INTO and rotates old snapshots.
// reason is appended to the file name, e.g. "pre-migrate".
func (m *Manager) Create(reason string) (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := filePrefix + m.now().UTC().Format(stampFmt)
	if reason != "" {
		name += "-" + reason
	}
	dest := filepath.Join(m.dir, name+fileSuffix)
	for i := 1; fileExists(dest); i++ {
		dest = filepath.Join(m.dir, fmt.Sprintf("%s.%d%s", name, i, fileSuffix))
	}

	db, err := sql.Open("sqlite", m.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "dir", m.dir, "error", err)
	}
	logger.Info("Database snapshot created", "path", dest)
	return dest, nil
}

// List returns the snapshots newest first.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snapshots []Snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimPrefix(name, filePrefix)
		if len(stamp) < len(stampFmt) {
			continue
		}
		taken, err := time.Parse(stampFmt, stamp[:len(stampFmt)])
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			Path:  filepath.Join(m.dir, name),
			Taken: taken,
			Size:  info.Size(),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].Taken.Equal(snapshots[j].Taken) {
			return snapshots[i].Path > snapshots[j].Path
		}
		return snapshots[i].Taken.After(snapshots[j].Taken)
	})
	return snapshots, nil
}

func (m *Manager) rotate() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	for i := Keep; i < len(snapshots); i++ {
		if err := os.Remove(snapshots[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", snapshots[i].Path, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
