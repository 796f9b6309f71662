package draw

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	stateFileName  = "lucky_draws.json"
	backupFileName = "lucky_draws.backup.json"
	tempSuffix     = ".tmp"
)

// FileStore persists the full registry state as one JSON document with a
// single-slot backup. Writes go to a temporary file first, the previous main
// file is rotated to the backup slot, and the temporary file is renamed into
// place, so the main file is always either fully old or fully new.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) statePath() string  { return filepath.Join(s.dir, stateFileName) }
func (s *FileStore) backupPath() string { return filepath.Join(s.dir, backupFileName) }

// fileState is the persisted document shape. Campaigns are keyed by their
// stringified id next to the last-id counter so restarts never reissue an id.
type fileState struct {
	LastID int64                `json:"last_id"`
	Draws  map[string]*fileDraw `json:"draws"`
}

type fileDraw struct {
	ID           int64          `json:"id"`
	Prize        string         `json:"prize"`
	EndTime      time.Time      `json:"end_time"`
	Participants []snowflake.ID `json:"participants"`
	ChannelID    snowflake.ID   `json:"channel_id"`
	CreatorID    snowflake.ID   `json:"creator_id"`
	CreatorName  string         `json:"creator_name"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	WinnersCount int            `json:"winners_count"`
	WinnerIDs    []snowflake.ID `json:"winner_ids"`
	MessageID    *snowflake.ID  `json:"message_id,omitempty"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`

	// Pre-multi-winner records carried a single winner field. It is read for
	// the upgrade at load time and never written back.
	LegacyWinnerID *snowflake.ID `json:"winner_id,omitempty"`
}

// upgrade converts a record of any known format to the current shape.
func (d *fileDraw) upgrade() *Campaign {
	if d.WinnerIDs == nil {
		d.WinnerIDs = []snowflake.ID{}
		if d.LegacyWinnerID != nil && *d.LegacyWinnerID != 0 {
			d.WinnerIDs = []snowflake.ID{*d.LegacyWinnerID}
		}
	}
	if d.WinnersCount < 1 {
		d.WinnersCount = 1
	}

	c := &Campaign{
		ID:           d.ID,
		Prize:        d.Prize,
		CreatedAt:    d.CreatedAt,
		EndTime:      d.EndTime,
		WinnersCount: d.WinnersCount,
		CreatorID:    d.CreatorID,
		CreatorName:  d.CreatorName,
		ChannelID:    d.ChannelID,
		Active:       d.Active,
		Participants: make(map[snowflake.ID]struct{}, len(d.Participants)),
		WinnerIDs:    d.WinnerIDs,
	}
	for _, id := range d.Participants {
		c.Participants[id] = struct{}{}
	}
	if d.MessageID != nil {
		c.MessageID = *d.MessageID
	}
	if d.EndedAt != nil {
		c.EndedAt = *d.EndedAt
	}
	return c
}

func encodeDraw(c *Campaign) *fileDraw {
	d := &fileDraw{
		ID:           c.ID,
		Prize:        c.Prize,
		EndTime:      c.EndTime,
		Participants: participantSlice(c.Participants),
		ChannelID:    c.ChannelID,
		CreatorID:    c.CreatorID,
		CreatorName:  c.CreatorName,
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		WinnersCount: c.WinnersCount,
		WinnerIDs:    c.WinnerIDs,
	}
	// Normalize participant order so documents with equal sets compare equal.
	sort.Slice(d.Participants, func(i, j int) bool { return d.Participants[i] < d.Participants[j] })
	if c.MessageID != 0 {
		id := c.MessageID
		d.MessageID = &id
	}
	if !c.EndedAt.IsZero() {
		t := c.EndedAt
		d.EndedAt = &t
	}
	return d
}

// Save writes the full state atomically and rotates the previous main file to
// the backup slot.
func (s *FileStore) Save(st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := fileState{
		LastID: st.LastID,
		Draws:  make(map[string]*fileDraw, len(st.Draws)),
	}
	for id, c := range st.Draws {
		doc.Draws[strconv.FormatInt(id, 10)] = encodeDraw(c)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode draw state: %w", err)
	}

	tmp := s.statePath() + tempSuffix
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if _, err := os.Stat(s.statePath()); err == nil {
		if err := os.Rename(s.statePath(), s.backupPath()); err != nil {
			return fmt.Errorf("failed to rotate backup: %w", err)
		}
	}
	if err := os.Rename(tmp, s.statePath()); err != nil {
		return fmt.Errorf("failed to promote temp state file: %w", err)
	}
	return nil
}

// Load reads the main file. On any read or parse failure it promotes the
// backup into the main slot and retries exactly once; if that also fails it
// returns an empty state. Load never fails the process.
func (s *FileStore) Load() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.loadFile(s.statePath())
	if err == nil {
		return st
	}
	if os.IsNotExist(err) {
		if _, backupErr := os.Stat(s.backupPath()); os.IsNotExist(backupErr) {
			slog.Info("No saved draw state found, starting empty",
				slog.String("type", "save"),
				slog.String("path", s.statePath()))
			return NewState()
		}
	}

	slog.Warn("Draw state file unreadable, promoting backup",
		slog.String("type", "save"),
		slog.Any("error", err))
	if err := os.Rename(s.backupPath(), s.statePath()); err != nil {
		slog.Error("No usable backup, starting empty",
			slog.String("type", "save"),
			slog.Any("error", err))
		return NewState()
	}
	st, err = s.loadFile(s.statePath())
	if err != nil {
		slog.Error("Backup state file unreadable too, starting empty",
			slog.String("type", "save"),
			slog.Any("error", err))
		return NewState()
	}
	return st
}

func (s *FileStore) loadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileState
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	st := &State{
		LastID: doc.LastID,
		Draws:  make(map[int64]*Campaign, len(doc.Draws)),
	}
	for key, d := range doc.Draws {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid draw key %q: %w", key, err)
		}
		if d.ID == 0 {
			d.ID = id
		}
		st.Draws[id] = d.upgrade()
	}
	return st, nil
}

// FileInfo describes one on-disk slot for the backup-status command.
type FileInfo struct {
	Exists  bool
	Size    int64
	ModTime time.Time
}

// Status reports the state of the main and backup slots.
type Status struct {
	Dir    string
	State  FileInfo
	Backup FileInfo
}

func (s *FileStore) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Dir:    s.dir,
		State:  fileInfo(s.statePath()),
		Backup: fileInfo(s.backupPath()),
	}
}

func fileInfo(path string) FileInfo {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}
	}
	return FileInfo{Exists: true, Size: fi.Size(), ModTime: fi.ModTime()}
}
