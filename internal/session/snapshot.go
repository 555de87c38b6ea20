package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/testforge/backend/internal/artifact"
	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/wizard"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshot is the msgpack-persisted form of a session. Only data worth
// surviving a restart is kept; the poll handle and row store are rebuilt.
type snapshot struct {
	ID            string             `msgpack:"id"`
	CreatedAt     time.Time          `msgpack:"createdAt"`
	Wizard        *wizard.State      `msgpack:"wizard"`
	Chat          []models.ChatEntry `msgpack:"chat"`
	ChatSessionID string             `msgpack:"chatSessionId"`
	SavedAt       time.Time          `msgpack:"savedAt"`
}

func snapshotOf(state *State) *snapshot {
	w := *state.Wizard
	chat := make([]models.ChatEntry, len(state.Chat))
	copy(chat, state.Chat)
	return &snapshot{
		ID:            state.ID,
		CreatedAt:     state.CreatedAt,
		Wizard:        &w,
		Chat:          chat,
		ChatSessionID: state.ChatSessionID,
		SavedAt:       time.Now(),
	}
}

func (m *Manager) snapshotPath(id string) string {
	return filepath.Join(m.snapshotDir, fmt.Sprintf("session_%s.msgpack", id))
}

// writeSnapshot persists a session snapshot. Failures are logged, not
// fatal; persistence is best effort.
func (m *Manager) writeSnapshot(snap *snapshot) {
	if m.snapshotDir == "" {
		return
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		fmt.Printf("[Session %s] Snapshot marshal failed: %v\n", short(snap.ID), err)
		return
	}

	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		fmt.Printf("[Session %s] Snapshot dir failed: %v\n", short(snap.ID), err)
		return
	}

	path := m.snapshotPath(snap.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		fmt.Printf("[Session %s] Snapshot write failed: %v\n", short(snap.ID), err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		fmt.Printf("[Session %s] Snapshot rename failed: %v\n", short(snap.ID), err)
	}
}

func (m *Manager) removeSnapshot(id string) {
	if m.snapshotDir == "" {
		return
	}
	os.Remove(m.snapshotPath(id))
}

// RestoreSnapshots loads persisted sessions from the snapshot directory.
// Sessions with an artifact get their row preview store rebuilt from the
// stored CSV. Returns the number of sessions restored.
func (m *Manager) RestoreSnapshots() int {
	if m.snapshotDir == "" {
		return 0
	}

	entries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("[Manager] Snapshot scan failed: %v\n", err)
		}
		return 0
	}

	restored := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "session_") || !strings.HasSuffix(name, ".msgpack") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(m.snapshotDir, name))
		if err != nil {
			fmt.Printf("[Manager] Snapshot read failed for %s: %v\n", name, err)
			continue
		}

		var snap snapshot
		if err := msgpack.Unmarshal(data, &snap); err != nil {
			fmt.Printf("[Manager] Snapshot decode failed for %s: %v\n", name, err)
			continue
		}
		if snap.ID == "" || snap.Wizard == nil {
			continue
		}

		state := &State{
			ID:            snap.ID,
			CreatedAt:     snap.CreatedAt,
			Wizard:        snap.Wizard,
			Generation:    models.GenerationState{Status: models.GenerationIdle},
			Chat:          snap.Chat,
			ChatSessionID: snap.ChatSessionID,
			LastAccessed:  time.Now(),
		}
		if art := snap.Wizard.Artifact; art != nil {
			state.Generation = models.GenerationState{
				TaskID: art.TaskID,
				Status: models.GenerationComplete,
			}
			rows, err := artifact.NewRowStore(m.tempDir, snap.ID+"_"+art.TaskID, art.CSV)
			if err != nil {
				fmt.Printf("[Session %s] Row preview rebuild failed: %v\n", short(snap.ID), err)
			} else {
				state.Rows = rows
			}
		}

		m.mu.Lock()
		if _, exists := m.sessions[state.ID]; !exists && len(m.sessions) < MaxSessions {
			m.sessions[state.ID] = state
			restored++
		} else if state.Rows != nil {
			state.Rows.Close()
		}
		m.mu.Unlock()
	}

	if restored > 0 {
		fmt.Printf("[Manager] Restored %d session(s) from snapshots\n", restored)
	}
	return restored
}
