// Package taskpad is the offline, single-user counterpart of the task API:
// an ordered task collection held in memory and mirrored to a snapshot store
// on every mutation. It never talks to the server and is correct only for a
// single writer.
package taskpad

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/business-os/backend/domain"
)

// Entry is a task-like record in the local collection.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Responsible string `json:"responsible,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

// EntryPatch is a sparse update; nil fields keep prior values.
type EntryPatch struct {
	Title       *string
	Description *string
	Responsible *string
	DueDate     *string
	Status      *string
}

// Snapshot persists the whole collection as one payload.
type Snapshot interface {
	Load() ([]byte, error)
	Save([]byte) error
}

// Pad holds the collection and the selection state that decides whether a
// form submission adds or updates.
type Pad struct {
	store    Snapshot
	entries  []Entry
	selected string
	logger   *zap.Logger
}

// Open loads the persisted collection, starting empty when no snapshot exists.
func Open(store Snapshot, logger *zap.Logger) (*Pad, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pad{store: store, logger: logger}

	if store != nil {
		data, err := store.Load()
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &p.entries); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// Entries returns a copy of the collection in insertion order.
func (p *Pad) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of entries.
func (p *Pad) Len() int {
	return len(p.entries)
}

// Get returns the entry with the given id.
func (p *Pad) Get(id string) (Entry, bool) {
	for _, e := range p.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Add validates the title before any mutation, then appends the entry with
// a fresh id and creation timestamp and persists the collection.
func (p *Pad) Add(entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return Entry{}, domain.ErrTitleRequired
	}

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().Format(time.RFC3339)
	if entry.Status == "" {
		entry.Status = domain.TaskStatusPending
	}

	p.entries = append(p.entries, entry)
	p.persist()
	return entry, nil
}

// Update merges the patch into the matching entry; a miss is a no-op.
func (p *Pad) Update(id string, patch EntryPatch) (Entry, bool) {
	for i := range p.entries {
		if p.entries[i].ID != id {
			continue
		}
		e := &p.entries[i]
		if patch.Title != nil {
			e.Title = *patch.Title
		}
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.Responsible != nil {
			e.Responsible = *patch.Responsible
		}
		if patch.DueDate != nil {
			e.DueDate = *patch.DueDate
		}
		if patch.Status != nil {
			e.Status = *patch.Status
		}
		p.persist()
		return *e, true
	}
	return Entry{}, false
}

// Delete removes the matching entry and clears the selection when the
// removed entry was the selected one.
func (p *Pad) Delete(id string) bool {
	for i := range p.entries {
		if p.entries[i].ID != id {
			continue
		}
		p.entries = append(p.entries[:i], p.entries[i+1:]...)
		if p.selected == id {
			p.selected = ""
		}
		p.persist()
		return true
	}
	return false
}

// Select marks the entry currently open for editing.
func (p *Pad) Select(id string) bool {
	if _, ok := p.Get(id); !ok {
		return false
	}
	p.selected = id
	return true
}

// ClearSelection closes the editing state.
func (p *Pad) ClearSelection() {
	p.selected = ""
}

// Selected returns the entry currently open for editing.
func (p *Pad) Selected() (Entry, bool) {
	if p.selected == "" {
		return Entry{}, false
	}
	return p.Get(p.selected)
}

// Submit performs the operation the selection state dictates: update the
// selected entry when one is open, otherwise add a new one. The selection
// is cleared after a successful update.
func (p *Pad) Submit(form Entry) (Entry, error) {
	if p.selected == "" {
		return p.Add(form)
	}

	if strings.TrimSpace(form.Title) == "" {
		return Entry{}, domain.ErrTitleRequired
	}
	updated, _ := p.Update(p.selected, EntryPatch{
		Title:       &form.Title,
		Description: &form.Description,
		Responsible: &form.Responsible,
		DueDate:     &form.DueDate,
		Status:      &form.Status,
	})
	p.selected = ""
	return updated, nil
}

// persist mirrors the whole collection to the snapshot store. Writes are
// fire-and-forget: failures are logged, never surfaced to the mutation.
func (p *Pad) persist() {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(p.entries)
	if err != nil {
		p.logger.Error("failed to encode snapshot", zap.Error(err))
		return
	}
	if err := p.store.Save(data); err != nil {
		p.logger.Error("failed to persist snapshot", zap.Error(err))
	}
}
