// internal/storage/storage.go

// Package storage persists conversations as one JSON file per conversation
// under a data directory. The layout is deliberately simple: no database, no
// index, just <dir>/<id>.json, which keeps the records greppable and easy to
// back up.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/synod/internal/council"
)

// ErrNotFound is returned when a conversation id does not exist.
var ErrNotFound = errors.New("conversation not found")

// DefaultTitle is the title a conversation carries until one is generated.
const DefaultTitle = "New Conversation"

// Message is one conversation turn. User messages carry Content; assistant
// messages carry the three council stages plus the run metadata instead.
type Message struct {
	Role     string                 `json:"role"`
	Content  string                 `json:"content,omitempty"`
	Stage1   []council.Stage1Result `json:"stage1,omitempty"`
	Stage2   []council.Stage2Result `json:"stage2,omitempty"`
	Stage3   *council.Stage3Result  `json:"stage3,omitempty"`
	Metadata *council.Metadata      `json:"metadata,omitempty"`
}

// Conversation is a full conversation record.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
}

// Summary is the listing view of a conversation: metadata only, no messages.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
}

// Store reads and writes conversation records under a single directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file path backing a conversation id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create writes a fresh conversation record and returns it.
func (s *Store) Create(id string) (*Conversation, error) {
	conv := &Conversation{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Title:     DefaultTitle,
		Messages:  []Message{},
	}
	if err := s.Save(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Get loads a conversation, or ErrNotFound for an unknown id.
func (s *Store) Get(id string) (*Conversation, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("storage: decoding conversation %s: %w", id, err)
	}
	return &conv, nil
}

// Save writes the record, overwriting any existing file and creating the data
// directory as needed.
func (s *Store) Save(conv *Conversation) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(conv.ID), data, 0o644)
}

// List returns a summary per stored conversation, newest first. Files that
// fail to decode are skipped rather than failing the whole listing.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Summary{}, nil
		}
		return nil, err
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		conv, err := s.Get(id)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			ID:           conv.ID,
			CreatedAt:    conv.CreatedAt,
			Title:        conv.Title,
			MessageCount: len(conv.Messages),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// AddUserMessage appends a user turn. ErrNotFound for an unknown id.
func (s *Store) AddUserMessage(id, content string) error {
	conv, err := s.Get(id)
	if err != nil {
		return err
	}
	conv.Messages = append(conv.Messages, Message{Role: "user", Content: content})
	return s.Save(conv)
}

// AddAssistantMessage appends an assistant turn carrying a full council run.
// ErrNotFound for an unknown id.
func (s *Store) AddAssistantMessage(id string, stage1 []council.Stage1Result, stage2 []council.Stage2Result, stage3 council.Stage3Result, metadata council.Metadata) error {
	conv, err := s.Get(id)
	if err != nil {
		return err
	}
	conv.Messages = append(conv.Messages, Message{
		Role:     "assistant",
		Stage1:   stage1,
		Stage2:   stage2,
		Stage3:   &stage3,
		Metadata: &metadata,
	})
	return s.Save(conv)
}

// UpdateTitle replaces the conversation title. ErrNotFound for an unknown id.
func (s *Store) UpdateTitle(id, title string) error {
	conv, err := s.Get(id)
	if err != nil {
		return err
	}
	conv.Title = title
	return s.Save(conv)
}
