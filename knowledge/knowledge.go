// Package knowledge holds the owner's availability status and the free-form
// fact list injected into every inference prompt. Both live as flat,
// human-inspectable files under a state directory: status is overwritten
// wholesale, facts only ever grow (or get wiped wholesale).
package knowledge

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/venlabs/majordomo/internal/fsstore"
)

const (
	statusFilename = "owner_status.txt"
	factsFilename  = "owner_info.md"
)

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "state"
	}
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) statusPath() string { return filepath.Join(s.dir, statusFilename) }
func (s *Store) factsPath() string  { return filepath.Join(s.dir, factsFilename) }

// Status returns the current owner status text. Missing or unreadable files
// read as empty.
func (s *Store) Status() string {
	text, _, err := fsstore.ReadText(s.statusPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *Store) SetStatus(text string) error {
	return fsstore.WriteTextAtomic(s.statusPath(), strings.TrimSpace(text), fsstore.FileOptions{})
}

func (s *Store) ClearStatus() error {
	return fsstore.WriteTextAtomic(s.statusPath(), "", fsstore.FileOptions{})
}

// Facts returns the bulleted fact list, without the file's metadata header.
func (s *Store) Facts() string {
	contents, ok, err := fsstore.ReadText(s.factsPath())
	if err != nil || !ok {
		return ""
	}
	_, body, _ := parseFrontmatter(contents)
	return strings.TrimSpace(body)
}

// AddFact appends one bulleted line to the fact list. Existing entries are
// never reordered or rewritten.
func (s *Store) AddFact(fact string) error {
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return fmt.Errorf("fact is required")
	}

	contents, _, err := fsstore.ReadText(s.factsPath())
	if err != nil {
		return err
	}
	fm, body, _ := parseFrontmatter(contents)

	body = strings.TrimSpace(body)
	if body == "" {
		body = "- " + fact
	} else {
		body += "\n- " + fact
	}
	fm.Count++
	fm.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	return fsstore.WriteTextAtomic(s.factsPath(), renderFrontmatter(fm)+body+"\n", fsstore.FileOptions{})
}

func (s *Store) ClearFacts() error {
	return fsstore.WriteTextAtomic(s.factsPath(), "", fsstore.FileOptions{})
}
