package repo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"contact-saver-bot/internal/domain"
)

// contactHeader is the fixed column order of the contact book. The export
// command streams the file verbatim, so the layout is part of the bot's
// external contract.
var contactHeader = []string{"Name", "Phone", "Username", "Chat ID", "Day", "Time", "Referrer ID"}

// CSVStore keeps verified contacts in an append-only CSV file and serves
// reads from an in-memory copy loaded at startup.
type CSVStore struct {
	path string

	mu       sync.RWMutex
	contacts []domain.Contact
	known    map[int64]struct{}
}

// NewCSVStore opens the contact book at path, creating it with a header row
// when missing, and loads all existing records into memory.
func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, known: make(map[int64]struct{})}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat contact book: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create contact book: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(contactHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open contact book: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("read header: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read contact row: %w", err)
		}
		contact, ok := rowToContact(row)
		if !ok {
			continue
		}
		s.contacts = append(s.contacts, contact)
		s.known[contact.ChatID] = struct{}{}
	}
	return nil
}

// Append writes the record to the file first and only then to the in-memory
// view, so a reader never observes a contact that is not durable.
func (s *CSVStore) Append(contact domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.known[contact.ChatID]; ok {
		return fmt.Errorf("contact %d already recorded", contact.ChatID)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open contact book: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(contactToRow(contact)); err != nil {
		return fmt.Errorf("append contact: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush contact: %w", err)
	}

	s.contacts = append(s.contacts, contact)
	s.known[contact.ChatID] = struct{}{}
	return nil
}

// Exists reports whether a record for the chat identity is already saved.
func (s *CSVStore) Exists(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.known[chatID]
	return ok
}

// All returns a copy of every saved contact in insertion order.
func (s *CSVStore) All() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Count returns the number of saved contacts.
func (s *CSVStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

// Path returns the location of the durable contact book.
func (s *CSVStore) Path() string {
	return s.path
}

func contactToRow(c domain.Contact) []string {
	referrer := c.Referrer
	if referrer == "" {
		referrer = domain.NoReferrer
	}
	return []string{
		c.Name,
		c.Phone,
		c.Username,
		strconv.FormatInt(c.ChatID, 10),
		c.Day,
		c.Time,
		referrer,
	}
}

func rowToContact(row []string) (domain.Contact, bool) {
	if len(row) < 7 {
		return domain.Contact{}, false
	}
	chatID, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return domain.Contact{}, false
	}
	referrer := row[6]
	if referrer == domain.NoReferrer {
		referrer = ""
	}
	return domain.Contact{
		Name:     row[0],
		Phone:    row[1],
		Username: row[2],
		ChatID:   chatID,
		Day:      row[4],
		Time:     row[5],
		Referrer: referrer,
	}, true
}
