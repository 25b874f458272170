package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Junction-25/pdf-service/internal/model"
)

// Snapshot is an immutable, in-memory copy of the record dataset. It is built
// once at startup and shared by reference between requests without locking.
type Snapshot struct {
	properties  map[int64]model.Property
	contacts    map[int64]model.Contact
	propertyIDs []int64
	contactIDs  []int64
}

// NewSnapshot indexes the records by id. Duplicate or non-positive ids are
// rejected; value checks (price, rooms, area) are left to the pipeline so
// that errors name the record a caller actually asked for.
func NewSnapshot(properties []model.Property, contacts []model.Contact) (*Snapshot, error) {
	s := &Snapshot{
		properties:  make(map[int64]model.Property, len(properties)),
		contacts:    make(map[int64]model.Contact, len(contacts)),
		propertyIDs: make([]int64, 0, len(properties)),
		contactIDs:  make([]int64, 0, len(contacts)),
	}

	for _, p := range properties {
		if p.ID <= 0 {
			return nil, fmt.Errorf("property with non-positive id %d", p.ID)
		}
		if _, dup := s.properties[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %d", p.ID)
		}
		s.properties[p.ID] = p
		s.propertyIDs = append(s.propertyIDs, p.ID)
	}

	for _, c := range contacts {
		if c.ID <= 0 {
			return nil, fmt.Errorf("contact with non-positive id %d", c.ID)
		}
		if _, dup := s.contacts[c.ID]; dup {
			return nil, fmt.Errorf("duplicate contact id %d", c.ID)
		}
		s.contacts[c.ID] = c
		s.contactIDs = append(s.contactIDs, c.ID)
	}

	sort.Slice(s.propertyIDs, func(i, j int) bool { return s.propertyIDs[i] < s.propertyIDs[j] })
	sort.Slice(s.contactIDs, func(i, j int) bool { return s.contactIDs[i] < s.contactIDs[j] })
	return s, nil
}

// LoadJSON builds a snapshot from the properties and contacts JSON files
func LoadJSON(propertiesPath, contactsPath string) (*Snapshot, error) {
	var properties []model.Property
	if err := readJSONFile(propertiesPath, &properties); err != nil {
		return nil, err
	}

	var contacts []model.Contact
	if err := readJSONFile(contactsPath, &contacts); err != nil {
		return nil, err
	}

	return NewSnapshot(properties, contacts)
}

func readJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Property returns the property with the given id
func (s *Snapshot) Property(id int64) (model.Property, bool) {
	p, ok := s.properties[id]
	return p, ok
}

// Contact returns the contact with the given id
func (s *Snapshot) Contact(id int64) (model.Contact, bool) {
	c, ok := s.contacts[id]
	return c, ok
}

// ListProperties returns up to limit properties ordered by id
func (s *Snapshot) ListProperties(limit int) []model.Property {
	ids := clampIDs(s.propertyIDs, limit)
	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.properties[id])
	}
	return out
}

// ListContacts returns up to limit contacts ordered by id
func (s *Snapshot) ListContacts(limit int) []model.Contact {
	ids := clampIDs(s.contactIDs, limit)
	out := make([]model.Contact, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.contacts[id])
	}
	return out
}

// Counts returns the number of properties and contacts held
func (s *Snapshot) Counts() (properties, contacts int) {
	return len(s.propertyIDs), len(s.contactIDs)
}

func clampIDs(ids []int64, limit int) []int64 {
	if limit <= 0 || limit > len(ids) {
		return ids
	}
	return ids[:limit]
}
