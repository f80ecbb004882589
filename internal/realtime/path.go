package realtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thenoetrevino/listboard/internal/types"
)

// Collection names a user-scoped set of records
type Collection string

const (
	Columns  Collection = "columns"
	Tasks    Collection = "tasks"
	Comments Collection = "comments"
)

// Collections lists every board collection
var Collections = []Collection{Columns, Tasks, Comments}

// Valid reports whether c is a known collection
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// Level is the depth a path addresses
type Level int

const (
	LevelCollection Level = iota + 1
	LevelRecord
	LevelField
)

var (
	keyPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	fieldPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Path addresses users/{uid}/{collection}[/{key}[/{field}]]
type Path struct {
	UserID     types.UserID
	Collection Collection
	Key        string
	Field      string
}

// CollectionPath addresses a whole collection
func CollectionPath(uid types.UserID, c Collection) Path {
	return Path{UserID: uid, Collection: c}
}

// RecordPath addresses one record
func RecordPath(uid types.UserID, c Collection, key string) Path {
	return Path{UserID: uid, Collection: c, Key: key}
}

// FieldPath addresses one field of a record
func FieldPath(uid types.UserID, c Collection, key, field string) Path {
	return Path{UserID: uid, Collection: c, Key: key, Field: field}
}

// Level returns how deep the path reaches
func (p Path) Level() Level {
	switch {
	case p.Field != "":
		return LevelField
	case p.Key != "":
		return LevelRecord
	default:
		return LevelCollection
	}
}

// Record returns the enclosing record path of a field path
func (p Path) Record() Path {
	p.Field = ""
	return p
}

func (p Path) String() string {
	parts := []string{"users", string(p.UserID), string(p.Collection)}
	if p.Key != "" {
		parts = append(parts, p.Key)
		if p.Field != "" {
			parts = append(parts, p.Field)
		}
	}
	return strings.Join(parts, "/")
}

// Validate checks every segment of the path
func (p Path) Validate() error {
	if p.UserID == "" || !keyPattern.MatchString(string(p.UserID)) {
		return fmt.Errorf("%w: bad user id %q", ErrInvalidPath, p.UserID)
	}
	if !p.Collection.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, p.Collection)
	}
	if p.Key == "" && p.Field != "" {
		return fmt.Errorf("%w: field without key", ErrInvalidPath)
	}
	if p.Key != "" && !keyPattern.MatchString(p.Key) {
		return fmt.Errorf("%w: bad key %q", ErrInvalidPath, p.Key)
	}
	if p.Field != "" && !fieldPattern.MatchString(p.Field) {
		return fmt.Errorf("%w: bad field %q", ErrInvalidPath, p.Field)
	}
	return nil
}

// Contains reports whether q is p or lies beneath it
func (p Path) Contains(q Path) bool {
	if p.UserID != q.UserID || p.Collection != q.Collection {
		return false
	}
	switch p.Level() {
	case LevelCollection:
		return true
	case LevelRecord:
		return p.Key == q.Key
	default:
		return p == q
	}
}

// ParsePath parses "users/{uid}/{collection}[/{key}[/{field}]]"
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 3 || len(parts) > 5 || parts[0] != "users" {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}

	p := Path{UserID: types.UserID(parts[1]), Collection: Collection(parts[2])}
	if len(parts) > 3 {
		p.Key = parts[3]
	}
	if len(parts) > 4 {
		p.Field = parts[4]
	}
	if err := p.Validate(); err != nil {
		return Path{}, err
	}
	return p, nil
}
