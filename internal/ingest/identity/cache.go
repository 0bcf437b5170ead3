package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/lims-backend/internal/normalization"
	"github.com/yungbote/lims-backend/internal/pkg/dbctx"
)

type UserLookup interface {
	ListUsernames(dbc dbctx.Context) (map[string]uuid.UUID, error)
}

type ReagentLookup interface {
	ListNames(dbc dbctx.Context) (map[string]uuid.UUID, error)
}

// Cache resolves owner and reagent names to ids for a single import run.
// It is not safe for concurrent use; one run owns one cache.
type Cache struct {
	owners   map[string]uuid.UUID
	reagents map[string]uuid.UUID
}

func New() *Cache {
	return &Cache{
		owners:   map[string]uuid.UUID{},
		reagents: map[string]uuid.UUID{},
	}
}

// Load issues one full read of usernames and one of reagent names.
// reagents may be nil when the run never resolves reagents.
func Load(dbc dbctx.Context, users UserLookup, reagents ReagentLookup) (*Cache, error) {
	c := New()
	if users != nil {
		names, err := users.ListUsernames(dbc)
		if err != nil {
			return nil, fmt.Errorf("preload users: %w", err)
		}
		for name, id := range names {
			c.RememberOwner(name, id)
		}
	}
	if reagents != nil {
		names, err := reagents.ListNames(dbc)
		if err != nil {
			return nil, fmt.Errorf("preload reagents: %w", err)
		}
		for name, id := range names {
			c.RememberReagent(name, id)
		}
	}
	return c, nil
}

func (c *Cache) RememberOwner(name string, id uuid.UUID) {
	if key := normalization.Key(name); key != "" {
		c.owners[key] = id
	}
}

// Owner resolves a username, falling back when it is blank or unknown.
func (c *Cache) Owner(name *string, fallback uuid.UUID) uuid.UUID {
	if name == nil {
		return fallback
	}
	if id, ok := c.owners[normalization.Key(*name)]; ok {
		return id
	}
	return fallback
}

func (c *Cache) Reagent(name string) (uuid.UUID, bool) {
	id, ok := c.reagents[normalization.Key(name)]
	return id, ok
}

func (c *Cache) RememberReagent(name string, id uuid.UUID) {
	if key := normalization.Key(name); key != "" {
		c.reagents[key] = id
	}
}

// ResolveReagent returns the known id for name, or mints and remembers a new one.
func (c *Cache) ResolveReagent(name string) (uuid.UUID, bool) {
	if id, ok := c.Reagent(name); ok {
		return id, false
	}
	id := uuid.New()
	c.RememberReagent(name, id)
	return id, true
}

type Stats struct {
	Owners   int
	Reagents int
}

func (c *Cache) Stats() Stats {
	return Stats{Owners: len(c.owners), Reagents: len(c.reagents)}
}
