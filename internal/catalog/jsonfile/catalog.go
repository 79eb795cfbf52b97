// Package jsonfile reads menu item names from the tenant document kept by the
// menu editor. The analytics service never writes to it.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type menuItem struct {
	Name string `json:"name"`
}

type tenant struct {
	Name string     `json:"name"`
	Menu []menuItem `json:"menu"`
}

type Catalog struct {
	path string
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

// MenuItemNames returns the tenant's item names by menu position. A missing
// file or unknown slug yields no names and no error.
//
// The file is re-read on every call since the editor rewrites it in place.
func (c *Catalog) MenuItemNames(ctx context.Context, slug string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read menu data: %w", err)
	}

	var tenants map[string]tenant
	if err := json.Unmarshal(raw, &tenants); err != nil {
		return nil, fmt.Errorf("decode menu data: %w", err)
	}

	t, ok := tenants[slug]
	if !ok {
		return nil, nil
	}
	names := make([]string, len(t.Menu))
	for i, item := range t.Menu {
		names[i] = item.Name
	}
	return names, nil
}
