// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package menu

// EntryKind distinguishes dishes from wines in a Catalog.
type EntryKind int

const (
	KindDish EntryKind = iota
	KindWine
)

// Entry is one orderable thing, dish or wine, flattened out of a Document.
type Entry struct {
	Kind        EntryKind
	Name        string
	Description string
	Price       Price
	Tags        []string
	Section     string
}

// Catalog is the ordered list of every item followed by every wine.
// Order matters: dish-name matching picks the first hit.
type Catalog []Entry

// Catalog flattens the document: all section items in order, then wines.
func (d *Document) Catalog() Catalog {
	if d == nil {
		return nil
	}
	var c Catalog
	for _, s := range d.Sections {
		for _, it := range s.Items {
			c = append(c, Entry{
				Kind:        KindDish,
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price,
				Tags:        it.Tags,
				Section:     s.Title,
			})
		}
	}
	for _, w := range d.Wines {
		c = append(c, Entry{
			Kind:        KindWine,
			Name:        w.Name,
			Description: w.Info(),
			Price:       w.Price,
			Tags:        w.PairingTags,
		})
	}
	return c
}
