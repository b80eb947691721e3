// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package catalog holds the two read-only tables the recommender serves from:
// the product catalog and the user interaction history.
//
// A Store is built once at startup (see Load) and never mutated afterwards,
// so any number of request goroutines may read it without locking.
package catalog

import "errors"

// ErrEmptyTable is returned when a source table has no usable rows.
var ErrEmptyTable = errors.New("table has no usable rows")

// Product is one catalog row. Catalog rows also record the purchasing user;
// rows without one are still candidates but belong to nobody's history.
type Product struct {
	ProductID  int
	Name       string
	Image      string
	CategoryID int
	Rating     float64
	UserID     int
	HasUser    bool
}

// Interaction is one row of the user history table.
type Interaction struct {
	UserID     int
	ProductID  int
	CategoryID int
}

// Cardinality is the number of distinct users, products and categories seen
// in the interaction table. It sizes the model's embedding tables.
type Cardinality struct {
	Users      int
	Items      int
	Categories int
}

// Store is the immutable in-memory view of both tables plus lookup indexes.
type Store struct {
	products     []Product
	interactions []Interaction

	userCategories map[int][]int // user -> category of each interaction, table order
	purchases      map[int][]int // user -> catalog row indexes
	byCategory     map[int][]int // category -> catalog row indexes

	cardinality Cardinality
}

// NewStore indexes the given rows. The slices are copied.
func NewStore(products []Product, interactions []Interaction) *Store {
	s := &Store{
		products:       append([]Product(nil), products...),
		interactions:   append([]Interaction(nil), interactions...),
		userCategories: make(map[int][]int),
		purchases:      make(map[int][]int),
		byCategory:     make(map[int][]int),
	}

	items := make(map[int]struct{})
	categories := make(map[int]struct{})
	for _, in := range s.interactions {
		s.userCategories[in.UserID] = append(s.userCategories[in.UserID], in.CategoryID)
		items[in.ProductID] = struct{}{}
		categories[in.CategoryID] = struct{}{}
	}
	s.cardinality = Cardinality{
		Users:      len(s.userCategories),
		Items:      len(items),
		Categories: len(categories),
	}

	for i, p := range s.products {
		s.byCategory[p.CategoryID] = append(s.byCategory[p.CategoryID], i)
		if p.HasUser {
			s.purchases[p.UserID] = append(s.purchases[p.UserID], i)
		}
	}
	return s
}

// HasUser reports whether the user appears in the interaction table.
func (s *Store) HasUser(userID int) bool {
	_, ok := s.userCategories[userID]
	return ok
}

// UserCategories returns the category id of every interaction of the user,
// in table order. The result is a fresh slice.
func (s *Store) UserCategories(userID int) []int {
	return append([]int(nil), s.userCategories[userID]...)
}

// Purchases returns the catalog rows attributed to the user, in catalog order.
func (s *Store) Purchases(userID int) []Product {
	return s.rows(s.purchases[userID])
}

// ProductsInCategory returns the catalog rows of a category, in catalog order.
func (s *Store) ProductsInCategory(categoryID int) []Product {
	return s.rows(s.byCategory[categoryID])
}

func (s *Store) rows(idx []int) []Product {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Product, len(idx))
	for i, j := range idx {
		out[i] = s.products[j]
	}
	return out
}

// Cardinality returns the distinct counts of the interaction table.
func (s *Store) Cardinality() Cardinality {
	return s.cardinality
}

// NumProducts returns the catalog row count.
func (s *Store) NumProducts() int {
	return len(s.products)
}

// NumInteractions returns the interaction row count.
func (s *Store) NumInteractions() int {
	return len(s.interactions)
}
