// Package inventory implements the menu operations on the fruit table.
//
// Each operation prompts for its fields, runs one statement through the Store
// and prints the outcome. Store failures are reported and swallowed here; the
// only errors returned are console read failures such as end of input.
package inventory

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/fruitstock/internal/console"
	"github.com/saltyorg/fruitstock/internal/database"
)

// Outcome messages.
const (
	msgAdded         = "item added"
	msgUpdated       = "item updated"
	msgDeleted       = "item deleted"
	msgNotFound      = "no item with that ID was found"
	msgInvalidID     = "invalid ID input"
	msgInvalidWeight = "invalid weight input"
)

// Store is the persistence used by the operations. *database.DB satisfies it.
type Store interface {
	CreateFruit(f database.Fruit) error
	ListFruits() ([]database.Fruit, error)
	UpdateFruitWeight(id int64, weight float64) error
	DeleteFruit(id int64) error
	CountFruits() (int64, error)
}

// Manager runs inventory operations against a Store.
type Manager struct {
	store   Store
	console *console.Prompter
}

// NewManager creates a Manager.
func NewManager(store Store, p *console.Prompter) *Manager {
	return &Manager{store: store, console: p}
}

// Add prompts for id, name and weight and inserts a new fruit.
func (m *Manager) Add() error {
	id, ok, err := m.readID("Enter fruit ID: ")
	if err != nil || !ok {
		return err
	}

	name, err := m.console.ReadLine("Enter fruit name: ")
	if err != nil {
		return err
	}

	weight, ok, err := m.readWeight("Enter weight (kg): ")
	if err != nil || !ok {
		return err
	}

	if err := m.store.CreateFruit(database.Fruit{ID: id, Name: name, Weight: weight}); err != nil {
		m.reportError("add", err)
		return nil
	}

	log.Info().Int64("id", id).Str("name", name).Float64("weight", weight).Msg("Fruit added")
	m.console.Println(msgAdded)
	return nil
}

// List prints every fruit as a table.
func (m *Manager) List() error {
	fruits, err := m.store.ListFruits()
	if err != nil {
		m.reportError("list", err)
		return nil
	}

	log.Debug().Int("rows", len(fruits)).Msg("Fruits listed")
	return WriteTable(m.console.Out(), fruits)
}

// Update prompts for id and new weight and changes that fruit's weight.
func (m *Manager) Update() error {
	id, ok, err := m.readID("Enter the ID of the fruit to update: ")
	if err != nil || !ok {
		return err
	}

	weight, ok, err := m.readWeight("Enter the new weight (kg): ")
	if err != nil || !ok {
		return err
	}

	err = m.store.UpdateFruitWeight(id, weight)
	switch {
	case errors.Is(err, database.ErrNotFound):
		log.Debug().Int64("id", id).Msg("Fruit to update not found")
		m.console.Println(msgNotFound)
	case err != nil:
		m.reportError("update", err)
	default:
		log.Info().Int64("id", id).Float64("weight", weight).Msg("Fruit updated")
		m.console.Println(msgUpdated)
	}
	return nil
}

// Delete prompts for an id and removes that fruit.
func (m *Manager) Delete() error {
	id, ok, err := m.readID("Enter the ID of the fruit to delete: ")
	if err != nil || !ok {
		return err
	}

	err = m.store.DeleteFruit(id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		log.Debug().Int64("id", id).Msg("Fruit to delete not found")
		m.console.Println(msgNotFound)
	case err != nil:
		m.reportError("delete", err)
	default:
		log.Info().Int64("id", id).Msg("Fruit deleted")
		m.console.Println(msgDeleted)
	}
	return nil
}

// Count prints the number of rows in the fruit table.
func (m *Manager) Count() error {
	n, err := m.store.CountFruits()
	if err != nil {
		m.reportError("count", err)
		return nil
	}

	m.console.Printf("number of items in stock: %d\n", n)
	return nil
}

// readID returns ok=false after reporting an unparsable answer.
func (m *Manager) readID(prompt string) (int64, bool, error) {
	id, err := m.console.ReadInt(prompt)
	if errors.Is(err, console.ErrInvalidNumber) {
		m.console.Println(msgInvalidID)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (m *Manager) readWeight(prompt string) (float64, bool, error) {
	weight, err := m.console.ReadFloat(prompt)
	if errors.Is(err, console.ErrInvalidNumber) {
		m.console.Println(msgInvalidWeight)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return weight, true, nil
}

func (m *Manager) reportError(op string, err error) {
	log.Warn().Err(err).Str("op", op).Msg("Database operation failed")
	m.console.Printf("database error: %v\n", err)
}
