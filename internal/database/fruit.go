package database

import (
	"database/sql"
	"fmt"
)

// Fruit is one row of the fruit table. ID is supplied by the caller and is
// unique through the table's primary key.
type Fruit struct {
	ID     int64
	Name   string
	Weight float64 // kilograms
}

// CreateFruit inserts a new fruit. A duplicate ID fails with the driver's
// constraint error and leaves the existing row untouched.
func (db *DB) CreateFruit(f Fruit) error {
	_, err := db.exec(`
		INSERT INTO fruit (id, name, weight) VALUES (?, ?, ?)
	`, f.ID, f.Name, f.Weight)
	if err != nil {
		return fmt.Errorf("failed to create fruit: %w", err)
	}
	return nil
}

// ListFruits returns every fruit ordered by ID.
func (db *DB) ListFruits() ([]Fruit, error) {
	rows, err := db.query("SELECT id, name, weight FROM fruit ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list fruits: %w", err)
	}
	defer rows.Close()

	var fruits []Fruit
	for rows.Next() {
		var f Fruit
		if err := rows.Scan(&f.ID, &f.Name, &f.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan fruit: %w", err)
		}
		fruits = append(fruits, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fruits: %w", err)
	}
	return fruits, nil
}

// UpdateFruitWeight sets the weight of one fruit. Returns ErrNotFound when
// no row has the given ID.
func (db *DB) UpdateFruitWeight(id int64, weight float64) error {
	result, err := db.exec("UPDATE fruit SET weight = ? WHERE id = ?", weight, id)
	if err != nil {
		return fmt.Errorf("failed to update fruit: %w", err)
	}
	return requireAffected(result, id)
}

// DeleteFruit removes one fruit. Returns ErrNotFound when no row has the given ID.
func (db *DB) DeleteFruit(id int64) error {
	result, err := db.exec("DELETE FROM fruit WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete fruit: %w", err)
	}
	return requireAffected(result, id)
}

// CountFruits returns the number of rows in the fruit table.
func (db *DB) CountFruits() (int64, error) {
	var count int64
	if err := db.queryRow("SELECT COUNT(*) FROM fruit").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fruits: %w", err)
	}
	return count, nil
}

func requireAffected(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("fruit %d: %w", id, ErrNotFound)
	}
	return nil
}
