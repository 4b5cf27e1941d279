// Package models contains the domain structures shared between the storage
// layer and the business services, plus the helper types used to accept data
// from external sources (JSON requests).
package models

import "time"

// ExpenseRecord is the canonical expense row. The ID is derived once at
// creation from the record's own fields and never changes afterwards; there
// is no update path, only create and delete.
type ExpenseRecord struct {
	ID          string    // Short opaque identifier, unique per store
	Date        string    // Calendar day, YYYY-MM-DD
	Amount      float64   // Strictly positive at creation
	Supplier    string    // Non-empty supplier name
	Category    string    // Must match a known category name
	Description string    // Free text
	FilePath    string    // Reference to the staged source document, may be empty
	SIRET       *string   // Optional French tax registration identifier
	TVARate     float64   // VAT percentage, defaults to 20.0
	Validated   bool      // Whether the record has been confirmed by the user
	CreatedAt   time.Time // Set by the service at creation
}

// DummyExpense receives expense data from a JSON request before it is
// converted into an ExpenseRecord. Dates arrive as strings so they can be
// validated and parsed explicitly.
type DummyExpense struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"` // Day in format 2006-01-02
	Amount      float64 `json:"amount" validate:"required,gt=0"`              // Amount (>0)
	Supplier    string  `json:"supplier" validate:"required"`                 // Supplier name
	Category    string  `json:"category" validate:"required"`                 // Category name
	Description string  `json:"description"`                                  // Free text
	FilePath    string  `json:"file_path"`                                    // Staged document reference
	SIRET       string  `json:"siret"`                                        // Optional tax id
	TVARate     float64 `json:"tva_rate"`                                     // VAT percentage, 0 means default
}
