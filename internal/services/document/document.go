// Package document stages uploaded source documents (receipts, invoices)
// and stubs out text extraction, which is disabled in this deployment.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ExtractedData holds the pre-filled form defaults returned when automatic
// extraction is unavailable and the user must enter the data manually.
type ExtractedData struct {
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Supplier string  `json:"supplier"`
	Category string  `json:"category"`
	TVARate  float64 `json:"tva_rate"`
}

// Service stages uploads under a local directory.
type Service struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// New creates the staging directory if needed.
func New(dir string, log *slog.Logger) (*Service, error) {
	const op = "services.document.New"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Service{dir: dir, log: log, now: time.Now}, nil
}

// Stage writes the uploaded content to a uniquely named file in the staging
// directory, keeping the original extension, and returns the stored path.
func (s *Service) Stage(originalName string, r io.Reader) (string, error) {
	const op = "services.document.Stage"

	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("document staged", slog.String("path", path),
		slog.String("original", originalName))
	return path, nil
}

// Discard removes a previously staged file. Missing files are not an error.
func (s *Service) Discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to discard staged document", slog.String("path", path))
	}
}

// Extract is the stubbed extraction path: OCR and PDF parsing are disabled
// here, so it returns manual-entry defaults with the catch-all category.
func (s *Service) Extract(lang string) ExtractedData {
	category := "Autre"
	supplier := "Fournisseur à saisir"
	if lang == "se" {
		category = "Övrigt"
		supplier = "Leverantör att fylla i"
	}
	return ExtractedData{
		Date:     s.now().Format("2006-01-02"),
		Amount:   0,
		Supplier: supplier,
		Category: category,
		TVARate:  20.0,
	}
}
