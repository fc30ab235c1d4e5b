package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// ParseError reports a malformed line in a transaction file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadOptions controls how raw item names are normalized.
type ReadOptions struct {
	// Aliases maps alternative spellings to canonical item names.
	Aliases map[string]string
}

func (o ReadOptions) canonical(item string) string {
	if o.Aliases != nil {
		if c, ok := o.Aliases[item]; ok {
			return c
		}
	}
	return item
}

// Read parses transactions from r. Either every line parses or an error is
// returned; partial results are never handed back.
func Read(r io.Reader, opts ReadOptions) ([]mining.Transaction[string], error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // baskets vary in size
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var txns []mining.Transaction[string]
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Line: pe.StartLine, Err: pe.Err}
			}
			return nil, fmt.Errorf("failed to read transactions: %w", err)
		}

		items := make([]string, 0, len(row))
		for _, field := range row {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			items = append(items, opts.canonical(field))
		}
		txns = append(txns, mining.NewTransaction(items...))
	}

	return txns, nil
}

// ReadFile parses the transactions of a single file.
func ReadFile(path string, opts ReadOptions) ([]mining.Transaction[string], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	txns, err := Read(f, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
			return nil, pe
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return txns, nil
}

// Load reads one or more files into a single Dataset, concatenating their
// transactions in argument order.
func Load(paths []string, opts ReadOptions) (*Dataset, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no transaction files given")
	}

	ds := &Dataset{Name: nameFor(paths), Files: append([]string(nil), paths...)}
	for _, p := range paths {
		txns, err := ReadFile(p, opts)
		if err != nil {
			return nil, err
		}
		ds.Transactions = append(ds.Transactions, txns...)
	}
	return ds, nil
}

// Write writes one CSV line per basket.
func Write(w io.Writer, baskets [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(baskets); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}
	return nil
}

// WriteFile writes baskets to path, creating parent directories as needed.
func WriteFile(path string, baskets [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, baskets); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
