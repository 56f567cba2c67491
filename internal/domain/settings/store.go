package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// fileRates mirrors the on-disk config.json layout. Missing keys keep the
// defaults.
type fileRates struct {
	CBSRate *float64 `json:"CBS_RATE,omitempty"`
	IBSRate *float64 `json:"IBS_RATE,omitempty"`
}

// FileStore owns the persisted rates. Callers take a snapshot with Rates and
// pass it into the calculations.
type FileStore struct {
	path string

	mu      sync.RWMutex
	current Rates
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, current: DefaultRates()}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Rates() Rates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the file. A missing file yields the defaults; a malformed
// one is an error and leaves the current snapshot untouched.
func (s *FileStore) Reload() (Rates, error) {
	rates, err := s.read()
	if err != nil {
		return s.Rates(), err
	}
	s.mu.Lock()
	s.current = rates
	s.mu.Unlock()
	return rates, nil
}

func (s *FileStore) Save(rates Rates) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	cbs := rates.CBS.InexactFloat64()
	ibs := rates.IBS.InexactFloat64()
	payload, err := json.MarshalIndent(fileRates{CBSRate: &cbs, IBSRate: &ibs}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rates dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write rates: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace rates: %w", err)
	}
	_, err = s.Reload()
	return err
}

func (s *FileStore) read() (Rates, error) {
	rates := DefaultRates()
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return rates, nil
	}
	if err != nil {
		return rates, fmt.Errorf("read rates: %w", err)
	}

	var stored fileRates
	if err := json.Unmarshal(raw, &stored); err != nil {
		return rates, fmt.Errorf("%w: decode %s: %v", ErrInvalidRates, s.path, err)
	}
	if stored.CBSRate != nil {
		rates.CBS = decimal.NewFromFloat(*stored.CBSRate)
	}
	if stored.IBSRate != nil {
		rates.IBS = decimal.NewFromFloat(*stored.IBSRate)
	}
	if err := rates.Validate(); err != nil {
		return DefaultRates(), err
	}
	return rates, nil
}
