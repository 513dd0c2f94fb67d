package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XavierBriggs/fairedge/internal/bookmeta"
)

// MarketsFile is the closed-set configuration loaded from
// MARKETS_CONFIG_PATH: which sport keys and market kinds this process
// ingests, which kinds count as "main lines" (spec §4.9), and which books
// are commission exchanges (spec §4.3).
type MarketsFile struct {
	SportKeys   []string `yaml:"sport_keys"`
	MarketKinds []string `yaml:"market_kinds"`
	MainLines   []string `yaml:"main_lines"`
	Exchanges   []struct {
		BookKey     string `yaml:"book_key"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"exchanges"`
}

// LoadMarketsFile reads and parses the closed-set markets config.
func LoadMarketsFile(path string) (*MarketsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading markets file %s: %w", path, err)
	}

	var mf MarketsFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("config: parsing markets file %s: %w", path, err)
	}

	return &mf, nil
}

// BookRegistry builds an internal/bookmeta.Registry from the configured
// exchange book set, defaulting every other book to fixed-odds. The take
// rate itself comes from the caller (cfg.ExchangeFee(), per spec §6's
// EXCHANGE_FEE_BPS) and applies uniformly to every configured exchange —
// markets.yaml defines which books are exchanges, not what they charge.
func (mf *MarketsFile) BookRegistry(fee float64) bookmeta.Registry {
	reg := make(bookmeta.Registry, len(mf.Exchanges))
	for _, ex := range mf.Exchanges {
		reg[ex.BookKey] = bookmeta.Book{
			BookKey:     ex.BookKey,
			DisplayName: ex.DisplayName,
			BookType:    bookmeta.BookTypeExchange,
			ExchangeFee: fee,
		}
	}
	return reg
}
