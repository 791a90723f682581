package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	ListenAddr          string   `json:"listenAddr"`
	DatabasePath        string   `json:"databasePath"`
	SeedProductsPath    string   `json:"seedProductsPath"`
	CurrencyTag         string   `json:"currencyTag"`
	SessionTTLHours     int      `json:"sessionTTLHours"`
	BuildPlaceholderURL string   `json:"buildPlaceholderUrl"`
	RequiredBuildSlots  []string `json:"requiredBuildSlots"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./drerwrk_config.json"

func defaults() Config {
	return Config{
		ListenAddr:          ":3000",
		DatabasePath:        "./drerwrk.db?_journal_mode=WAL&_busy_timeout=5000",
		SeedProductsPath:    "seed/products.csv",
		CurrencyTag:         "PHP",
		SessionTTLHours:     24 * 7,
		BuildPlaceholderURL: "/assets/img/pc_build_placeholder.png",
		RequiredBuildSlots:  []string{"CPUs", "Motherboards", "RAM", "Storage", "PSUs", "Casings"},
	}
}

func applyDefaults(c Config) Config {
	d := defaults()
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.SeedProductsPath == "" {
		c.SeedProductsPath = d.SeedProductsPath
	}
	if c.CurrencyTag == "" {
		c.CurrencyTag = d.CurrencyTag
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = d.SessionTTLHours
	}
	if c.BuildPlaceholderURL == "" {
		c.BuildPlaceholderURL = d.BuildPlaceholderURL
	}
	if len(c.RequiredBuildSlots) == 0 {
		c.RequiredBuildSlots = d.RequiredBuildSlots
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = defaults()
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = applyDefaults(tempCfg)

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	newCfg = applyDefaults(newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return applyDefaults(cfg)
}
