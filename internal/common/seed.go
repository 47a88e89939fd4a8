package common

import (
	"fmt"
	"os"
	"path/filepath"

	"trade-desk-go/internal/oracle"
	"trade-desk-go/internal/store"

	"gopkg.in/yaml.v2"
)

// WalletSeed describes one wallet configuration in the seed file.
type WalletSeed struct {
	Asset       string `yaml:"asset"`
	DisplayName string `yaml:"display_name"`
	Network     string `yaml:"network"`
	Address     string `yaml:"address"`
	QrUrl       string `yaml:"qr_url"`
	Active      *bool  `yaml:"active"`
}

// SeedFile is the on-disk shape of the assets/wallets seed configuration.
type SeedFile struct {
	Wallets []WalletSeed          `yaml:"wallets"`
	Assets  []oracle.AssetMapping `yaml:"assets"`
}

// LoadSeedFile reads the seed configuration, resolving relative paths against
// the working directory.
func LoadSeedFile(file string) (*SeedFile, error) {
	var path string
	if filepath.IsAbs(file) {
		path = file
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}
	if len(seed.Assets) == 0 {
		return nil, fmt.Errorf("%s contains no assets", file)
	}
	return &seed, nil
}

// WalletConfigParams converts a seed entry into store parameters. Active
// defaults to true when unset.
func (w WalletSeed) WalletConfigParams() store.WalletConfigParams {
	active := true
	if w.Active != nil {
		active = *w.Active
	}
	return store.WalletConfigParams{
		Asset:       w.Asset,
		DisplayName: w.DisplayName,
		Network:     w.Network,
		Address:     w.Address,
		QrUrl:       w.QrUrl,
		Active:      active,
	}
}
