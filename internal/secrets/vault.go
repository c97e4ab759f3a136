// Package secrets reads service secrets stored in Vault KV v2.
package secrets

import (
	"errors"
	"fmt"
	"sync"

	vaultapi "github.com/hashicorp/vault/api"
)

const keyData = "data"

var (
	ErrUnableToCastData = errors.New("failed to cast data")
	ErrSecretNotFound   = errors.New("secret not found")
)

type vaultReader interface {
	Read(path string) (*vaultapi.Secret, error)
}

// Store reads secrets below the base path and keeps them in memory
type Store struct {
	cli      vaultReader
	basePath string

	cache map[string]string
	mux   sync.Mutex
}

func NewStore(cli vaultReader, path string) *Store {
	return &Store{
		cli:      cli,
		basePath: path,
		cache:    make(map[string]string),
	}
}

func NewVaultClient(address, token string) (*vaultapi.Logical, error) {
	cfg := vaultapi.DefaultConfig()
	cfg.Address = address

	cli, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	cli.SetToken(token)

	return cli.Logical(), nil
}

func (s *Store) getPath(name string) string {
	return fmt.Sprintf("%s%s", s.basePath, name)
}

// Get returns the field of the named secret
func (s *Store) Get(name, field string) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	cacheKey := name + "/" + field
	if value, ok := s.cache[cacheKey]; ok {
		return value, nil
	}

	sec, err := s.cli.Read(s.getPath(name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	if sec == nil {
		return "", fmt.Errorf("%s: %w", name, ErrSecretNotFound)
	}

	data, ok := sec.Data[keyData].(map[string]interface{})
	if !ok {
		return "", ErrUnableToCastData
	}

	raw, ok := data[field]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", name, field, ErrSecretNotFound)
	}

	value, ok := raw.(string)
	if !ok {
		return "", ErrUnableToCastData
	}

	s.cache[cacheKey] = value

	return value, nil
}
