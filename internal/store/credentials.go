package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/decollzoq/bookmark-service/internal/auth"
)

// credPrefix namespaces credential keys away from the state snapshot.
const credPrefix = "cred:"

// Credentials implements auth.CredentialStore over the store's Badger DB, so
// tokens survive restarts alongside the state snapshot.
type Credentials struct {
	db *badger.DB
}

// Get returns a stored credential, or auth.ErrNoCredential.
func (c *Credentials) Get(key string) (string, error) {
	var value string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if isNotFound(err) {
		return "", auth.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("read credential %q: %w", key, err)
	}
	return value, nil
}

// Set stores a credential.
func (c *Credentials) Set(key, value string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(credPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("store credential %q: %w", key, err)
	}
	return nil
}

// Remove deletes a credential. Removing an absent key is not an error.
func (c *Credentials) Remove(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(credPrefix + key))
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("remove credential %q: %w", key, err)
	}
	return nil
}
