package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// Storage keys. The token is the raw bearer string, the user the
// JSON-serialized profile.
const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

var sessionBucket = []byte("session")

// Records is the durable session record. Save and Clear touch both keys in
// one transaction, so the persisted state is either complete or absent —
// never split, even across abrupt termination.
type Records interface {
	Save(token string, user []byte) error
	Load() (token string, user []byte, err error)
	Clear() error
	Close() error
}

// BoltRecords stores the session record in a bbolt database file.
type BoltRecords struct {
	db *bbolt.DB
}

var _ Records = (*BoltRecords)(nil)

// OpenBoltRecords opens (creating if needed) the session database at path.
func OpenBoltRecords(path string) (*BoltRecords, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	return &BoltRecords{db: db}, nil
}

func (r *BoltRecords) Save(token string, user []byte) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(tokenKey), []byte(token)); err != nil {
			return err
		}
		return b.Put([]byte(userKey), user)
	})
}

func (r *BoltRecords) Load() (string, []byte, error) {
	var token string
	var user []byte

	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		token = string(b.Get([]byte(tokenKey)))
		if v := b.Get([]byte(userKey)); v != nil {
			user = make([]byte, len(v))
			copy(user, v)
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (r *BoltRecords) Clear() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(userKey))
	})
}

func (r *BoltRecords) Close() error {
	return r.db.Close()
}
