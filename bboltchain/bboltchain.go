// Package bboltchain is a persistent keychain.Store backed by bbolt:
// one bucket per key chain, keys stored as fixed-layout records keyed
// by their uint32 index (see DESIGN.md for the storage pattern this
// adapts). It is a minimal key-lifetime model, not a reimplementation
// of any particular vendor's key-chain CLI.
package bboltchain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/coreswitch/babeld-hmac/keychain"
	"github.com/coreswitch/babeld-hmac/stats"
)

var (
	bucketChains = []byte("key_chains")
	bucketStats  = []byte("stats")
)

// KeyRecord is the persisted form of one key-chain entry. Zero
// NotBefore/SendUntil/AcceptUntil mean "no lower/upper bound."
type KeyRecord struct {
	Index       uint32
	Secret      []byte
	NotBefore   time.Time
	SendUntil   time.Time
	AcceptUntil time.Time
}

// Store is a bbolt-backed keychain.Store. Each chain name maps to its
// own sub-bucket under bucketChains; each key is stored under its
// big-endian index so iteration order is already Index-ascending.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bboltchain: open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketChains, bucketStats} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bboltchain: init: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutKey writes rec into the named chain, creating the chain's
// sub-bucket if this is its first key.
func (s *Store) PutKey(chainName string, rec KeyRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.Bucket(bucketChains).CreateBucketIfNotExists([]byte(chainName))
		if err != nil {
			return err
		}
		return root.Put(indexKey(rec.Index), encodeKeyRecord(rec))
	})
}

// DeleteKey removes one key from a chain.
func (s *Store) DeleteKey(chainName string, index uint32) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketChains).Bucket([]byte(chainName))
		if b == nil {
			return nil
		}
		return b.Delete(indexKey(index))
	})
}

// Lookup implements keychain.Store.
func (s *Store) Lookup(name string) (keychain.Chain, bool) {
	var keys []keychain.ChainKey
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketChains).Bucket([]byte(name))
		if b == nil {
			return nil
		}
		found = true
		return b.ForEach(func(_, v []byte) error {
			rec, err := decodeKeyRecord(v)
			if err != nil {
				return nil // corrupt record: skip rather than fail the whole lookup
			}
			keys = append(keys, chainKeyFrom(rec))
			return nil
		})
	})
	if !found {
		return nil, false
	}
	return chain{keys: keys}, true
}

type chain struct{ keys []keychain.ChainKey }

func (c chain) Keys() []keychain.ChainKey { return c.keys }

func chainKeyFrom(rec KeyRecord) keychain.ChainKey {
	return keychain.ChainKey{
		Index:  rec.Index,
		Secret: rec.Secret,
		ValidSend: func(now time.Time) bool {
			return !now.Before(rec.NotBefore) && (rec.SendUntil.IsZero() || now.Before(rec.SendUntil))
		},
		ValidAccept: func(now time.Time) bool {
			return !now.Before(rec.NotBefore) && (rec.AcceptUntil.IsZero() || now.Before(rec.AcceptUntil))
		},
	}
}

func indexKey(index uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], index)
	return b[:]
}

// encodeKeyRecord lays out index(4) | not_before_unix(8) | send_until_unix(8)
// | accept_until_unix(8) | secret_len(2) | secret.
func encodeKeyRecord(rec KeyRecord) []byte {
	out := make([]byte, 4+8+8+8+2+len(rec.Secret))
	binary.BigEndian.PutUint32(out[0:4], rec.Index)
	binary.BigEndian.PutUint64(out[4:12], uint64(unixOrZero(rec.NotBefore)))
	binary.BigEndian.PutUint64(out[12:20], uint64(unixOrZero(rec.SendUntil)))
	binary.BigEndian.PutUint64(out[20:28], uint64(unixOrZero(rec.AcceptUntil)))
	binary.BigEndian.PutUint16(out[28:30], uint16(len(rec.Secret)))
	copy(out[30:], rec.Secret)
	return out
}

func decodeKeyRecord(b []byte) (KeyRecord, error) {
	if len(b) < 30 {
		return KeyRecord{}, fmt.Errorf("bboltchain: short key record")
	}
	secretLen := int(binary.BigEndian.Uint16(b[28:30]))
	if 30+secretLen != len(b) {
		return KeyRecord{}, fmt.Errorf("bboltchain: key record length mismatch")
	}
	return KeyRecord{
		Index:       binary.BigEndian.Uint32(b[0:4]),
		NotBefore:   timeOrZero(int64(binary.BigEndian.Uint64(b[4:12]))),
		SendUntil:   timeOrZero(int64(binary.BigEndian.Uint64(b[12:20]))),
		AcceptUntil: timeOrZero(int64(binary.BigEndian.Uint64(b[20:28]))),
		Secret:      append([]byte(nil), b[30:30+secretLen]...),
	}, nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

// SaveCounters persists one tier of statistics counters under key (e.g.
// "process" or "iface:eth0"), keyed by counter name so the layout
// survives additions to the Counter enum.
func (s *Store) SaveCounters(key string, c *stats.Counters) error {
	snapshot := make(map[string]uint64, len(stats.All()))
	for _, name := range stats.All() {
		snapshot[name.String()] = c.Get(name)
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("bboltchain: encode counters: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStats).Put([]byte(key), raw)
	})
}

// LoadCounters fills c from the persisted snapshot under key, leaving c
// untouched (zero) if nothing has been saved yet.
func (s *Store) LoadCounters(key string, c *stats.Counters) error {
	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketStats).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	var snapshot map[string]uint64
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("bboltchain: decode counters: %w", err)
	}
	for _, name := range stats.All() {
		c.Add(name, snapshot[name.String()])
	}
	return nil
}

// ClearCounters removes the persisted snapshot under key ("clear babel
// authentication stats").
func (s *Store) ClearCounters(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketStats).Delete([]byte(key))
	})
}
