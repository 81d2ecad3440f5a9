// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/storage"
)

// CaseRepository implements storage.CaseRepository for BadgerDB.
type CaseRepository struct {
	backend *Backend
}

var _ storage.CaseRepository = (*CaseRepository)(nil)

// NewCaseRepository creates a new CaseRepository.
func NewCaseRepository(backend *Backend) (*CaseRepository, error) {
	return &CaseRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CaseRepository has no resources to release.
func (r *CaseRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CaseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// FindSimilar delegates to the backend.
func (r *CaseRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.CaseMatch, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// AddCases adds one or more case records to storage.
func (r *CaseRepository) AddCases(ctx context.Context, cases ...*core.CaseRecord) ([]*core.CaseRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range cases {
			// Use content-based ID if not set
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.NaturalKey())
			}

			record.InsertedAt = time.Now().UTC()
			record.UpdatedAt = record.InsertedAt

			// Store primary record
			key := makeCaseRecordKey(record.Id)
			if err := tx.Set(key, storage.MarshalCaseRecord(record)); err != nil {
				return err
			}

			// Store theory index entries
			for _, theory := range record.Theories {
				theoryKey := makeCaseTheoryKey(theory, record.Id)
				if err := tx.Set(theoryKey, storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}

			// Store code index
			if record.Code != "" {
				codeKey := makeCaseCodeKey(record.Code)
				if err := tx.Set(codeKey, storage.MarshalID(record.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return cases, err
}

// UpdateCases updates existing case records.
func (r *CaseRepository) UpdateCases(ctx context.Context, cases ...*core.CaseRecord) ([]*core.CaseRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range cases {
			key := makeCaseRecordKey(record.Id)

			// Read old record to detect index changes
			old, err := readCase(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			record.InsertedAt = old.InsertedAt
			record.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalCaseRecord(record)); err != nil {
				return err
			}

			// Reconcile theory index entries
			oldTheories := toSet(old.Theories)
			newTheories := toSet(record.Theories)
			for theory := range oldTheories {
				if _, ok := newTheories[theory]; !ok {
					if err := tx.Delete(makeCaseTheoryKey(theory, record.Id)); err != nil {
						return err
					}
				}
			}
			for theory := range newTheories {
				if _, ok := oldTheories[theory]; !ok {
					if err := tx.Set(makeCaseTheoryKey(theory, record.Id), storage.MarshalID(record.Id)); err != nil {
						return err
					}
				}
			}

			// Reconcile code index
			if old.Code != record.Code {
				if old.Code != "" {
					if err := tx.Delete(makeCaseCodeKey(old.Code)); err != nil {
						return err
					}
				}
				if record.Code != "" {
					if err := tx.Set(makeCaseCodeKey(record.Code), storage.MarshalID(record.Id)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return cases, err
}

// DeleteCases removes case records and their index entries by ID.
func (r *CaseRepository) DeleteCases(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCaseRecordKey(id)

			record, err := readCase(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			for _, theory := range record.Theories {
				if err := tx.Delete(makeCaseTheoryKey(theory, id)); err != nil {
					return err
				}
			}
			if record.Code != "" {
				if err := tx.Delete(makeCaseCodeKey(record.Code)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCase retrieves a single case record by ID.
func (r *CaseRepository) GetCase(ctx context.Context, id core.ID) (*core.CaseRecord, error) {
	var result *core.CaseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCase(tx, makeCaseRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCases retrieves multiple case records by their IDs.
func (r *CaseRepository) GetCases(ctx context.Context, ids ...core.ID) ([]*core.CaseRecord, error) {
	var result []*core.CaseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readCase(tx, makeCaseRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetCaseByCode finds a case record by its case code.
func (r *CaseRepository) GetCaseByCode(ctx context.Context, code string) (*core.CaseRecord, error) {
	var result *core.CaseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCaseCodeKey(code))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		err = item.Value(func(val []byte) error {
			id, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		result, err = readCase(tx, makeCaseRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCasesUsingTheory retrieves all cases recorded under the given theory
// label. The label is matched literally.
func (r *CaseRepository) GetCasesUsingTheory(ctx context.Context, name string) ([]*core.CaseRecord, error) {
	var result []*core.CaseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialCaseTheoryKey(name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		for _, id := range ids {
			record, err := readCase(tx, makeCaseRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// AllTheoryNames enumerates the distinct theory labels across all stored
// cases in lexicographic key order.
func (r *CaseRepository) AllTheoryNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(caseTheoryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Index keys sort by label, so duplicates are adjacent.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			name, ok := theoryNameFromKey(iter.Item().Key())
			if !ok {
				continue
			}
			if len(names) == 0 || names[len(names)-1] != name {
				names = append(names, name)
			}
		}
		return nil
	}, false)
	return names, err
}

// Helper methods

// toSet builds a membership set from a slice of labels.
func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// readCase reads a case record from the transaction.
func readCase(tx *badger.Txn, key []byte) (*core.CaseRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CaseRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalCaseRecord(val)
		return err
	})
	return record, err
}
