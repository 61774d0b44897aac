/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package revregstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trustbloc/revocreg/pkg/anoncreds"
	"github.com/trustbloc/revocreg/pkg/dataprotect"
	"github.com/trustbloc/revocreg/pkg/service/pipeline"
	"github.com/trustbloc/revocreg/pkg/storage/mongodb"
)

const (
	collectionName = "revocation_registry"
	updatedAtField = "updated_at"
)

type dataProtector interface {
	Encrypt(ctx context.Context, msg []byte) (*dataprotect.EncryptedData, error)
	Decrypt(ctx context.Context, encryptedData *dataprotect.EncryptedData) ([]byte, error)
}

type document struct {
	ID         string                     `bson:"_id"`
	Accum      string                     `bson:"accum"`
	MaxCredNum uint32                     `bson:"max_cred_num"`
	Registry   map[string]interface{}     `bson:"registry"`
	Private    *dataprotect.EncryptedData `bson:"private"`
	UpdatedAt  time.Time                  `bson:"updated_at"`
}

// Store keeps the accumulator state of revocation registries in MongoDB. The registry private key
// material is encrypted by the data protector.
type Store struct {
	mongoClient   *mongodb.Client
	dataProtector dataProtector
}

// NewStore creates Store.
func NewStore(mongoClient *mongodb.Client, dataProtector dataProtector) *Store {
	return &Store{
		mongoClient:   mongoClient,
		dataProtector: dataProtector,
	}
}

// Put stores state. A state older than the stored one is ignored.
func (s *Store) Put(ctx context.Context, state *pipeline.RegistryState) error {
	registry, err := mongodb.StructureToMap(state.Registry)
	if err != nil {
		return fmt.Errorf("prepare registry state: %w", err)
	}

	private, err := json.Marshal(state.Private)
	if err != nil {
		return fmt.Errorf("marshal registry private: %w", err)
	}

	encrypted, err := s.dataProtector.Encrypt(ctx, private)
	if err != nil {
		return fmt.Errorf("encrypt registry private: %w", err)
	}

	doc := &document{
		ID:         state.RevRegDefID,
		Accum:      state.Registry.Accum(),
		MaxCredNum: state.Registry.MaxCredNum(),
		Registry:   registry,
		Private:    encrypted,
		UpdatedAt:  state.UpdatedAt.UTC(),
	}

	filter := bson.M{
		"_id":          state.RevRegDefID,
		updatedAtField: bson.M{"$lte": doc.UpdatedAt},
	}

	_, err = s.collection().ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// A newer state is stored: the filter missed and the upsert collided on _id.
		return nil
	}

	if err != nil {
		return fmt.Errorf("store registry state: %w", err)
	}

	return nil
}

// Get returns the state of the registry revRegDefID or pipeline.ErrStateNotFound.
func (s *Store) Get(ctx context.Context, revRegDefID string) (*pipeline.RegistryState, error) {
	doc := &document{}

	err := s.collection().FindOne(ctx, bson.M{"_id": revRegDefID}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pipeline.ErrStateNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("registry state find failed: %w", err)
	}

	registry := &anoncreds.RevocationRegistry{}

	if err = mongodb.MapToStructure(doc.Registry, registry); err != nil {
		return nil, fmt.Errorf("failed to decode registry state: %w", err)
	}

	if doc.Private == nil {
		return nil, fmt.Errorf("registry state %s has no private material", revRegDefID)
	}

	private, err := s.dataProtector.Decrypt(ctx, doc.Private)
	if err != nil {
		return nil, fmt.Errorf("decrypt registry private: %w", err)
	}

	state := &pipeline.RegistryState{
		RevRegDefID: doc.ID,
		Registry:    registry,
		Private:     &anoncreds.RevocationRegistryDefinitionPrivate{},
		UpdatedAt:   doc.UpdatedAt,
	}

	if err = json.Unmarshal(private, state.Private); err != nil {
		return nil, fmt.Errorf("failed to decode registry private: %w", err)
	}

	return state, nil
}

func (s *Store) collection() *mongo.Collection {
	return s.mongoClient.Database().Collection(collectionName)
}
