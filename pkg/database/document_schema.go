package database

import (
	"context"
	"fmt"

	"github.com/biyonik/conduit-orm/pkg/database/migration"
)

// documentSchema, doküman deposunda tabloları collection olarak yönetir.
// Doküman deposu şemasız olduğundan kolon tanımları yok sayılır.
type documentSchema struct {
	adapter *DocumentAdapter
}

func (s *documentSchema) store() (DocumentStore, error) {
	store := s.adapter.Store()
	if store == nil {
		return nil, &ConnectionError{Connection: s.adapter.Name()}
	}
	return store, nil
}

func (s *documentSchema) CreateTable(ctx context.Context, name string, build func(*migration.Blueprint)) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if build != nil {
		build(migration.NewBlueprint(name))
	}
	if err := store.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	s.adapter.opts.Logger.Info("created collection", "collection", name)
	return nil
}

func (s *documentSchema) DropTable(ctx context.Context, name string) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	if err := store.DropCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	s.adapter.opts.Logger.Info("dropped collection", "collection", name)
	return nil
}

func (s *documentSchema) TableExists(ctx context.Context, name string) (bool, error) {
	store, err := s.store()
	if err != nil {
		return false, err
	}
	return store.CollectionExists(ctx, name)
}

// AlterTable şemasız depoda yapılacak bir şey olmadığı için no-op'tur.
func (s *documentSchema) AlterTable(ctx context.Context, name string, _ func(*migration.Blueprint)) error {
	exists, err := s.TableExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Table: name}
	}
	return nil
}

func (s *documentSchema) DropAllTables(ctx context.Context) error {
	store, err := s.store()
	if err != nil {
		return err
	}
	names, err := store.Collections(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.DropTable(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentSchema) CreateMigrationSchema(ctx context.Context, name string) error {
	return s.CreateTable(ctx, name, migration.MigrationBlueprint)
}

func (s *documentSchema) CreateDatabase(context.Context, string) error {
	return fmt.Errorf("create database: %w", migration.ErrNotImplemented)
}

func (s *documentSchema) DatabaseExists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("database exists: %w", migration.ErrNotImplemented)
}

func (s *documentSchema) DropDatabase(context.Context, string) error {
	return fmt.Errorf("drop database: %w", migration.ErrNotImplemented)
}
