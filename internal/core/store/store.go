// Package store persists flows, annotation schemas, and bundles through
// named queries, and materializes schema-registry snapshots for catalog
// computation.
//
// Flows are stored with their step sequence serialized as the boundary
// pipeline document; the store is the only place that (de)serializes
// it. All reads and writes are workspace-scoped.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/pipeline"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

// Store sentinel errors.
var (
	ErrFlowNotFound   = errors.New("flow not found")
	ErrSchemaNotFound = errors.New("annotation schema not found")
	ErrBundleNotFound = errors.New("bundle not found")
)

// Queries is the named-query interface the store needs.
// Implemented by *db.Queries; narrowed here so tests can stub it.
type Queries interface {
	Get(name string, dest interface{}, args ...interface{}) error
	Select(name string, dest interface{}, args ...interface{}) error
	Exec(name string, args ...interface{}) (sql.Result, error)
}

// Store provides workspace-scoped persistence for flow definitions and
// their collaborating records.
type Store struct {
	q Queries
}

// New creates a store over the given query set.
func New(q Queries) *Store {
	return &Store{q: q}
}

type flowRow struct {
	FlowID        string    `db:"flow_id"`
	WorkspaceID   string    `db:"workspace_id"`
	Name          string    `db:"name"`
	State         string    `db:"state"`
	InputBundleID int64     `db:"input_bundle_id"`
	Steps         string    `db:"steps"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// CreateFlow persists a new flow definition.
func (s *Store) CreateFlow(f pipeline.Flow) error {
	steps, err := f.Steps.Encode()
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	_, err = s.q.Exec("create-flow",
		string(f.ID), f.WorkspaceID, f.Name, string(f.State),
		f.InputBundleID, string(steps), f.CreatedAt.UTC(), f.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create flow: %w", err)
	}
	return nil
}

// GetFlow loads one flow by ID within a workspace.
func (s *Store) GetFlow(workspaceID string, id types.FlowID) (pipeline.Flow, error) {
	var row flowRow
	err := s.q.Get("get-flow", &row, string(id), workspaceID)
	if err == sql.ErrNoRows {
		return pipeline.Flow{}, ErrFlowNotFound
	}
	if err != nil {
		return pipeline.Flow{}, fmt.Errorf("get flow: %w", err)
	}
	return rowToFlow(row)
}

// ListFlows returns a workspace's flows, newest first.
func (s *Store) ListFlows(workspaceID string) ([]pipeline.Flow, error) {
	var rows []flowRow
	if err := s.q.Select("list-flows", &rows, workspaceID); err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	flows := make([]pipeline.Flow, 0, len(rows))
	for _, row := range rows {
		f, err := rowToFlow(row)
		if err != nil {
			// Malformed stored document: skip so the rest of the
			// workspace stays listable.
			continue
		}
		flows = append(flows, f)
	}
	return flows, nil
}

// UpdateFlow overwrites a flow's mutable columns. The whole definition
// is replaced, matching the copy-on-write editing model.
func (s *Store) UpdateFlow(f pipeline.Flow) error {
	steps, err := f.Steps.Encode()
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}
	res, err := s.q.Exec("update-flow",
		f.Name, string(f.State), f.InputBundleID, string(steps),
		f.UpdatedAt.UTC(), string(f.ID), f.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFlowNotFound
	}
	return nil
}

// DeleteFlow removes a flow. Deleting the flow destroys its pipeline;
// the steps have no existence outside the owning flow.
func (s *Store) DeleteFlow(workspaceID string, id types.FlowID) error {
	res, err := s.q.Exec("delete-flow", string(id), workspaceID)
	if err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFlowNotFound
	}
	return nil
}

func rowToFlow(row flowRow) (pipeline.Flow, error) {
	steps, err := pipeline.Decode([]byte(row.Steps))
	if err != nil {
		return pipeline.Flow{}, fmt.Errorf("decode steps for flow %s: %w", row.FlowID, err)
	}
	return pipeline.Flow{
		ID:            types.FlowID(row.FlowID),
		WorkspaceID:   row.WorkspaceID,
		Name:          row.Name,
		State:         pipeline.FlowState(row.State),
		InputBundleID: row.InputBundleID,
		Steps:         steps,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

// SchemaRecord is a stored annotation schema with its assigned ID.
type SchemaRecord struct {
	SchemaID    int64
	WorkspaceID string
	Schema      catalog.Schema
	CreatedAt   time.Time
}

type schemaRow struct {
	SchemaID     int64     `db:"schema_id"`
	WorkspaceID  string    `db:"workspace_id"`
	Name         string    `db:"name"`
	OutputFields string    `db:"output_fields"`
	CreatedAt    time.Time `db:"created_at"`
}

// CreateSchema stores an annotation schema contract.
func (s *Store) CreateSchema(workspaceID, name string, outputFields []catalog.SchemaField) error {
	fields, err := json.Marshal(outputFields)
	if err != nil {
		return fmt.Errorf("encode output fields: %w", err)
	}
	_, err = s.q.Exec("create-schema", workspaceID, name, string(fields), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// GetSchema loads one annotation schema.
func (s *Store) GetSchema(workspaceID string, schemaID int64) (SchemaRecord, error) {
	var row schemaRow
	err := s.q.Get("get-schema", &row, schemaID, workspaceID)
	if err == sql.ErrNoRows {
		return SchemaRecord{}, ErrSchemaNotFound
	}
	if err != nil {
		return SchemaRecord{}, fmt.Errorf("get schema: %w", err)
	}
	return rowToSchema(row)
}

// ListSchemas returns a workspace's annotation schemas.
func (s *Store) ListSchemas(workspaceID string) ([]SchemaRecord, error) {
	var rows []schemaRow
	if err := s.q.Select("list-schemas", &rows, workspaceID); err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	records := make([]SchemaRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToSchema(row)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadRegistry materializes a workspace's schemas as the in-memory
// registry snapshot catalog computation runs against. The snapshot is
// point-in-time; callers reload when freshness matters.
func (s *Store) LoadRegistry(workspaceID string) (catalog.Registry, error) {
	records, err := s.ListSchemas(workspaceID)
	if err != nil {
		return nil, err
	}
	reg := make(catalog.Registry, len(records))
	for _, rec := range records {
		reg[rec.SchemaID] = rec.Schema
	}
	return reg, nil
}

func rowToSchema(row schemaRow) (SchemaRecord, error) {
	var fields []catalog.SchemaField
	if row.OutputFields != "" {
		if err := json.Unmarshal([]byte(row.OutputFields), &fields); err != nil {
			return SchemaRecord{}, fmt.Errorf("decode output fields for schema %d: %w", row.SchemaID, err)
		}
	}
	return SchemaRecord{
		SchemaID:    row.SchemaID,
		WorkspaceID: row.WorkspaceID,
		Schema:      catalog.Schema{Name: row.Name, OutputFields: fields},
		CreatedAt:   row.CreatedAt,
	}, nil
}

// Bundle is a named asset collection used as flow input or destination.
type Bundle struct {
	BundleID    int64     `db:"bundle_id"`
	WorkspaceID string    `db:"workspace_id"`
	Name        string    `db:"name"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreateBundle stores a bundle record.
func (s *Store) CreateBundle(workspaceID, name string) error {
	_, err := s.q.Exec("create-bundle", workspaceID, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	return nil
}

// GetBundle loads one bundle.
func (s *Store) GetBundle(workspaceID string, bundleID int64) (Bundle, error) {
	var b Bundle
	err := s.q.Get("get-bundle", &b, bundleID, workspaceID)
	if err == sql.ErrNoRows {
		return Bundle{}, ErrBundleNotFound
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("get bundle: %w", err)
	}
	return b, nil
}

// ListBundles returns a workspace's bundles.
func (s *Store) ListBundles(workspaceID string) ([]Bundle, error) {
	var bundles []Bundle
	if err := s.q.Select("list-bundles", &bundles, workspaceID); err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	return bundles, nil
}
