package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/open-politics/open-politics-hq-sub007/internal/pipeline"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

// fakeResult implements sql.Result for the stub.
type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// stubQueries records executed queries and serves canned rows.
type stubQueries struct {
	flows   map[string]flowRow
	schemas []schemaRow

	execNames []string
	execRows  int64
	execErr   error
}

func (s *stubQueries) Get(name string, dest interface{}, args ...interface{}) error {
	switch name {
	case "get-flow":
		row, ok := s.flows[args[0].(string)]
		if !ok {
			return sql.ErrNoRows
		}
		*dest.(*flowRow) = row
		return nil
	default:
		return sql.ErrNoRows
	}
}

func (s *stubQueries) Select(name string, dest interface{}, args ...interface{}) error {
	switch name {
	case "list-flows":
		out := dest.(*[]flowRow)
		for _, row := range s.flows {
			*out = append(*out, row)
		}
		return nil
	case "list-schemas":
		*dest.(*[]schemaRow) = append([]schemaRow{}, s.schemas...)
		return nil
	default:
		return nil
	}
}

func (s *stubQueries) Exec(name string, args ...interface{}) (sql.Result, error) {
	s.execNames = append(s.execNames, name)
	if s.execErr != nil {
		return nil, s.execErr
	}
	return fakeResult{rows: s.execRows}, nil
}

func storedFlowRow(t *testing.T, f pipeline.Flow) flowRow {
	t.Helper()
	steps, err := f.Steps.Encode()
	if err != nil {
		t.Fatalf("encode steps: %v", err)
	}
	return flowRow{
		FlowID:        string(f.ID),
		WorkspaceID:   f.WorkspaceID,
		Name:          f.Name,
		State:         string(f.State),
		InputBundleID: f.InputBundleID,
		Steps:         string(steps),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func TestStore_GetFlow(t *testing.T) {
	f := pipeline.NewFlow("ws-1", "press review", 42)
	q := &stubQueries{flows: map[string]flowRow{string(f.ID): storedFlowRow(t, f)}}
	s := New(q)

	got, err := s.GetFlow("ws-1", f.ID)
	if err != nil {
		t.Fatalf("GetFlow() error = %v", err)
	}
	if got.Name != "press review" || got.State != pipeline.StateDraft {
		t.Errorf("flow = %+v", got)
	}
	if len(got.Steps) != 2 {
		t.Errorf("Steps len = %d, want starter pipeline restored", len(got.Steps))
	}
}

func TestStore_GetFlow_NotFound(t *testing.T) {
	s := New(&stubQueries{flows: map[string]flowRow{}})

	_, err := s.GetFlow("ws-1", types.NewFlowID())
	if !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("GetFlow() error = %v, want ErrFlowNotFound", err)
	}
}

func TestStore_ListFlows_SkipsMalformed(t *testing.T) {
	good := pipeline.NewFlow("ws-1", "good", 0)
	q := &stubQueries{flows: map[string]flowRow{
		string(good.ID): storedFlowRow(t, good),
		"broken": {
			FlowID:      "broken",
			WorkspaceID: "ws-1",
			State:       string(pipeline.StateDraft),
			Steps:       `{{{not json`,
		},
	}}
	s := New(q)

	flows, err := s.ListFlows("ws-1")
	if err != nil {
		t.Fatalf("ListFlows() error = %v", err)
	}
	if len(flows) != 1 || flows[0].Name != "good" {
		t.Errorf("flows = %+v, want only the decodable row", flows)
	}
}

func TestStore_UpdateFlow_NotFound(t *testing.T) {
	q := &stubQueries{execRows: 0}
	s := New(q)

	err := s.UpdateFlow(pipeline.NewFlow("ws-1", "f", 0))
	if !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("UpdateFlow() error = %v, want ErrFlowNotFound", err)
	}
}

func TestStore_DeleteFlow(t *testing.T) {
	q := &stubQueries{execRows: 1}
	s := New(q)

	if err := s.DeleteFlow("ws-1", types.NewFlowID()); err != nil {
		t.Fatalf("DeleteFlow() error = %v", err)
	}
	if len(q.execNames) != 1 || q.execNames[0] != "delete-flow" {
		t.Errorf("executed = %v", q.execNames)
	}
}

func TestStore_CreateFlow_PersistsDocument(t *testing.T) {
	q := &stubQueries{execRows: 1}
	s := New(q)

	if err := s.CreateFlow(pipeline.NewFlow("ws-1", "f", 7)); err != nil {
		t.Fatalf("CreateFlow() error = %v", err)
	}
	if len(q.execNames) != 1 || q.execNames[0] != "create-flow" {
		t.Errorf("executed = %v", q.execNames)
	}
}

func TestStore_LoadRegistry(t *testing.T) {
	q := &stubQueries{schemas: []schemaRow{
		{
			SchemaID:     7,
			WorkspaceID:  "ws-1",
			Name:         "Sentiment",
			OutputFields: `[{"name": "sentiment", "type": "string"}]`,
			CreatedAt:    time.Now(),
		},
		{
			SchemaID:     8,
			WorkspaceID:  "ws-1",
			Name:         "Broken",
			OutputFields: `{{{`,
		},
	}}
	s := New(q)

	reg, err := s.LoadRegistry("ws-1")
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	schema, ok := reg.ResolveSchema(7)
	if !ok {
		t.Fatalf("schema 7 missing from registry")
	}
	if schema.Name != "Sentiment" || len(schema.OutputFields) != 1 {
		t.Errorf("schema = %+v", schema)
	}
	if schema.OutputFields[0].Type != types.TypeString {
		t.Errorf("field type = %v, want string", schema.OutputFields[0].Type)
	}
	// The undecodable schema row is skipped, not fatal.
	if _, ok := reg.ResolveSchema(8); ok {
		t.Errorf("malformed schema row leaked into registry")
	}
}
