package structure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/structdxf/internal/geometry"
)

// Load type discriminators in the loads table.
const (
	loadTypePoint  = "point"
	loadTypeMoment = "moment"
)

// Record is a stored model together with where it came from.
type Record struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SourceFile   string    `json:"source_file"`
	ImportID     string    `json:"import_id"`
	WarningCount int       `json:"warning_count"`
	Summary      Summary   `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`

	// Model is nil in List results.
	Model *Model `json:"-"`
}

// Repository defines persistence for imported models.
type Repository interface {
	Save(ctx context.Context, rec *Record) (int64, error)
	Get(ctx context.Context, id int64) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed model repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save stores rec and its model in a single transaction and returns the new ID.
// rec.ID and rec.CreatedAt are set on success.
func (r *SQLiteRepository) Save(ctx context.Context, rec *Record) (int64, error) {
	if rec == nil || rec.Model == nil {
		return 0, fmt.Errorf("saving model: no model given")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	created := time.Now().UTC()
	summary := rec.Model.Summary()

	res, err := tx.ExecContext(ctx, `INSERT INTO models
		(name, source_file, import_id, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Name, rec.SourceFile, rec.ImportID, rec.WarningCount, created.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting model %q: %w", rec.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading model id: %w", err)
	}

	if err := insertContents(ctx, tx, id, rec.Model); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing model %q: %w", rec.Name, err)
	}

	rec.ID = id
	rec.CreatedAt = created
	rec.Summary = summary
	return id, nil
}

func insertContents(ctx context.Context, tx *sql.Tx, modelID int64, m *Model) error {
	for _, n := range m.Nodes() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (model_id, node_id, x, y) VALUES (?, ?, ?, ?)`,
			modelID, n.ID, n.Point.X, n.Point.Y); err != nil {
			return fmt.Errorf("inserting node %d: %w", n.ID, err)
		}
	}

	for _, el := range m.Elements() {
		props, err := encodeProperties(el.Properties)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO elements
			(model_id, element_id, type, start_node, end_node, properties)
			VALUES (?, ?, ?, ?, ?, ?)`,
			modelID, el.ID, string(el.Type), el.StartNode, el.EndNode, props); err != nil {
			return fmt.Errorf("inserting element %d: %w", el.ID, err)
		}
	}

	for i, s := range m.Supports() {
		props, err := encodeProperties(s.Properties)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO supports
			(model_id, seq, node_id, kind, properties) VALUES (?, ?, ?, ?, ?)`,
			modelID, i, s.NodeID, string(s.Kind), props); err != nil {
			return fmt.Errorf("inserting support at node %d: %w", s.NodeID, err)
		}
	}

	seq := 0
	for _, l := range m.PointLoads() {
		props, err := encodeProperties(l.Properties)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO loads
			(model_id, seq, node_id, type, fx, fy, ty, rotation, properties)
			VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			modelID, seq, l.NodeID, loadTypePoint, l.Fx, l.Fy, l.Rotation, props); err != nil {
			return fmt.Errorf("inserting point load at node %d: %w", l.NodeID, err)
		}
		seq++
	}
	for _, l := range m.MomentLoads() {
		props, err := encodeProperties(l.Properties)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO loads
			(model_id, seq, node_id, type, fx, fy, ty, rotation, properties)
			VALUES (?, ?, ?, ?, 0, 0, ?, 0, ?)`,
			modelID, seq, l.NodeID, loadTypeMoment, l.Ty, props); err != nil {
			return fmt.Errorf("inserting moment load at node %d: %w", l.NodeID, err)
		}
		seq++
	}
	return nil
}

// Get loads a stored model by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, source_file, import_id,
		warning_count, created_at FROM models WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}

	m, err := r.loadModel(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Model = m
	rec.Summary = m.Summary()
	return rec, nil
}

// List returns all stored models without their contents, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT m.id, m.name, m.source_file, m.import_id,
		m.warning_count, m.created_at,
		(SELECT COUNT(*) FROM nodes WHERE model_id = m.id),
		(SELECT COUNT(*) FROM elements WHERE model_id = m.id),
		(SELECT COUNT(*) FROM supports WHERE model_id = m.id),
		(SELECT COUNT(*) FROM loads WHERE model_id = m.id AND type = 'point'),
		(SELECT COUNT(*) FROM loads WHERE model_id = m.id AND type = 'moment')
		FROM models m ORDER BY m.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying models: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var created string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.SourceFile, &rec.ImportID,
			&rec.WarningCount, &created,
			&rec.Summary.Nodes, &rec.Summary.Elements, &rec.Summary.Supports,
			&rec.Summary.PointLoads, &rec.Summary.MomentLoads); err != nil {
			return nil, fmt.Errorf("scanning model row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created) //nolint:errcheck // Format is controlled
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating models: %w", err)
	}
	return records, nil
}

// Delete removes a stored model and its contents.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting model %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting model %d: %w", id, err)
	}
	if n == 0 {
		return ErrModelNotFound
	}
	return nil
}

func scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var created string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.SourceFile, &rec.ImportID,
		&rec.WarningCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning model: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created) //nolint:errcheck // Format is controlled
	return &rec, nil
}

// loadModel rebuilds the in-memory model from the content tables.
func (r *SQLiteRepository) loadModel(ctx context.Context, modelID int64) (*Model, error) {
	m := NewModel()

	nodeRows, err := r.db.QueryContext(ctx,
		`SELECT node_id, x, y FROM nodes WHERE model_id = ? ORDER BY node_id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var n Node
		if err := nodeRows.Scan(&n.ID, &n.Point.X, &n.Point.Y); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		m.nodes = append(m.nodes, n)
		m.nodeIndex[geometry.Round(n.Point)] = n.ID
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	elRows, err := r.db.QueryContext(ctx, `SELECT element_id, type, start_node, end_node, properties
		FROM elements WHERE model_id = ? ORDER BY element_id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("querying elements: %w", err)
	}
	defer elRows.Close()
	for elRows.Next() {
		var el Element
		var elType, props string
		if err := elRows.Scan(&el.ID, &elType, &el.StartNode, &el.EndNode, &props); err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		el.Type = ElementType(elType)
		if el.Properties, err = decodeProperties(props); err != nil {
			return nil, err
		}
		m.elements = append(m.elements, el)
	}
	if err := elRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating elements: %w", err)
	}

	supRows, err := r.db.QueryContext(ctx, `SELECT node_id, kind, properties
		FROM supports WHERE model_id = ? ORDER BY seq`, modelID)
	if err != nil {
		return nil, fmt.Errorf("querying supports: %w", err)
	}
	defer supRows.Close()
	for supRows.Next() {
		var s Support
		var kind, props string
		if err := supRows.Scan(&s.NodeID, &kind, &props); err != nil {
			return nil, fmt.Errorf("scanning support: %w", err)
		}
		s.Kind = SupportKind(kind)
		if s.Properties, err = decodeProperties(props); err != nil {
			return nil, err
		}
		m.supports = append(m.supports, s)
	}
	if err := supRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supports: %w", err)
	}

	loadRows, err := r.db.QueryContext(ctx, `SELECT node_id, type, fx, fy, ty, rotation, properties
		FROM loads WHERE model_id = ? ORDER BY seq`, modelID)
	if err != nil {
		return nil, fmt.Errorf("querying loads: %w", err)
	}
	defer loadRows.Close()
	for loadRows.Next() {
		var nodeID int
		var loadType, props string
		var fx, fy, ty, rot float64
		if err := loadRows.Scan(&nodeID, &loadType, &fx, &fy, &ty, &rot, &props); err != nil {
			return nil, fmt.Errorf("scanning load: %w", err)
		}
		p, err := decodeProperties(props)
		if err != nil {
			return nil, err
		}
		switch loadType {
		case loadTypePoint:
			m.pointLoads = append(m.pointLoads, PointLoad{NodeID: nodeID, Fx: fx, Fy: fy, Rotation: rot, Properties: p})
		case loadTypeMoment:
			m.momentLoads = append(m.momentLoads, MomentLoad{NodeID: nodeID, Ty: ty, Properties: p})
		default:
			return nil, fmt.Errorf("unknown load type %q", loadType)
		}
	}
	if err := loadRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating loads: %w", err)
	}

	return m, nil
}
