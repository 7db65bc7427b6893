package item

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/triahq/tria/internal/entity"
)

// Store handles triage item persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new item store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListOptions configures which items to return from List.
type ListOptions struct {
	// Kind filters to a single item kind. Empty means all kinds.
	Kind entity.Kind
	// States filters to the given triage states. Empty means all states.
	States []entity.TriageState
	// IncludeArchived includes archived items in the result.
	IncludeArchived bool
}

// Add inserts a new item. The snapshot's ID must be set.
func (s *Store) Add(snap entity.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if snap.TriageState == "" {
		snap.TriageState = entity.TriageUnassigned
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO items (id, kind, category, labels, from_email, from_name, subject,
			received_at, starts_at, due_at, is_read, triage_state, snoozed_until,
			has_attachments, manual_priority, model_priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Kind), snap.Category, strings.Join(snap.Labels, ","),
		snap.FromEmail, snap.FromName, snap.Subject,
		timeArg(snap.ReceivedAt), ptrTimeArg(snap.StartsAt), ptrTimeArg(snap.DueAt),
		boolInt(snap.IsRead), string(snap.TriageState), ptrTimeArg(snap.SnoozedUntil),
		boolInt(snap.HasAttachments), snap.ManualPriority, snap.ModelPriority,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting item %s: %w", snap.ID, err)
	}

	if err := writeRelations(tx, snap); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Get returns a single item with its conflicts and dependencies.
func (s *Store) Get(id string) (*entity.Snapshot, error) {
	row := s.db.QueryRow(itemSelect+` WHERE id = ?`, id)
	snap, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("item %q not found", id)
	}
	if err := s.loadRelations(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns items matching the given options, unsorted. Ranking is the
// scorer's job, not the store's.
func (s *Store) List(opts ListOptions) ([]entity.Snapshot, error) {
	query := itemSelect
	var conditions []string
	var args []any

	if opts.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(opts.Kind))
	}
	if len(opts.States) > 0 {
		placeholders := make([]string, len(opts.States))
		for i, st := range opts.States {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		conditions = append(conditions, fmt.Sprintf("triage_state IN (%s)", strings.Join(placeholders, ",")))
	}
	if !opts.IncludeArchived {
		conditions = append(conditions, "COALESCE(archived, 0) = 0")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.Snapshot
	for rows.Next() {
		snap, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if err := s.loadRelations(&items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// SetTriageState updates the triage state. Moving out of snoozed clears the
// snooze deadline.
func (s *Store) SetTriageState(id string, state entity.TriageState) error {
	res, err := s.db.Exec(
		`UPDATE items SET triage_state = ?,
			snoozed_until = CASE WHEN ? != 'snoozed' THEN NULL ELSE snoozed_until END,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		string(state), string(state), id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// Snooze marks the item snoozed until the given time.
func (s *Store) Snooze(id string, until time.Time) error {
	res, err := s.db.Exec(
		`UPDATE items SET triage_state = 'snoozed', snoozed_until = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		until.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// MarkRead flips the read flag on an email item.
func (s *Store) MarkRead(id string, read bool) error {
	res, err := s.db.Exec(
		`UPDATE items SET is_read = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(read), id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// SetManualPriority sets or clears (nil) the manual priority override.
func (s *Store) SetManualPriority(id string, p *float64) error {
	res, err := s.db.Exec(
		`UPDATE items SET manual_priority = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		p, id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// Archive hides an item from listings without deleting it.
func (s *Store) Archive(id string) error {
	res, err := s.db.Exec(
		`UPDATE items SET archived = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// Delete removes an item. Conflicts and dependencies cascade.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("item %q not found", id)
	}
	return nil
}

// ReplaceRelations rewrites an item's conflicts and dependencies in one
// transaction.
func (s *Store) ReplaceRelations(snap entity.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM item_conflicts WHERE item_id = ?`, snap.ID); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM item_deps WHERE item_id = ?`, snap.ID); err != nil {
		tx.Rollback()
		return err
	}
	if err := writeRelations(tx, snap); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Count returns counts of unresolved and total items.
func (s *Store) Count() (open int, total int, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM items WHERE triage_state != 'resolved' AND COALESCE(archived, 0) = 0`,
	).Scan(&open)
	if err != nil {
		return
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE COALESCE(archived, 0) = 0`).Scan(&total)
	return
}

const itemSelect = `SELECT id, kind, category, labels, from_email, from_name, subject,
	received_at, starts_at, due_at, is_read, triage_state, snoozed_until,
	has_attachments, manual_priority, model_priority FROM items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Snapshot, error) {
	var snap entity.Snapshot
	var kind, state string
	var labels sql.NullString
	var receivedAt, startsAt, dueAt, snoozedUntil sql.NullString
	var isRead, hasAttachments int
	var manual, model sql.NullFloat64

	err := row.Scan(&snap.ID, &kind, &snap.Category, &labels, &snap.FromEmail,
		&snap.FromName, &snap.Subject, &receivedAt, &startsAt, &dueAt,
		&isRead, &state, &snoozedUntil, &hasAttachments, &manual, &model)
	if err != nil {
		return nil, err
	}

	snap.Kind = entity.Kind(kind)
	snap.TriageState = entity.TriageState(state)
	snap.IsRead = isRead == 1
	snap.HasAttachments = hasAttachments == 1
	if labels.Valid && labels.String != "" {
		snap.Labels = strings.Split(labels.String, ",")
	}
	if t := parseTimeCol(receivedAt); t != nil {
		snap.ReceivedAt = *t
	}
	snap.StartsAt = parseTimeCol(startsAt)
	snap.DueAt = parseTimeCol(dueAt)
	snap.SnoozedUntil = parseTimeCol(snoozedUntil)
	if manual.Valid {
		v := manual.Float64
		snap.ManualPriority = &v
	}
	if model.Valid {
		v := model.Float64
		snap.ModelPriority = &v
	}
	return &snap, nil
}

func (s *Store) loadRelations(snap *entity.Snapshot) error {
	rows, err := s.db.Query(
		`SELECT with_id, severity FROM item_conflicts WHERE item_id = ? ORDER BY id ASC`, snap.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.Conflict
		var sev string
		if err := rows.Scan(&c.WithID, &sev); err != nil {
			return err
		}
		c.Severity = entity.ConflictSeverity(sev)
		snap.Conflicts = append(snap.Conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	depRows, err := s.db.Query(
		`SELECT on_id, kind, blocking FROM item_deps WHERE item_id = ? ORDER BY id ASC`, snap.ID,
	)
	if err != nil {
		return err
	}
	defer depRows.Close()
	for depRows.Next() {
		var d entity.Dependency
		var kind string
		var blocking int
		if err := depRows.Scan(&d.OnID, &kind, &blocking); err != nil {
			return err
		}
		d.Kind = entity.DependencyKind(kind)
		d.Blocking = blocking == 1
		snap.Dependencies = append(snap.Dependencies, d)
	}
	return depRows.Err()
}

func writeRelations(tx *sql.Tx, snap entity.Snapshot) error {
	for _, c := range snap.Conflicts {
		sev := c.Severity
		if sev == "" {
			sev = entity.ConflictDefault
		}
		if _, err := tx.Exec(
			`INSERT INTO item_conflicts (item_id, with_id, severity) VALUES (?, ?, ?)`,
			snap.ID, c.WithID, string(sev),
		); err != nil {
			return fmt.Errorf("inserting conflict for %s: %w", snap.ID, err)
		}
	}
	for _, d := range snap.Dependencies {
		kind := d.Kind
		if kind == "" {
			kind = entity.DependencyOther
		}
		if _, err := tx.Exec(
			`INSERT INTO item_deps (item_id, on_id, kind, blocking) VALUES (?, ?, ?, ?)`,
			snap.ID, d.OnID, string(kind), boolInt(d.Blocking),
		); err != nil {
			return fmt.Errorf("inserting dependency for %s: %w", snap.ID, err)
		}
	}
	return nil
}

func parseTimeCol(col sql.NullString) *time.Time {
	if !col.Valid || col.String == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, col.String); err == nil {
		return &t
	}
	// Fallback for SQLite-native "YYYY-MM-DD HH:MM:SS" format.
	if t, err := time.Parse("2006-01-02 15:04:05", col.String); err == nil {
		return &t
	}
	return nil
}

func timeArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func ptrTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
