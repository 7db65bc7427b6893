package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/ui"
)

var addFlags struct {
	kind        string
	category    string
	labels      []string
	fromEmail   string
	fromName    string
	received    string
	starts      string
	due         string
	unread      bool
	attachments bool
	manual      float64
	model       float64
	conflicts   []string
	deps        []string
}

var addCmd = &cobra.Command{
	Use:   "add <subject>",
	Short: "Capture an email, timeline item, or task",
	Long: `Capture an item into the triage inbox.

Dates accept YYYY-MM-DD or RFC 3339. Conflicts take the form id[:error] and
dependencies id[:finish-to-start]; both apply to timeline items only.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringVarP(&addFlags.kind, "kind", "k", "email", "Item kind: email, timeline, task")
	f.StringVarP(&addFlags.category, "category", "c", "", "Classifier category, e.g. BOOKING/Offer")
	f.StringSliceVarP(&addFlags.labels, "label", "l", nil, "Classifier labels (repeatable)")
	f.StringVar(&addFlags.fromEmail, "from", "", "Sender email address")
	f.StringVar(&addFlags.fromName, "from-name", "", "Sender display name")
	f.StringVar(&addFlags.received, "received", "", "Received time (emails, default now)")
	f.StringVar(&addFlags.starts, "starts", "", "Start time (timeline items)")
	f.StringVar(&addFlags.due, "due", "", "Due time (tasks)")
	f.BoolVar(&addFlags.unread, "unread", true, "Mark email as unread")
	f.BoolVar(&addFlags.attachments, "attachments", false, "Email has attachments")
	f.Float64Var(&addFlags.manual, "priority", -1, "Manual priority 0-100")
	f.Float64Var(&addFlags.model, "model-priority", -1, "Classifier priority estimate 0-100")
	f.StringSliceVar(&addFlags.conflicts, "conflict", nil, "Conflicting item id[:error] (repeatable)")
	f.StringSliceVar(&addFlags.deps, "depends-on", nil, "Blocking predecessor id[:finish-to-start] (repeatable)")
}

func runAdd(_ *cobra.Command, args []string) error {
	kind, err := entity.ParseKind(addFlags.kind)
	if err != nil {
		return err
	}

	snap := entity.Snapshot{
		ID:             uuid.New().String(),
		Kind:           kind,
		Category:       addFlags.category,
		Labels:         addFlags.labels,
		FromEmail:      addFlags.fromEmail,
		FromName:       addFlags.fromName,
		Subject:        args[0],
		HasAttachments: addFlags.attachments,
		TriageState:    entity.TriageUnassigned,
	}

	switch kind {
	case entity.KindEmail:
		snap.IsRead = !addFlags.unread
		if addFlags.received != "" {
			t, err := parseWhen(addFlags.received)
			if err != nil {
				return fmt.Errorf("parsing --received: %w", err)
			}
			snap.ReceivedAt = t
		} else {
			snap.ReceivedAt = time.Now().UTC()
		}
	case entity.KindTimeline:
		if addFlags.starts != "" {
			t, err := parseWhen(addFlags.starts)
			if err != nil {
				return fmt.Errorf("parsing --starts: %w", err)
			}
			snap.StartsAt = &t
		}
	case entity.KindTask:
		if addFlags.due != "" {
			t, err := parseWhen(addFlags.due)
			if err != nil {
				return fmt.Errorf("parsing --due: %w", err)
			}
			snap.DueAt = &t
		}
	}

	if addFlags.manual >= 0 {
		v := addFlags.manual
		snap.ManualPriority = &v
	}
	if addFlags.model >= 0 {
		v := addFlags.model
		snap.ModelPriority = &v
	}

	for _, raw := range addFlags.conflicts {
		c := entity.Conflict{WithID: raw, Severity: entity.ConflictDefault}
		if id, sev, ok := strings.Cut(raw, ":"); ok {
			c.WithID = id
			if sev == "error" {
				c.Severity = entity.ConflictError
			}
		}
		snap.Conflicts = append(snap.Conflicts, c)
	}
	for _, raw := range addFlags.deps {
		d := entity.Dependency{OnID: raw, Kind: entity.DependencyOther, Blocking: true}
		if id, kind, ok := strings.Cut(raw, ":"); ok {
			d.OnID = id
			if kind == "finish-to-start" || kind == "fs" {
				d.Kind = entity.DependencyFinishToStart
			}
		}
		snap.Dependencies = append(snap.Dependencies, d)
	}

	db, _, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := items.Add(snap); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Added %s %s", kind, ui.Accent.Render(shortID(snap.ID))))
	ui.Inf("id: " + snap.ID)
	return nil
}

// parseWhen accepts a bare date or a full RFC 3339 timestamp.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
