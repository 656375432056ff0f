// Package actionlog persists the controller's audit trail so runs can be
// inspected and exported after the fact.
package actionlog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/adms/core/model"
)

// Record is one persisted control step.
type Record struct {
	RunID        string       `json:"run_id"`
	Seq          int          `json:"seq"`
	Timestamp    time.Time    `json:"timestamp"`
	DemandMW     float64      `json:"demand_mw"`
	GenerationMW float64      `json:"generation_mw"`
	Regime       model.Regime `json:"regime"`
	Action       string       `json:"action"`
}

// NewRecord wraps an action record produced by the controller.
func NewRecord(runID string, seq int, rec model.ActionRecord) Record {
	return Record{
		RunID:        runID,
		Seq:          seq,
		Timestamp:    rec.Timestamp,
		DemandMW:     rec.DemandMW,
		GenerationMW: rec.GenerationMW,
		Regime:       rec.Regime,
		Action:       rec.Action,
	}
}

// ActionRecord returns the controller view of the record.
func (r Record) ActionRecord() model.ActionRecord {
	return model.ActionRecord{
		Timestamp:    r.Timestamp,
		DemandMW:     r.DemandMW,
		GenerationMW: r.GenerationMW,
		Regime:       r.Regime,
		Action:       r.Action,
	}
}

// Kind filters records by what happened during the step.
type Kind string

const (
	KindAny      Kind = ""
	KindShed     Kind = "shed"
	KindRestored Kind = "restored"
	KindFailure  Kind = "failure"
	KindNone     Kind = "none"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAny, KindShed, KindRestored, KindFailure, KindNone:
		return k, nil
	default:
		return KindAny, fmt.Errorf("unknown record kind %q", s)
	}
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start time.Time
	End   time.Time
	RunID string
	Kind  Kind
}

// Match reports whether r satisfies every filter of q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return q.Kind.match(r.ActionRecord())
}

func (k Kind) match(rec model.ActionRecord) bool {
	switch k {
	case KindShed:
		return rec.HasShed()
	case KindRestored:
		return rec.HasRestore()
	case KindFailure:
		return rec.Failed()
	case KindNone:
		return rec.Action == model.ActionNone
	default:
		return true
	}
}

// Store persists Records and supports querying. Query results are ordered
// by timestamp then sequence number.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func sortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.Before(recs[j].Timestamp)
		}
		return recs[i].Seq < recs[j].Seq
	})
}
