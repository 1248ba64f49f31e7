// Package models defines the records stored in the vault. Every record embeds
// Meta and exposes its column layout so a single generic repository can
// persist it.
package models

import "strings"

// Meta carries the identity and audit columns shared by every record.
// Timestamps are unix seconds.
type Meta struct {
	ID        string `json:"id,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
	UpdatedBy string `json:"updated_by,omitempty"`
}

var metaColumns = []string{"id", "created_at", "created_by", "updated_at", "updated_by"}

func (m *Meta) GetID() string    { return m.ID }
func (m *Meta) SetID(id string)  { m.ID = id }
func (m *Meta) IDColumn() string { return "id" }

// Base returns the embedded Meta so services can stamp audit fields.
func (m *Meta) Base() *Meta { return m }

func (m *Meta) metaValues() []any {
	return []any{m.ID, m.CreatedAt, m.CreatedBy, m.UpdatedAt, m.UpdatedBy}
}

func (m *Meta) metaTargets() []any {
	return []any{&m.ID, &m.CreatedAt, &m.CreatedBy, &m.UpdatedAt, &m.UpdatedBy}
}

func columns(own ...string) []string {
	return append(append(make([]string, 0, len(metaColumns)+len(own)), metaColumns...), own...)
}

// SplitTags parses the comma separated tags column.
func SplitTags(csv *string) []string {
	if csv == nil || strings.TrimSpace(*csv) == "" {
		return nil
	}
	parts := strings.Split(*csv, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinTags renders tags for the tags column; no tags yields nil.
func JoinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	s := strings.Join(tags, ",")
	return &s
}

func appendSecret(dst []*string, s *string) []*string {
	if s == nil {
		return dst
	}
	return append(dst, s)
}
