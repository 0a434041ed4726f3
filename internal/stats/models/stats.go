package models

import (
	id "warden/pkg/domain"
)

// PrisonStats is the per-facility custody dashboard: headcount broken down by
// status. ComputedAt records when the counts were taken, so a consumer reading
// a cached snapshot can see its age.
type PrisonStats struct {
	PrisonID   id.PrisonID             `json:"prisonId"`
	Total      int                     `json:"total"`
	ByStatus   map[id.InmateStatus]int `json:"byStatus"`
	ComputedAt string                  `json:"computedAt"`
}

// InCustody counts only the statuses that keep an inmate on the facility roll.
func (p *PrisonStats) InCustody() int {
	return p.ByStatus[id.StatusRemand] + p.ByStatus[id.StatusConvict] + p.ByStatus[id.StatusAtCourt]
}
