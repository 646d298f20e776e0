// PowerAtlas - Global Power Generation Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poweratlas

package markers

import "github.com/tomtom215/poweratlas/internal/models"

// Selection is the source record behind one marker. Exactly one field is set.
type Selection struct {
	Facility   *models.Facility   `json:"facility,omitempty"`
	DataCenter *models.DataCenter `json:"datacenter,omitempty"`
}

// Select returns the record behind markerID.
func (l *Layer) Select(markerID string) (Selection, bool) {
	if f, ok := l.facilities[markerID]; ok {
		return Selection{Facility: &f}, true
	}
	if dc, ok := l.dataCenters[markerID]; ok {
		return Selection{DataCenter: &dc}, true
	}
	return Selection{}, false
}

// Marker returns the marker with id.
func (l *Layer) Marker(id string) (Marker, bool) {
	i, ok := l.markerIdx[id]
	if !ok || i < 0 || i >= len(l.Markers) {
		return Marker{}, false
	}
	return l.Markers[i], true
}

// Expand returns the member markers of clusterID in draw order.
func (l *Layer) Expand(clusterID string) ([]Marker, bool) {
	ci, ok := l.clusterIdx[clusterID]
	if !ok {
		return nil, false
	}
	c := l.Clusters[ci]
	members := make([]Marker, 0, len(c.MemberIDs))
	for _, id := range c.MemberIDs {
		if m, ok := l.Marker(id); ok {
			members = append(members, m)
		}
	}
	SortForDraw(members)
	return members, true
}
