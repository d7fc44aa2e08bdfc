package pipeline

import (
	"github.com/cockroachdb/errors"

	"observatory-datastreams/src/storage"
)

const maxAttachmentDepth = 64

// ResolveVerticalOffset walks isAttachedTo edges from the acquiring
// equipment to the root, summing each node's latest position's vertical
// offset. A node with no position record, or a position with no
// surveyed offset, contributes 0: offset provenance is best-effort. A
// negative total means depth below the reference; non-negative means
// elevation above it.
func ResolveVerticalOffset(store *storage.Storage, equipmentID int64) (float64, error) {
	total := 0.0
	visited := map[int64]bool{}
	current := equipmentID

	for depth := 0; ; depth++ {
		if depth > maxAttachmentDepth {
			return 0, errors.Newf(
				"attachment chain from equipment %d exceeds %d levels",
				equipmentID, maxAttachmentDepth)
		}
		if visited[current] {
			return 0, errors.Newf(
				"attachment cycle detected at equipment %d", current)
		}
		visited[current] = true

		position, err := store.LatestEquipmentPosition(current)
		if err != nil {
			return 0, err
		}
		if position != nil && position.ZOffsetM != nil {
			total += *position.ZOffsetM
		}

		edges, err := store.Attachments(current)
		if err != nil {
			return 0, err
		}
		if len(edges) == 0 {
			// First node without a parent edge is the root.
			return total, nil
		}

		// Follow the edge with the latest start date, skipping undated
		// edges unless nothing else exists.
		next := edges[0].RelatedEquipmentID
		var latest *storage.EquipmentAttachment
		for i := range edges {
			e := &edges[i]
			if e.RelationshipStartUTC == nil {
				continue
			}
			if latest == nil || e.RelationshipStartUTC.After(*latest.RelationshipStartUTC) {
				latest = e
			}
		}
		if latest != nil {
			next = latest.RelatedEquipmentID
		}
		current = next
	}
}
