package service

import "github.com/GTDGit/catalog_api/internal/models"

// ReconcileTags compares the join rows a product has with the tag ids it
// should have. It returns the join rows to insert (desired tags not present
// yet, first occurrence order, duplicates collapsed) and the ids of the join
// rows to delete (rows whose tag is no longer desired, in existing order).
func ReconcileTags(productID int, existing []models.ProductTag, desired []int) (toAdd []models.ProductTag, toRemove []int) {
	have := make(map[int]struct{}, len(existing))
	for _, pt := range existing {
		have[pt.TagID] = struct{}{}
	}

	want := make(map[int]struct{}, len(desired))
	for _, tagID := range desired {
		if _, dup := want[tagID]; dup {
			continue
		}
		want[tagID] = struct{}{}
		if _, ok := have[tagID]; !ok {
			toAdd = append(toAdd, models.ProductTag{ProductID: productID, TagID: tagID})
		}
	}

	for _, pt := range existing {
		if _, ok := want[pt.TagID]; !ok {
			toRemove = append(toRemove, pt.ID)
		}
	}
	return toAdd, toRemove
}
