package pipeline

import "items-finder/internal/models"

// Annotate attaches the user-entered available quantity to each item by
// exact item text. Items missing from annotations stay unset.
func Annotate(items []models.RankedItem, cumulative []models.Cumulative, annotations map[string]string) []models.AnnotatedItem {
	out := make([]models.AnnotatedItem, len(items))
	for i, it := range items {
		out[i] = models.AnnotatedItem{RankedItem: it}
		if cumulative != nil {
			c := cumulative[i]
			out[i].Cumulative = &c
		}
		if v, ok := annotations[it.Item]; ok {
			out[i].AvailableQuantity = &v
		}
	}
	return out
}
