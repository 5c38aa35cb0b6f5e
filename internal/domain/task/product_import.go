package task

import "aliexpress/importer/internal/catalog"

// ProductImportTask asks the worker to import a single AliExpress product.
type ProductImportTask struct {
	ProductID   int64                `json:"product_id"`
	CategoryIDs []string             `json:"category_ids,omitempty"` // explicit target categories, optional
	Policy      catalog.ImportPolicy `json:"policy"`
}

func (t *ProductImportTask) TaskType() string {
	return "ProductImportTask"
}

func (t *ProductImportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
