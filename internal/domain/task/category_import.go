package task

import "aliexpress/importer/internal/catalog"

// CategoryImportTask asks the worker to import every product reachable from
// an AliExpress category listing page.
type CategoryImportTask struct {
	CategoryID   string               `json:"category_id"`
	CategoryName string               `json:"category_name"`
	Policy       catalog.ImportPolicy `json:"policy"`
}

func (t *CategoryImportTask) TaskType() string {
	return "CategoryImportTask"
}

func (t *CategoryImportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
