package service

import (
	"context"
	"testing"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breadcrumbProduct(path ...domain.CategoryPathEntry) *domain.Product {
	return &domain.Product{ID: 1, CategoryPath: path}
}

func TestWalkBreadcrumbExistingMidSetsParent(t *testing.T) {
	env := newTestEnv()

	existing := &catalog.Category{Name: "Electronics", ExternalID: "3"}
	require.NoError(t, env.store.CreateCategory(context.Background(), existing))

	scraped := breadcrumbProduct(
		domain.CategoryPathEntry{ID: 3, Name: "Electronics"},
		domain.CategoryPathEntry{ID: 44, Name: "Audio"},
	)

	attach := env.svc.walkBreadcrumb(context.Background(), scraped, catalog.DefaultImportPolicy())

	created, err := env.store.GetCategoryByExternalID(context.Background(), "44")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, existing.ID, created.ParentCategoryID)
	assert.Equal(t, []string{created.ID}, attach)
}

func TestWalkBreadcrumbExistingLeafJoinsAttachSet(t *testing.T) {
	env := newTestEnv()

	leaf := &catalog.Category{Name: "Audio", ExternalID: "44"}
	require.NoError(t, env.store.CreateCategory(context.Background(), leaf))

	scraped := breadcrumbProduct(
		domain.CategoryPathEntry{ID: 44, Name: "Audio"},
	)

	attach := env.svc.walkBreadcrumb(context.Background(), scraped, catalog.DefaultImportPolicy())
	assert.Equal(t, []string{leaf.ID}, attach)
	// Nothing was created.
	assert.Len(t, env.store.categories, 1)
}

func TestWalkBreadcrumbCreatedNodeReplacesExistingLeaf(t *testing.T) {
	env := newTestEnv()

	// The leaf exists but a mid node does not: the created mid node replaces
	// the attach set, then the existing leaf joins it.
	leaf := &catalog.Category{Name: "Earphones", ExternalID: "200001"}
	require.NoError(t, env.store.CreateCategory(context.Background(), leaf))

	scraped := breadcrumbProduct(
		domain.CategoryPathEntry{ID: 44, Name: "Audio"},
		domain.CategoryPathEntry{ID: 200001, Name: "Earphones"},
	)

	attach := env.svc.walkBreadcrumb(context.Background(), scraped, catalog.DefaultImportPolicy())

	created, err := env.store.GetCategoryByExternalID(context.Background(), "44")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, []string{created.ID, leaf.ID}, attach)
}

func TestWalkBreadcrumbCreationFailureBreaksChain(t *testing.T) {
	env := newTestEnv()
	env.store.failCategoryCreate["44"] = true

	scraped := breadcrumbProduct(
		domain.CategoryPathEntry{ID: 3, Name: "Electronics"},
		domain.CategoryPathEntry{ID: 44, Name: "Audio"},
		domain.CategoryPathEntry{ID: 200001, Name: "Earphones"},
	)

	attach := env.svc.walkBreadcrumb(context.Background(), scraped, catalog.DefaultImportPolicy())

	// The failed node broke the chain: the leaf was created without a parent.
	leaf, err := env.store.GetCategoryByExternalID(context.Background(), "200001")
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.Empty(t, leaf.ParentCategoryID)
	assert.Equal(t, []string{leaf.ID}, attach)

	missing, err := env.store.GetCategoryByExternalID(context.Background(), "44")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWalkBreadcrumbEmptyPath(t *testing.T) {
	env := newTestEnv()
	attach := env.svc.walkBreadcrumb(context.Background(), breadcrumbProduct(), catalog.DefaultImportPolicy())
	assert.Empty(t, attach)
}
