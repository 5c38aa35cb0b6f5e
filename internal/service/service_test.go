package service

import (
	"context"
	"encoding/json"
	"testing"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain/task"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageFor(t *testing.T, tsk task.Task) *redis.XMessage {
	t.Helper()
	data, err := tsk.TaskValue()
	require.NoError(t, err)
	return &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": tsk.TaskType(),
			"task_data": string(data),
		},
	}
}

func TestProcessMessageProductImport(t *testing.T) {
	env := newTestEnv()
	env.client.products[1005001] = scrapedEarbuds()

	msg := messageFor(t, &task.ProductImportTask{
		ProductID: 1005001,
		Policy:    catalog.DefaultImportPolicy(),
	})

	require.NoError(t, env.svc.processMessage(context.Background(), msg))

	assert.Len(t, env.store.products, 1)
	assert.Equal(t, []string{"1-0"}, env.queue.acked)
}

func TestProcessMessageCategoryImport(t *testing.T) {
	env := newTestEnv()
	env.client.listIDs = []int64{1005001}
	env.client.products[1005001] = scrapedEarbuds()

	msg := messageFor(t, &task.CategoryImportTask{
		CategoryID:   "200001",
		CategoryName: "earphones",
		Policy:       catalog.DefaultImportPolicy(),
	})

	require.NoError(t, env.svc.processMessage(context.Background(), msg))

	assert.Len(t, env.store.products, 1)
	assert.Equal(t, []string{"1-0"}, env.queue.acked)
}

func TestProcessMessageFailedImportIsStillAcked(t *testing.T) {
	env := newTestEnv()
	// No scraped product registered, so the import fails.
	msg := messageFor(t, &task.ProductImportTask{ProductID: 404})

	require.NoError(t, env.svc.processMessage(context.Background(), msg))

	assert.Empty(t, env.store.products)
	assert.Equal(t, []string{"1-0"}, env.queue.acked)
}

func TestProcessMessageUnknownTaskType(t *testing.T) {
	env := newTestEnv()
	msg := &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": "SomethingElse",
			"task_data": "{}",
		},
	}

	require.Error(t, env.svc.processMessage(context.Background(), msg))
	assert.Empty(t, env.queue.acked)
}

func TestProcessMessageMalformedPayload(t *testing.T) {
	env := newTestEnv()
	msg := &redis.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"task_type": "ProductImportTask",
			"task_data": "{broken",
		},
	}

	err := env.svc.processMessage(context.Background(), msg)
	require.Error(t, err)
	assert.Empty(t, env.queue.acked)
}

func TestTaskRoundTrip(t *testing.T) {
	original := &task.ProductImportTask{
		ProductID:   42,
		CategoryIDs: []string{"a", "b"},
		Policy:      catalog.DefaultImportPolicy(),
	}

	data, err := original.TaskValue()
	require.NoError(t, err)

	decoded, err := task.UnmarshalTask[*task.ProductImportTask](data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "product_id")
}
