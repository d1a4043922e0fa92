package market

import (
	"context"
	"encoding/json"
	"fmt"

	"foodrescue/internal/store"

	"github.com/sirupsen/logrus"
)

// loadCollection reads a namespace and decodes it, substituting the empty
// default when the blob is missing or malformed. Store corruption is
// recovered here and never surfaced as an operation failure.
func loadCollection[T any](ctx context.Context, kv store.KV, namespace string, logger *logrus.Logger) []T {
	blob, err := kv.Get(ctx, namespace)
	if err != nil {
		logger.WithError(err).WithField("namespace", namespace).Warn("failed to read namespace, starting empty")
		return nil
	}
	if len(blob) == 0 {
		return nil
	}

	var out []T
	if err := json.Unmarshal(blob, &out); err != nil {
		logger.WithError(err).WithField("namespace", namespace).Warn("malformed namespace blob, starting empty")
		return nil
	}
	return out
}

func saveCollection[T any](ctx context.Context, kv store.KV, namespace string, items []T) error {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode namespace %s: %w", namespace, err)
	}
	return kv.Put(ctx, namespace, blob)
}
