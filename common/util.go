package common

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// RunParallel calls fn for every key at once and waits for all of them. The
// result only holds the keys whose call failed.
func RunParallel[K comparable](keys []K, fn func(K) error) map[K]error {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs = map[K]error{}
	)
	for _, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(k); err != nil {
				mu.Lock()
				errs[k] = err
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}

// JoinErrors prefixes every error with its key, in key order. It is nil for
// an empty map.
func JoinErrors[K cmp.Ordered](errs map[K]error) error {
	joined := make([]error, 0, len(errs))
	for _, k := range slices.Sorted(maps.Keys(errs)) {
		joined = append(joined, fmt.Errorf("%v: %w", k, errs[k]))
	}
	return errors.Join(joined...)
}
