package contract

// maintaining index keys for querying data in various ways

import (
	"encoding/json"
	"fmt"
	"strconv"

	"mygov_dao/sdk"
)

// index key prefixes
const (
	maxChunkSize = 2500      // indexes are split into chunks of X entries so a single value stays small
	idxCommit    = "commit:" // + member address, project ids the member voted or delegated on
)

func commitIndexKey(addr sdk.Address) string {
	return idxCommit + addr.String()
}

// chunkCounterKey stores number of chunks for a base index
func chunkCounterKey(base string) string {
	return base + ":chunks"
}

func chunkKey(base string, chunk int) string {
	return base + ":" + strconv.Itoa(chunk)
}

// getChunkCount returns the number of chunks for an index
func (c *call) getChunkCount(baseKey string) (int, error) {
	ptr := c.st.Get(chunkCounterKey(baseKey))
	if ptr == nil || *ptr == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(*ptr)
	if err != nil {
		return 0, internalError("corrupt chunk counter "+baseKey, err)
	}
	return n, nil
}

func (c *call) setChunkCount(baseKey string, n int) {
	c.st.Set(chunkCounterKey(baseKey), strconv.Itoa(n))
}

func (c *call) readChunk(key string) ([]uint64, error) {
	ptr := c.st.Get(key)
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	var ids []uint64
	if err := json.Unmarshal([]byte(*ptr), &ids); err != nil {
		return nil, internalError(fmt.Sprintf("unmarshal index %s", key), err)
	}
	return ids, nil
}

func (c *call) writeChunk(key string, ids []uint64) error {
	if len(ids) == 0 {
		c.st.Delete(key)
		return nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return internalError(fmt.Sprintf("marshal index %s", key), err)
	}
	c.st.Set(key, string(b))
	return nil
}

// addIDToIndex ensures id exists across all chunks (no duplicates).
func (c *call) addIDToIndex(baseKey string, id uint64) error {
	chunks, err := c.getChunkCount(baseKey)
	if err != nil {
		return err
	}
	free := -1
	for i := 0; i < chunks; i++ {
		ids, err := c.readChunk(chunkKey(baseKey, i))
		if err != nil {
			return err
		}
		for _, e := range ids {
			if e == id {
				return nil // already present
			}
		}
		if free < 0 && len(ids) < maxChunkSize {
			free = i
		}
	}
	if free >= 0 {
		key := chunkKey(baseKey, free)
		ids, err := c.readChunk(key)
		if err != nil {
			return err
		}
		return c.writeChunk(key, append(ids, id))
	}
	// no space -> create new chunk
	if err := c.writeChunk(chunkKey(baseKey, chunks), []uint64{id}); err != nil {
		return err
	}
	c.setChunkCount(baseKey, chunks+1)
	return nil
}

// removeIDsFromIndex drops every id in drop from whichever chunk holds it.
func (c *call) removeIDsFromIndex(baseKey string, drop map[uint64]bool) error {
	if len(drop) == 0 {
		return nil
	}
	chunks, err := c.getChunkCount(baseKey)
	if err != nil {
		return err
	}
	for i := 0; i < chunks; i++ {
		key := chunkKey(baseKey, i)
		ids, err := c.readChunk(key)
		if err != nil {
			return err
		}
		kept := ids[:0]
		for _, e := range ids {
			if !drop[e] {
				kept = append(kept, e)
			}
		}
		if len(kept) != len(ids) {
			if err := c.writeChunk(key, kept); err != nil {
				return err
			}
		}
	}
	return nil
}

// getIDsFromIndex collects all ids across all chunks.
func (c *call) getIDsFromIndex(baseKey string) ([]uint64, error) {
	all := []uint64{}
	chunks, err := c.getChunkCount(baseKey)
	if err != nil {
		return nil, err
	}
	for i := 0; i < chunks; i++ {
		ids, err := c.readChunk(chunkKey(baseKey, i))
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return all, nil
}
