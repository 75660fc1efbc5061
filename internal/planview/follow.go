package planview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"modulmate/internal/editor/store"
)

// Follow опрашивает GET <baseURL>/project редактора и загружает изменившийся
// проект в локальный стор. Возвращается при отмене ctx.
func Follow(ctx context.Context, client *http.Client, baseURL string, st *store.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []byte
	for {
		data, err := fetchProject(ctx, client, baseURL)
		if err != nil {
			log.Printf("[PLANVIEW] follow: %v", err)
		} else if !bytes.Equal(data, last) {
			if err := st.LoadProject(bytes.NewReader(data)); err == nil {
				last = data
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func fetchProject(ctx context.Context, client *http.Client, baseURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/project", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("editor returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
