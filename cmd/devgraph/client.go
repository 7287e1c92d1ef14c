package devgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	root "github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/config"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// loadConfig loads configuration, leaving room for flag overrides
// before the client is wired.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newClientFrom wires a devgraph client from an already-adjusted config.
func newClientFrom(cfg *config.Config) (*root.Client, error) {
	client, err := root.New(cfg, root.WithLogger(newLogger(cfg)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}
	return client, nil
}

// newClient loads configuration and wires a devgraph client.
func newClient() (*root.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	client, err := newClientFrom(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// loadRecords reads ingest records from JSON or YAML files. A path may
// be a directory, in which case every record file inside it is loaded.
func loadRecords(paths []string) ([]*types.IngestRecord, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".json", ".yaml", ".yml":
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}

	var records []*types.IngestRecord
	for _, file := range files {
		loaded, err := loadRecordFile(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		records = append(records, loaded...)
	}
	return records, nil
}

// loadRecordFile parses one file holding a single record or a list.
func loadRecordFile(path string) ([]*types.IngestRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	unmarshal := json.Unmarshal
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		unmarshal = yaml.Unmarshal
	}

	var many []*types.IngestRecord
	if err := unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one types.IngestRecord
	if err := unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("neither a record nor a record list: %w", err)
	}
	return []*types.IngestRecord{&one}, nil
}

// ingestPaths loads records from paths into the client.
func ingestPaths(ctx context.Context, client *root.Client, paths []string) error {
	records, err := loadRecords(paths)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found in %s", strings.Join(paths, ", "))
	}

	batch := client.IngestBatch(ctx, records)
	for i, err := range batch.Errors {
		if err != nil {
			fmt.Fprintf(os.Stderr, "record %s rejected: %v\n", records[i].ID, err)
		}
	}
	if batch.Succeeded() == 0 {
		return fmt.Errorf("all %d records rejected", len(records))
	}
	fmt.Printf("Ingested %d of %d records\n", batch.Succeeded(), len(records))
	return nil
}

// printJSON renders a result for terminal consumption.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
