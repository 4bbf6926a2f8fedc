package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/model"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

// contentWidth bounds the content and metadata columns of the chunk table
const contentWidth = 60

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", &chroma.ValidationError{Field: "output", Value: s, Reason: "must be table, json or yaml"}
	}
}

type collectionRecord struct {
	Name   string `json:"name" yaml:"name"`
	Chunks *int   `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

type infoRecord struct {
	Name     string         `json:"name" yaml:"name"`
	ID       string         `json:"id" yaml:"id"`
	Chunks   int            `json:"chunks" yaml:"chunks"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

type chunkRecord struct {
	Chunk    int            `json:"chunk" yaml:"chunk"`
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Content  string         `json:"content" yaml:"content"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// writeCollections prints names, with counts when counts is not nil
func writeCollections(w io.Writer, format outputFormat, names []string, counts []int) error {
	if format != formatTable {
		records := make([]collectionRecord, len(names))
		for i, name := range names {
			records[i] = collectionRecord{Name: name}
			if counts != nil {
				count := counts[i]
				records[i].Chunks = &count
			}
		}
		return writeStructured(w, format, records)
	}

	t := newTable(w)
	if counts != nil {
		t.AppendHeader(table.Row{"Name", "Chunks"})
	} else {
		t.AppendHeader(table.Row{"Name"})
	}
	for i, name := range names {
		if counts != nil {
			t.AppendRow(table.Row{name, counts[i]})
		} else {
			t.AppendRow(table.Row{name})
		}
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d collections)\n", len(names))
	return nil
}

func writeInfo(w io.Writer, format outputFormat, info model.CollectionInfo) error {
	if format != formatTable {
		return writeStructured(w, format, infoRecord{
			Name:     info.Name,
			ID:       info.ID,
			Chunks:   info.ItemCount,
			Metadata: plainMetadata(info.Metadata),
		})
	}

	t := newTable(w)
	t.AppendRow(table.Row{"Name", info.Name})
	t.AppendRow(table.Row{"ID", info.ID})
	t.AppendRow(table.Row{"Chunks", info.ItemCount})
	if info.HasMetadata() {
		t.AppendRow(table.Row{"Metadata", info.MetadataJSON()})
	}
	t.Render()
	return nil
}

// writeChunks prints the chunks at indices
func writeChunks(w io.Writer, format outputFormat, chunks model.ChunkSet, indices []int) error {
	records := make([]chunkRecord, 0, len(indices))
	for _, i := range indices {
		chunk, ok := chunks.At(i)
		if !ok {
			continue
		}
		records = append(records, chunkRecord{
			Chunk:    i + 1,
			ID:       chunk.ID,
			Content:  chunk.Content,
			Metadata: plainMetadata(chunk.Metadata),
		})
	}

	if format != formatTable {
		return writeStructured(w, format, records)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"#", "ID", "Content", "Metadata"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: contentWidth, WidthMaxEnforcer: text.WrapSoft},
		{Number: 4, WidthMax: contentWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, r := range records {
		t.AppendRow(table.Row{r.Chunk, r.ID, r.Content, model.FormatMetadata(r.Metadata)})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d of %d chunks)\n", len(records), chunks.Len())
	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", model.MetadataIndent)
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(len(model.MetadataIndent))
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

// plainMetadata replaces json.Number values with int64 or float64 so that
// every encoder prints them as numbers
func plainMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		return plainMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
