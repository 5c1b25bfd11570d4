package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/entry"
	"tally/internal/tally"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the configured schemas with their fields and source types"),
	), s.handleListSchemas)

	s.mcp.AddTool(mcp.NewTool("query_recent",
		mcp.WithDescription("Return the N most recent entries of a schema, most recent first, one tab-separated line per entry"),
		mcp.WithString("schema", mcp.Description("Schema name"), mcp.Required()),
		mcp.WithNumber("count", mcp.Description("Number of entries (default from config)")),
	), s.handleQueryRecent)

	s.mcp.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Append one entry to a schema's datafile. Entry is a JSON object keyed by field name; an omitted datetime field defaults to now."),
		mcp.WithString("schema", mcp.Description("Schema name"), mcp.Required()),
		mcp.WithString("entry", mcp.Description("Entry as a JSON object {field: value, ...}"), mcp.Required()),
	), s.handleAddEntry)

	s.mcp.AddTool(mcp.NewTool("export_records",
		mcp.WithDescription("Export every entry of a schema as a JSON array"),
		mcp.WithString("schema", mcp.Description("Schema name"), mcp.Required()),
	), s.handleExportRecords)
}

func (s *Server) handleListSchemas(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make([]map[string]any, 0, len(s.cfg.Schemas))
	for _, name := range s.cfg.SchemaNames() {
		schema, err := s.cfg.Schema(name)
		if err != nil {
			return nil, err
		}
		sc, err := s.cfg.SourceFor(name)
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"name":   schema.Name,
			"fields": schema.Fields,
			"source": sc.Type,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleQueryRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["schema"].(string)
	count := s.cfg.DefaultCount
	if n, ok := args["count"].(float64); ok {
		count = int(n)
	}

	schema, src, err := s.cfg.OpenSource(name)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	if err := tally.PrintRecent(ctx, &buf, src, schema, count); err != nil {
		if errors.Is(err, tally.ErrEmptyResult) {
			return textResult(fmt.Sprintf("no entries for %s", name)), nil
		}
		return nil, err
	}
	return textResult(buf.String()), nil
}

func (s *Server) handleAddEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["schema"].(string)
	entryJSON, _ := args["entry"].(string)
	if entryJSON == "" {
		return nil, fmt.Errorf("entry is required")
	}

	schema, src, err := s.cfg.OpenSource(name)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := parseJSON(entryJSON, &data); err != nil {
		return nil, fmt.Errorf("parse entry JSON: %w", err)
	}
	rec, err := buildRecord(schema, data)
	if err != nil {
		return nil, err
	}

	if err := src.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append to %s: %w", name, err)
	}
	return textResult(fmt.Sprintf("Added 1 entry to %s", name)), nil
}

func (s *Server) handleExportRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["schema"].(string)

	schema, src, err := s.cfg.OpenSource(name)
	if err != nil {
		return nil, err
	}
	records, err := src.FetchAll(ctx, schema)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		rows[i] = rec.Data
	}
	return jsonResult(rows)
}

// buildRecord coerces a field-keyed JSON object into a record,
// defaulting an omitted datetime field to now and parsing datetime
// strings.
func buildRecord(schema *tally.Schema, data map[string]any) (tally.Record, error) {
	field, err := schema.TemporalField()
	if err != nil {
		return tally.Record{}, err
	}
	switch v := data[field].(type) {
	case nil:
		data[field] = timeNow()
	case string:
		t, err := entry.ParseDatetime(v)
		if err != nil {
			return tally.Record{}, err
		}
		data[field] = t
	}
	for k := range data {
		found := false
		for _, f := range schema.Fields {
			if f.Name == k {
				found = true
				break
			}
		}
		if !found {
			return tally.Record{}, fmt.Errorf("schema %q has no field %q", schema.Name, k)
		}
	}
	return tally.Record{Schema: schema, Data: data}, nil
}
