package api

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/polarplant/ecboard/pkg/catalog"
	"github.com/polarplant/ecboard/pkg/dataset"
	"github.com/polarplant/ecboard/pkg/kit"
)

// RegisterMCPTools registers the dashboard's four MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, store *dataset.Store, cat *catalog.DB) {
	registerOverview(srv, store)
	registerEnvironment(srv, store)
	registerGrowth(srv, store)
	registerDatasets(srv, cat)
}

func registerOverview(srv *server.MCPServer, store *dataset.Store) {
	tool := mcp.NewTool("experiment_overview",
		mcp.WithDescription("Overview of the polar-plant EC study: group conditions, total plants, average temperature/humidity, and the EC target with the best growth outcome so far."),
	)
	kit.RegisterMCPTool(srv, tool, overviewEndpoint(store),
		func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			return &kit.MCPDecodeResult{Request: nil}, nil
		})
}

func registerEnvironment(srv *server.MCPServer, store *dataset.Store) {
	tool := mcp.NewTool("environment_summary",
		mcp.WithDescription("Per-group mean temperature, humidity, pH, and measured EC. Pass a group ID to get the full time-series for one group."),
		mcp.WithString("group", mcp.Description("Group ID (e.g. songdo, haneul, ara, dongsan); omit for all groups")),
	)
	kit.RegisterMCPTool(srv, tool, environmentEndpoint(store),
		func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			group, _ := req.GetArguments()["group"].(string)
			return &kit.MCPDecodeResult{Request: &environmentReq{Group: group}}, nil
		})
}

func registerGrowth(srv *server.MCPServer, store *dataset.Store) {
	tool := mcp.NewTool("growth_summary",
		mcp.WithDescription("Per-group mean fresh weight, leaf count, and shoot length from the combined growth-results workbook."),
	)
	kit.RegisterMCPTool(srv, tool, growthEndpoint(store),
		func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			return &kit.MCPDecodeResult{Request: nil}, nil
		})
}

func registerDatasets(srv *server.MCPServer, cat *catalog.DB) {
	tool := mcp.NewTool("list_datasets",
		mcp.WithDescription("List every logical dataset with its resolved path, row count, and last load status."),
	)
	kit.RegisterMCPTool(srv, tool, datasetsEndpoint(cat),
		func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			return &kit.MCPDecodeResult{Request: nil}, nil
		})
}
